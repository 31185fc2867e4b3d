package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Overlays drawn over the dashboard.
const (
	overlayNone = iota
	overlayHelp
	overlayDetail
)

// detailField is one labelled line of the detail overlay.
type detailField struct {
	label string
	value string
}

// itemDetail is the full record behind a list row.
type itemDetail struct {
	title  string
	fields []detailField
}

// newDetail builds a detail from label/value pairs, dropping empty values.
func newDetail(title string, pairs ...string) *itemDetail {
	d := &itemDetail{title: title}
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		d.fields = append(d.fields, detailField{label: pairs[i], value: pairs[i+1]})
	}
	return d
}

func overlayWidth(width int) int {
	w := min(72, width-4)
	return max(w, 30)
}

// renderDetail renders the detail overlay with values wrapped to the box.
func renderDetail(d *itemDetail, width int) string {
	boxWidth := overlayWidth(width)
	valueWidth := max(boxWidth-4-14, 10)

	lines := []string{overlayTitleStyle.Render(d.title)}
	for _, f := range d.fields {
		label := lipgloss.NewStyle().Width(14).Foreground(colorDim).Render(f.label)
		value := lipgloss.NewStyle().Width(valueWidth).Foreground(colorWhite).Render(f.value)
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, label, value))
	}
	lines = append(lines, "", dimStyle.Render("Press Esc to close"))
	return overlayStyle.Width(boxWidth).Render(strings.Join(lines, "\n"))
}

// renderOverlay dims base and draws box centered over it. Rows are spliced
// column-wise so the background stays visible at the sides.
func renderOverlay(base, box string, width, height int) string {
	rows := strings.Split(base, "\n")
	for i, row := range rows {
		rows[i] = overlayDimStyle.Render(ansi.Strip(row))
	}

	boxRows := strings.Split(box, "\n")
	top := max((height-len(boxRows))/2, 1)
	left := max((width-lipgloss.Width(box))/2, 1)

	for i, line := range boxRows {
		y := top + i
		if y >= len(rows) {
			break
		}
		bg := rows[y]
		bgWidth := lipgloss.Width(bg)
		right := ""
		if end := left + lipgloss.Width(line); end < bgWidth {
			right = ansi.Cut(bg, end, bgWidth)
		}
		rows[y] = ansi.Truncate(bg, left, "") + "\x1b[0m" + line + "\x1b[0m" + right
	}
	return strings.Join(rows, "\n")
}
