package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// minPanelWidth keeps either side of the split usable.
const minPanelWidth = 10

// panelLayout is the body geometry below the header and above the status bar.
type panelLayout struct {
	leftWidth     int
	rightWidth    int
	contentHeight int
}

// computeLayout splits the body between the list and the detail panel. The
// header and status bar take one row each; the divider takes one column.
func computeLayout(width, height int, splitRatio float64) panelLayout {
	usable := width - 1
	left := max(int(float64(usable)*splitRatio), minPanelWidth)
	return panelLayout{
		leftWidth:     left,
		rightWidth:    max(usable-left, minPanelWidth),
		contentHeight: max(height-2, 1),
	}
}

// box renders content inside a rounded border of exactly width x height
// cells, clipping what does not fit.
func box(style lipgloss.Style, content string, width, height int) string {
	innerW := max(width-2, 1)
	innerH := max(height-2, 1)
	return style.Width(innerW).Height(innerH).Render(clip(content, innerW, innerH))
}

// renderPanels draws the Sessions split: list on the left, history on the
// right, with the focused side highlighted.
func renderPanels(leftContent, rightContent string, layout panelLayout, focusedPanel int) string {
	leftStyle, rightStyle := focusedBorderStyle, unfocusedBorderStyle
	if focusedPanel == 1 {
		leftStyle, rightStyle = unfocusedBorderStyle, focusedBorderStyle
	}

	left := box(leftStyle, leftContent, layout.leftWidth, layout.contentHeight)
	right := box(rightStyle, rightContent, layout.rightWidth, layout.contentHeight)

	rows := lipgloss.Height(left)
	divider := dimStyle.Render(strings.TrimSuffix(strings.Repeat("│\n", rows), "\n"))

	return lipgloss.JoinHorizontal(lipgloss.Top, left, divider, right)
}

// renderPanel draws a single full-width panel.
func renderPanel(content string, width, height int) string {
	return box(focusedBorderStyle, content, width, height)
}

// clip drops lines past height and cuts lines wider than width, keeping
// escape sequences intact.
func clip(content string, width, height int) string {
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		if lipgloss.Width(line) > width {
			lines[i] = ansi.Truncate(line, width, "")
		}
	}
	return strings.Join(lines, "\n")
}
