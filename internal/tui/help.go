package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title string
	keys  []helpKey
}

type helpKey struct {
	key  string
	desc string
}

var helpSections = []helpSection{
	{
		title: "Global",
		keys: []helpKey{
			{"q / Ctrl+q", "Quit"},
			{"? / Ctrl+h", "Toggle help"},
			{"1-6", "Jump to tab"},
			{"h/l ←/→", "Previous / next tab"},
			{"r", "Refresh now (skip cache)"},
		},
	},
	{
		title: "Lists",
		keys: []helpKey{
			{"j/k ↑/↓", "Navigate"},
			{"PgUp/PgDn", "Page"},
			{"f", "Cycle filter (Sessions, Activity)"},
			{"Enter", "Show details"},
		},
	},
	{
		title: "Sessions",
		keys: []helpKey{
			{"Enter", "Open session history"},
			{"Tab", "Switch list / history focus"},
			{"Esc", "Close history"},
		},
	},
}

// renderHelp lists the key bindings by context.
func renderHelp(width int) string {
	title := overlayTitleStyle.Render("Keyboard Shortcuts")
	sections := make([]string, 0, len(helpSections)*4+3)
	sections = append(sections, title)

	for _, sec := range helpSections {
		header := lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Render(sec.title)
		sections = append(sections, "", header)

		for _, k := range sec.keys {
			keyCol := lipgloss.NewStyle().
				Width(14).
				Foreground(colorWhite).
				Bold(true).
				Render(k.key)
			descCol := lipgloss.NewStyle().
				Foreground(colorDim).
				Render(k.desc)
			sections = append(sections, "  "+keyCol+descCol)
		}
	}

	sections = append(sections, "", lipgloss.NewStyle().Foreground(colorDim).Render("Press Esc or Ctrl+h to close"))

	return overlayStyle.Width(overlayWidth(width)).Render(strings.Join(sections, "\n"))
}
