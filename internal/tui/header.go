package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/clawd-ops/missioncontrol/internal/models"
)

// Tab indexes.
const (
	tabHome = iota
	tabSessions
	tabSubagents
	tabActivity
	tabCron
	tabDeliverables
)

var tabNames = []string{"Home", "Sessions", "Sub-Agents", "Activity", "Cron", "Deliverables"}

func renderHeader(status *models.AgentStatus, activeTab int, width int) string {
	dot := lipgloss.NewStyle().Foreground(colorCyan).Render("◆")
	name := lipgloss.NewStyle().Bold(true).Render("Mission Control")

	tabs := renderTabs(tabNames, activeTab)

	badge := dimStyle.Render("● Loading")
	if status != nil {
		badge = onlineBadge(*status)
	}

	left := fmt.Sprintf(" %s %s  %s", dot, name, tabs)
	right := badge + " "
	// Narrow terminals lose the title before the tabs.
	if lipgloss.Width(left)+lipgloss.Width(right) >= width {
		left = fmt.Sprintf(" %s %s", dot, tabs)
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return headerStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func renderTabs(tabs []string, active int) string {
	var parts []string
	for i, tab := range tabs {
		if i == active {
			parts = append(parts, activeTabStyle.Render(tab))
		} else {
			parts = append(parts, inactiveTabStyle.Render(tab))
		}
	}
	return strings.Join(parts, tabSepStyle.Render(" | "))
}
