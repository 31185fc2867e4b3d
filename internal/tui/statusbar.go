package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func renderStatusBar(m *Model, width int) string {
	if m.err != nil {
		return renderErrorBar(m.err.Error(), width)
	}

	left := " " + getKeyHints(m)

	right := dimStyle.Render("Loading…") + " "
	if m.notice != "" {
		right = lipgloss.NewStyle().Foreground(colorGreen).Render(m.notice) + " "
	} else if m.snap != nil {
		right = hintStyle.Render("Updated "+m.snap.TakenAt.Local().Format("3:04:05 PM")) + " "
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return statusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func getKeyHints(m *Model) string {
	if m.activeOverlay != overlayNone {
		return keyHint("Esc", "close")
	}

	base := keyHint("q", "quit") + "  " + keyHint("?", "help") + "  " +
		keyHint("1-6", "tabs") + "  " + keyHint("r", "refresh")

	switch m.activeTab {
	case tabSessions:
		if m.focusedPanel == 1 {
			return base + "  " + keyHint("j/k", "scroll") + "  " + keyHint("Esc", "back")
		}
		return base + "  " + keyHint("j/k", "navigate") + "  " + keyHint("f", "filter") + "  " +
			keyHint("Enter", "history")
	case tabActivity:
		return base + "  " + keyHint("j/k", "navigate") + "  " + keyHint("f", "filter") + "  " +
			keyHint("Enter", "details")
	case tabSubagents, tabCron, tabDeliverables:
		return base + "  " + keyHint("j/k", "navigate") + "  " + keyHint("Enter", "details")
	}
	return base
}

func keyHint(k, desc string) string {
	if k == "" {
		return hintStyle.Render(desc)
	}
	return keyStyle.Render(k) + " " + hintStyle.Render(desc)
}

func renderErrorBar(msg string, width int) string {
	return statusBarStyle.
		Background(colorRed).
		Width(width).
		Render(" " + msg)
}
