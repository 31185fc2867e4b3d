package cli

import "github.com/charmbracelet/lipgloss"

// Same adaptive palette as the dashboard.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

var (
	styleBrand   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleVersion = lipgloss.NewStyle().Foreground(colorGreen)
	styleHeading = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	styleLabel   = lipgloss.NewStyle().Foreground(colorDim)
	styleHint    = styleLabel
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)

	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)

	// Session status badges.
	badgeActive = styleSuccess
	badgeIdle   = lipgloss.NewStyle().Foreground(colorYellow)
	badgeClosed = styleLabel
)
