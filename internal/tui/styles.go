package tui

import "github.com/charmbracelet/lipgloss"

// Palette. Adaptive so light terminals stay readable.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
	colorPurple = lipgloss.AdaptiveColor{Light: "91", Dark: "141"}

	colorBar      = lipgloss.AdaptiveColor{Light: "235", Dark: "236"}
	colorSelected = lipgloss.AdaptiveColor{Light: "254", Dark: "237"}
)

func fg(c lipgloss.TerminalColor) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

func bold(c lipgloss.TerminalColor) lipgloss.Style { return fg(c).Bold(true) }

func border(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c)
}

// Chrome.
var (
	headerStyle          = lipgloss.NewStyle().Bold(true)
	statusBarStyle       = fg(colorWhite).Background(colorBar)
	focusedBorderStyle   = border(colorWhite)
	unfocusedBorderStyle = border(colorDim)

	activeTabStyle   = bold(colorWhite).Underline(true)
	inactiveTabStyle = fg(colorDim)
	tabSepStyle      = fg(colorDim)

	keyStyle  = bold(colorWhite)
	hintStyle = fg(colorDim)
)

// Rows, keyed to session status, task outcome and event severity.
var (
	plainStyle   = lipgloss.NewStyle()
	dimStyle     = fg(colorDim)
	activeStyle  = bold(colorGreen)
	successStyle = fg(colorGreen)
	failureStyle = fg(colorRed)
	idleStyle    = fg(colorYellow)

	sectionHeaderStyle = bold(colorWhite)
	selectedItemStyle  = lipgloss.NewStyle().Background(colorSelected)

	badgeOnlineStyle  = bold(colorGreen)
	badgeOfflineStyle = bold(colorRed)

	cardLabelStyle = fg(colorDim).Width(22)
	cardValueStyle = bold(colorWhite)
)

// History roles.
var (
	roleUserStyle      = bold(colorCyan)
	roleAssistantStyle = bold(colorPurple)
	roleOtherStyle     = bold(colorDim)
)

// Overlays.
var (
	overlayStyle      = border(colorWhite).Padding(1, 2)
	overlayTitleStyle = bold(colorWhite).MarginBottom(1)
	overlayDimStyle   = fg(colorDim)
)
