package tui

import "github.com/charmbracelet/bubbles/key"

// GlobalKeys are always active.
type GlobalKeys struct {
	Quit    key.Binding
	Help    key.Binding
	Refresh key.Binding
	Tab     key.Binding
}

var globalKeys = GlobalKeys{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+q", "ctrl+c", "q"),
		key.WithHelp("q", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("ctrl+h", "?"),
		key.WithHelp("?", "help"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "switch panel"),
	),
}

// ListKeys move the cursor in list views.
type ListKeys struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Filter   key.Binding
	Open     key.Binding
	Back     key.Binding
}

var listKeys = ListKeys{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("j/k", "navigate"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("j/k", "navigate"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("PgUp", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("PgDn", "page down"),
	),
	Filter: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "filter"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "history"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "back"),
	),
}

// TabSwitchKeys switch dashboard tabs.
type TabSwitchKeys struct {
	Home         key.Binding
	Sessions     key.Binding
	Subagents    key.Binding
	Activity     key.Binding
	Cron         key.Binding
	Deliverables key.Binding
	Left         key.Binding
	Right        key.Binding
}

var tabSwitchKeys = TabSwitchKeys{
	Home: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "Home"),
	),
	Sessions: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "Sessions"),
	),
	Subagents: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "Sub-Agents"),
	),
	Activity: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "Activity"),
	),
	Cron: key.NewBinding(
		key.WithKeys("5"),
		key.WithHelp("5", "Cron"),
	),
	Deliverables: key.NewBinding(
		key.WithKeys("6"),
		key.WithHelp("6", "Deliverables"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
	),
}

// OverlayKeys are active when an overlay is shown.
type OverlayKeys struct {
	Close key.Binding
}

var overlayKeys = OverlayKeys{
	Close: key.NewBinding(
		key.WithKeys("esc", "ctrl+h", "?", "q"),
		key.WithHelp("Esc", "close"),
	),
}
