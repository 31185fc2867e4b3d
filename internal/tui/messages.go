package tui

import (
	"github.com/clawd-ops/missioncontrol/internal/daemon/watcher"
	"github.com/clawd-ops/missioncontrol/internal/models"
)

// SnapshotLoadedMsg carries a fresh read of every dashboard view.
type SnapshotLoadedMsg struct {
	Snapshot *Snapshot
}

// HistoryLoadedMsg carries the message history of one session.
type HistoryLoadedMsg struct {
	Session  models.Session
	Messages []models.Message
}

// StateChangedMsg signals that the producer rewrote a state file.
type StateChangedMsg struct {
	Event watcher.Event
}

// ErrorMsg carries an error to display.
type ErrorMsg struct {
	Err error
}

// TickMsg is the periodic auto-refresh tick.
type TickMsg struct{}

// ClearErrorMsg clears the error display.
type ClearErrorMsg struct{}

// ClearNoticeMsg clears the "Refreshed" indicator.
type ClearNoticeMsg struct{}
