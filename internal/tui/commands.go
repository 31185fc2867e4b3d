package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clawd-ops/missioncontrol/internal/dashboard"
	"github.com/clawd-ops/missioncontrol/internal/models"
)

// Snapshot is one consistent read of every view the dashboard renders.
type Snapshot struct {
	Overview     dashboard.Overview
	Sessions     []models.Session
	Subagents    dashboard.TaskView
	Activity     []models.ActivityEvent
	CronJobs     []models.CronJob
	Deliverables []dashboard.DeliverableGroup
	TakenAt      time.Time
}

// takeSnapshot reads every view through the store's cache.
func takeSnapshot(store *dashboard.Store) *Snapshot {
	now := store.Now()
	return &Snapshot{
		Overview:     store.Overview(),
		Sessions:     store.Sessions(),
		Subagents:    store.Subagents(),
		Activity:     store.Activity(),
		CronJobs:     dashboard.SortCronJobs(dashboard.WithNextRuns(store.CronJobs(), now)),
		Deliverables: dashboard.GroupDeliverables(store.Deliverables()),
		TakenAt:      now,
	}
}

func loadSnapshotCmd(store *dashboard.Store) tea.Cmd {
	return func() tea.Msg {
		return SnapshotLoadedMsg{Snapshot: takeSnapshot(store)}
	}
}

// refreshCmd drops every cached read before loading, bypassing the TTL.
func refreshCmd(store *dashboard.Store) tea.Cmd {
	return func() tea.Msg {
		store.Refresh()
		return SnapshotLoadedMsg{Snapshot: takeSnapshot(store)}
	}
}

func loadHistoryCmd(store *dashboard.Store, session models.Session) tea.Cmd {
	return func() tea.Msg {
		return HistoryLoadedMsg{Session: session, Messages: store.History(session.Key)}
	}
}

func refreshTick(d time.Duration) tea.Cmd {
	if d <= 0 {
		return nil
	}
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

func clearErrorAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return ClearErrorMsg{}
	})
}

func clearNoticeAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return ClearNoticeMsg{}
	})
}
