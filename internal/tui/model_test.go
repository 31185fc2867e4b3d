package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clawd-ops/missioncontrol/internal/clock"
	"github.com/clawd-ops/missioncontrol/internal/daemon/watcher"
	"github.com/clawd-ops/missioncontrol/internal/dashboard"
)

const testSessions = `{"sessions": [
	{"key": "main-1", "kind": "main", "status": "active", "last_activity": "2025-03-10T12:25:00Z", "last_message_preview": "hello"},
	{"key": "sub-1", "kind": "subagent", "status": "idle", "last_activity": "2025-03-10T11:00:00Z"},
	{"key": "cron-1", "kind": "cron", "status": "closed", "last_activity": "2025-03-09T08:00:00Z"}
]}`

const testHistory = `{"messages": [
	{"role": "user", "content": "status?", "timestamp": "2025-03-10T12:20:00Z"},
	{"role": "assistant", "content": "all green", "timestamp": "2025-03-10T12:21:00Z"}
]}`

const testActivity = `{"type": "session_started", "summary": "main-1 started", "timestamp": "2025-03-10T12:00:00Z"}
{"type": "task_failed", "summary": "scrape failed", "timestamp": "2025-03-10T12:10:00Z"}
{"type": "deliverable_created", "summary": "report.md", "timestamp": "2025-03-10T12:20:00Z"}
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newTestModel(t *testing.T) (Model, *dashboard.Store, string) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, dashboard.SessionsFile, testSessions)
	writeFile(t, dir, "history_main-1.json", testHistory)
	writeFile(t, dir, dashboard.ActivityFeedFile, testActivity)

	store := dashboard.NewStore(dashboard.Options{
		Roots: []string{dir},
		TTL:   5 * time.Second,
		Clock: clock.Fake(time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC)),
	})
	m := NewModel(store, 0)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = update(t, m, loadSnapshotCmd(store)())
	return m, store, dir
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(t *testing.T, m Model, k string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestTabSwitching(t *testing.T) {
	m, _, _ := newTestModel(t)

	tests := []struct {
		key  string
		want int
	}{
		{"2", tabSessions},
		{"4", tabActivity},
		{"6", tabDeliverables},
		{"l", tabHome},
		{"h", tabDeliverables},
		{"1", tabHome},
	}
	for _, tt := range tests {
		m, _ = press(t, m, tt.key)
		if m.activeTab != tt.want {
			t.Errorf("after %q activeTab = %d, want %d", tt.key, m.activeTab, tt.want)
		}
	}
}

func TestSessionFilterCycles(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = press(t, m, "2")

	want := []int{1, 1, 1, 3}
	for i, n := range want {
		m, _ = press(t, m, "f")
		if got := m.sessionList.Len(); got != n {
			t.Errorf("filter %q: %d rows, want %d", dashboard.SessionFilters[m.sessionFilter], got, n)
		}
		if m.sessionFilter != (i+1)%len(dashboard.SessionFilters) {
			t.Errorf("sessionFilter = %d, want %d", m.sessionFilter, (i+1)%len(dashboard.SessionFilters))
		}
	}
}

func TestActivityFilterCycles(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = press(t, m, "4")

	if got := m.activityList.Len(); got != 3 {
		t.Fatalf("All: %d rows, want 3", got)
	}
	// All -> Sessions -> Tasks -> Deliverables -> Errors
	want := []int{1, 1, 1, 1}
	for _, n := range want {
		m, _ = press(t, m, "f")
		if got := m.activityList.Len(); got != n {
			t.Errorf("filter %q: %d rows, want %d", dashboard.ActivityFilters[m.activityFilter], got, n)
		}
	}
}

func TestOpenSessionHistory(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = press(t, m, "2")

	m, cmd := press(t, m, "enter")
	if cmd == nil {
		t.Fatal("Enter on a session returned no command")
	}
	m = update(t, m, cmd())
	if got := m.history.SessionKey(); got != "main-1" {
		t.Fatalf("history session = %q, want %q", got, "main-1")
	}
	if m.focusedPanel != 1 {
		t.Errorf("focusedPanel = %d, want history", m.focusedPanel)
	}

	view := m.View()
	for _, want := range []string{"main-1", "status?", "all green", "Agent"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	m, _ = press(t, m, "esc")
	if m.history.SessionKey() != "" || m.focusedPanel != 0 {
		t.Errorf("Esc left history open: key=%q focus=%d", m.history.SessionKey(), m.focusedPanel)
	}
}

func TestStateChangeReloadsFromDisk(t *testing.T) {
	m, store, dir := newTestModel(t)

	writeFile(t, dir, dashboard.SessionsFile, `{"sessions": []}`)
	// Within the TTL a plain reload is served from cache.
	m = update(t, m, loadSnapshotCmd(store)())
	if got := len(m.snap.Sessions); got != 3 {
		t.Fatalf("cached reload: %d sessions, want 3", got)
	}

	next, cmd := m.Update(StateChangedMsg{Event: watcher.Event{Type: watcher.EventSessionsChanged}})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("StateChangedMsg returned no command")
	}
	m = update(t, m, loadSnapshotCmd(store)())
	if got := len(m.snap.Sessions); got != 0 {
		t.Errorf("after change: %d sessions, want 0", got)
	}
}

func TestRefreshKey(t *testing.T) {
	m, _, dir := newTestModel(t)
	writeFile(t, dir, dashboard.SessionsFile, `{"sessions": []}`)

	m, cmd := press(t, m, "r")
	if cmd == nil {
		t.Fatal("r returned no command")
	}
	if m.notice == "" {
		t.Error("r did not set a notice")
	}
	m = update(t, m, refreshCmd(m.store)())
	if got := len(m.snap.Sessions); got != 0 {
		t.Errorf("after refresh: %d sessions, want 0", got)
	}
}

func TestViewTooSmall(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
	if !strings.Contains(m.View(), "Terminal too small") {
		t.Error("View() at 60x20 did not report terminal too small")
	}
}

func TestHelpOverlay(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = press(t, m, "?")
	if m.activeOverlay != overlayHelp {
		t.Fatal("? did not open help")
	}
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help overlay not rendered")
	}
	// q closes the overlay instead of quitting.
	m, cmd := press(t, m, "q")
	if m.activeOverlay != overlayNone || cmd != nil {
		t.Errorf("q in help: overlay=%d cmd=%v", m.activeOverlay, cmd)
	}
}

func TestDetailOverlay(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = press(t, m, "4")

	m, _ = press(t, m, "enter")
	if m.activeOverlay != overlayDetail || m.detail == nil {
		t.Fatal("Enter on an activity row did not open details")
	}
	view := m.View()
	for _, want := range []string{"Activity event", "deliverable_created", "report.md"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail overlay missing %q", want)
		}
	}

	m, _ = press(t, m, "esc")
	if m.activeOverlay != overlayNone || m.detail != nil {
		t.Errorf("Esc left details open: overlay=%d", m.activeOverlay)
	}
}
