package dashboard

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/clawd-ops/missioncontrol/internal/clock"
	"github.com/clawd-ops/missioncontrol/internal/models"
)

func writeState(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newTestStore(t *testing.T) (*Store, string, *clock.FakeClock) {
	t.Helper()
	dir := t.TempDir()
	clk := clock.Fake(time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC))
	s := NewStore(Options{Roots: []string{dir}, TTL: 5 * time.Second, Clock: clk})
	return s, dir, clk
}

func TestStatusDefaultWhenMissing(t *testing.T) {
	s, _, clk := newTestStore(t)

	got := s.Status()
	if !got.Online || got.ActiveSessions != 0 || got.RunningSubagents != 0 {
		t.Errorf("Status() = %+v, want online default with zero counts", got)
	}
	if !got.LastActivity.Time.Equal(clk.Now()) {
		t.Errorf("Status().LastActivity = %v, want %v", got.LastActivity.Time, clk.Now())
	}
}

func TestStatusTornWriteFallsBackThenRecovers(t *testing.T) {
	s, dir, clk := newTestStore(t)

	writeState(t, dir, StatusFile, `{"online": false, "active_sess`)
	if got := s.Status(); !got.Online {
		t.Errorf("Status() on torn file = %+v, want default", got)
	}

	writeState(t, dir, StatusFile, `{"online": false, "last_activity": "2025-03-10T12:00:00Z", "active_sessions": 2, "running_subagents": 1}`)
	if got := s.Status(); !got.Online {
		t.Error("Status() within TTL re-read the file")
	}

	clk.Advance(5 * time.Second)
	got := s.Status()
	if got.Online || got.ActiveSessions != 2 || got.RunningSubagents != 1 {
		t.Errorf("Status() after TTL = %+v, want file contents", got)
	}
}

func TestStatusNullDocumentIsDefault(t *testing.T) {
	s, dir, _ := newTestStore(t)
	writeState(t, dir, StatusFile, "null\n")

	if got := s.Status(); !got.Online {
		t.Errorf("Status() for a null document = %+v, want online default", got)
	}
}

func TestSessionsKeepOpaqueMetadata(t *testing.T) {
	tests := []struct {
		name     string
		metadata string
	}{
		{"object", `{"channel": "slack"}`},
		{"array", `[1]`},
		{"string", `"note"`},
		{"number", `7`},
		{"null", `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, dir, _ := newTestStore(t)
			writeState(t, dir, SessionsFile, `{"sessions": [
				{"key": "main", "kind": "main", "status": "active", "metadata": `+tt.metadata+`},
				{"key": "helper", "kind": "subagent", "status": "idle"}
			]}`)

			got := s.Sessions()
			if len(got) != 2 || got[0].Key != "main" || got[1].Key != "helper" {
				t.Errorf("Sessions() = %+v, want main and helper", got)
			}
		})
	}
}

func TestRefreshBypassesTTL(t *testing.T) {
	s, dir, _ := newTestStore(t)

	if got := s.Sessions(); len(got) != 0 {
		t.Fatalf("Sessions() = %v, want empty", got)
	}
	writeState(t, dir, SessionsFile, `{"sessions": [{"key": "main", "kind": "main", "status": "active"}]}`)
	if got := s.Sessions(); len(got) != 0 {
		t.Fatalf("Sessions() within TTL = %v, want cached empty", got)
	}

	s.Refresh()
	got := s.Sessions()
	if len(got) != 1 || got[0].Key != "main" {
		t.Errorf("Sessions() after Refresh() = %+v, want one main session", got)
	}
}

func TestHistory(t *testing.T) {
	s, dir, _ := newTestStore(t)
	writeState(t, dir, "history_abc.json", `{"messages": [
		{"role": "user", "content": "hi", "timestamp": "2025-03-10T12:00:00Z"},
		{"role": "assistant", "content": "hello", "timestamp": "2025-03-10T12:00:05Z"}
	]}`)

	got := s.History("abc")
	if len(got) != 2 || got[0].Role != models.RoleUser || got[1].Content != "hello" {
		t.Errorf("History(abc) = %+v, want two messages", got)
	}
	if got := s.History("missing"); got == nil || len(got) != 0 {
		t.Errorf("History(missing) = %v, want empty non-nil", got)
	}
	for _, key := range []string{"", "../abc", `a\b`, ".."} {
		if got := s.History(key); len(got) != 0 {
			t.Errorf("History(%q) = %v, want empty", key, got)
		}
	}
}

func TestSubagentsReconciledFromLog(t *testing.T) {
	s, dir, _ := newTestStore(t)
	writeState(t, dir, SubagentLogFile, `{"event": "spawned", "session_key": "A", "task": "research"}
{"event": "spawned", "session_key": "B", "task": "write"}
not json at all
{"event": "completed", "session_key": "A", "status": "success", "summary": "done"}
`)
	v := s.Subagents()
	if !equalStrings(v.RunningKeys, []string{"B"}) {
		t.Errorf("RunningKeys = %v, want [B]", v.RunningKeys)
	}
	if len(v.Completed) != 1 || !v.Completed[0].Succeeded() {
		t.Errorf("Completed = %+v, want one successful event", v.Completed)
	}
}

func TestActivityWindow(t *testing.T) {
	s, dir, _ := newTestStore(t)

	f, err := os.Create(filepath.Join(dir, ActivityFeedFile))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < ActivityTailLimit+20; i++ {
		if _, err := f.WriteString(`{"type": "task_started", "summary": "s"}` + "\n"); err != nil {
			t.Fatal(err)
		}
	}
	f.Close()

	if got := len(s.Activity()); got != ActivityTailLimit {
		t.Errorf("len(Activity()) = %d, want %d", got, ActivityTailLimit)
	}
}

func TestOverview(t *testing.T) {
	s, dir, _ := newTestStore(t)
	writeState(t, dir, SessionsFile, `{"sessions": [
		{"key": "a", "kind": "main", "status": "active"},
		{"key": "b", "kind": "subagent", "status": "idle"},
		{"key": "c", "kind": "cron", "status": "active"}
	]}`)
	writeState(t, dir, SubagentLogFile, `{"event": "spawned", "session_key": "x"}
{"event": "spawned", "session_key": "y"}
`)
	writeState(t, dir, CronJobsFile, `{"jobs": [{"id": "j1", "schedule": "0 * * * *", "enabled": true, "text": "Hourly sweep"}]}`)
	var feed string
	for i := 0; i < 15; i++ {
		feed += `{"type": "session_started", "summary": "s` + string(rune('a'+i)) + `"}` + "\n"
	}
	writeState(t, dir, ActivityFeedFile, feed)

	o := s.Overview()
	if o.ActiveSessions != 2 {
		t.Errorf("ActiveSessions = %d, want 2", o.ActiveSessions)
	}
	if o.RunningSubagents != 2 {
		t.Errorf("RunningSubagents = %d, want 2", o.RunningSubagents)
	}
	if o.NextScheduledTask == nil || o.NextScheduledTask.Name != "Hourly sweep" {
		t.Errorf("NextScheduledTask = %+v, want Hourly sweep", o.NextScheduledTask)
	}
	if len(o.RecentActivity) != RecentActivityCount || o.RecentActivity[0].Summary != "so" {
		t.Errorf("RecentActivity = %d items starting %q, want %d newest first", len(o.RecentActivity), o.RecentActivity[0].Summary, RecentActivityCount)
	}
}

func TestCronJobsAndDeliverables(t *testing.T) {
	s, dir, _ := newTestStore(t)
	writeState(t, dir, CronJobsFile, `{"jobs": [{"id": "j1", "schedule": "*/5 * * * *", "enabled": true, "text": "poll", "last_run": "2025-03-10T12:25:00Z"}]}`)
	writeState(t, dir, DeliverablesFile, `{"items": [{"name": "report.md", "category": "docs", "type": "markdown", "path": "out/report.md"}]}`)

	jobs := s.CronJobs()
	if len(jobs) != 1 || jobs[0].LastRun == nil || !jobs[0].LastRun.Valid() {
		t.Errorf("CronJobs() = %+v, want one job with last run", jobs)
	}
	items := s.Deliverables()
	if len(items) != 1 || items[0].Category != "docs" {
		t.Errorf("Deliverables() = %+v, want one docs item", items)
	}
}

func TestFallbackRoot(t *testing.T) {
	primary := t.TempDir()
	fallback := t.TempDir()
	writeState(t, fallback, StatusFile, `{"online": true, "active_sessions": 7}`)

	s := NewStore(Options{Roots: []string{filepath.Join(primary, "missing"), fallback}, TTL: time.Second})
	if got := s.Status().ActiveSessions; got != 7 {
		t.Errorf("Status().ActiveSessions = %d, want 7 from fallback root", got)
	}
}

func TestHistoryFileName(t *testing.T) {
	tests := []struct {
		key  string
		want string
		ok   bool
	}{
		{"agent:main:abc", "history_agent:main:abc.json", true},
		{"", "", false},
		{"a/b", "", false},
		{"..", "", false},
	}
	for _, tt := range tests {
		got, ok := HistoryFileName(tt.key)
		if got != tt.want || ok != tt.ok {
			t.Errorf("HistoryFileName(%q) = %q, %v, want %q, %v", tt.key, got, ok, tt.want, tt.ok)
		}
	}
}
