package dashboard

import (
	"testing"
	"time"

	"github.com/clawd-ops/missioncontrol/internal/models"
)

func TestNextRun(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC)
	future := models.NewTimestamp(now.Add(2 * time.Hour))
	past := models.NewTimestamp(now.Add(-2 * time.Hour))

	tests := []struct {
		name   string
		job    models.CronJob
		want   time.Time
		wantOK bool
	}{
		{"recorded future wins", models.CronJob{Schedule: "0 * * * *", NextRun: &future}, future.Time, true},
		{"schedule when missing", models.CronJob{Schedule: "0 * * * *"}, time.Date(2025, 3, 10, 13, 0, 0, 0, time.UTC), true},
		{"schedule when recorded is stale", models.CronJob{Schedule: "0 9 * * *", NextRun: &past}, time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC), true},
		{"descriptor", models.CronJob{Schedule: "@daily"}, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), true},
		{"stale and unparseable", models.CronJob{Schedule: "whenever", NextRun: &past}, past.Time, true},
		{"nothing known", models.CronJob{Schedule: "whenever"}, time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextRun(tt.job, now)
			if ok != tt.wantOK || !got.Equal(tt.want) {
				t.Errorf("NextRun() = %v, %v, want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNextScheduled(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC)
	jobs := []models.CronJob{
		{ID: "disabled", Schedule: "* * * * *", Enabled: false, Text: "every minute"},
		{ID: "hourly", Schedule: "0 * * * *", Enabled: true, Text: "Check inbox"},
		{ID: "nightly", Schedule: "0 2 * * *", Enabled: true},
	}
	got := NextScheduled(jobs, now)
	if got == nil {
		t.Fatal("NextScheduled() = nil, want hourly job")
	}
	if got.Name != "Check inbox" {
		t.Errorf("NextScheduled().Name = %q, want %q", got.Name, "Check inbox")
	}
	if want := time.Date(2025, 3, 10, 13, 0, 0, 0, time.UTC); !got.Time.Time.Equal(want) {
		t.Errorf("NextScheduled().Time = %v, want %v", got.Time.Time, want)
	}

	if got := NextScheduled(jobs[:1], now); got != nil {
		t.Errorf("NextScheduled(disabled only) = %+v, want nil", got)
	}
}

func TestWithNextRuns(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC)
	jobs := []models.CronJob{{ID: "a", Schedule: "0 * * * *"}, {ID: "b", Schedule: "bogus"}}
	got := WithNextRuns(jobs, now)
	if got[0].NextRun == nil || got[0].NextRun.Time.Hour() != 13 {
		t.Errorf("WithNextRuns()[0].NextRun = %v, want 13:00", got[0].NextRun)
	}
	if got[1].NextRun != nil {
		t.Errorf("WithNextRuns()[1].NextRun = %v, want nil", got[1].NextRun)
	}
	if jobs[0].NextRun != nil {
		t.Error("WithNextRuns() modified its input")
	}
}
