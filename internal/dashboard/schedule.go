package dashboard

import (
	"time"

	cronlib "github.com/robfig/cron/v3"

	"github.com/clawd-ops/missioncontrol/internal/models"
)

var cronParser = cronlib.NewParser(
	cronlib.Minute | cronlib.Hour | cronlib.Dom | cronlib.Month | cronlib.Dow | cronlib.Descriptor,
)

// NextRun returns when job runs next as of now. A recorded next_run that is
// still ahead wins; otherwise the schedule expression is evaluated. A stale
// recorded value is returned only when the schedule does not parse.
func NextRun(job models.CronJob, now time.Time) (time.Time, bool) {
	recorded := job.NextRun != nil && job.NextRun.Valid()
	if recorded && !job.NextRun.Time.Before(now) {
		return job.NextRun.Time, true
	}
	if sched, err := cronParser.Parse(job.Schedule); err == nil {
		if next := sched.Next(now); !next.IsZero() {
			return next, true
		}
	}
	if recorded {
		return job.NextRun.Time, true
	}
	return time.Time{}, false
}

// WithNextRuns fills in NextRun for jobs whose file entry omits it.
func WithNextRuns(jobs []models.CronJob, now time.Time) []models.CronJob {
	out := make([]models.CronJob, len(jobs))
	for i, job := range jobs {
		if job.NextRun == nil || !job.NextRun.Valid() {
			if next, ok := NextRun(job, now); ok {
				ts := models.NewTimestamp(next)
				job.NextRun = &ts
			}
		}
		out[i] = job
	}
	return out
}

// NextScheduled returns the enabled job due soonest, or nil.
func NextScheduled(jobs []models.CronJob, now time.Time) *models.ScheduledTask {
	var (
		best     *models.ScheduledTask
		bestTime time.Time
	)
	for _, job := range jobs {
		if !job.Enabled {
			continue
		}
		next, ok := NextRun(job, now)
		if !ok {
			continue
		}
		if best == nil || next.Before(bestTime) {
			name := job.Text
			if name == "" {
				name = job.ID
			}
			best = &models.ScheduledTask{Name: name, Time: models.NewTimestamp(next)}
			bestTime = next
		}
	}
	return best
}
