// Package dashboard turns the agent's state files into the views every front
// end renders: current status, sessions, reconciled sub-agent tasks, the
// activity feed, cron jobs and deliverables.
//
// Store accessors never return errors. Missing, torn and unreadable files all
// degrade to defaults or empty lists; unreadable ones are logged.
package dashboard

import (
	"errors"
	"strings"
	"time"

	"github.com/clawd-ops/missioncontrol/internal/cache"
	"github.com/clawd-ops/missioncontrol/internal/clock"
	"github.com/clawd-ops/missioncontrol/internal/log"
	"github.com/clawd-ops/missioncontrol/internal/models"
	"github.com/clawd-ops/missioncontrol/internal/statefile"
)

// State file names, relative to each resolver root.
const (
	StatusFile       = "status.json"
	SessionsFile     = "sessions.json"
	SubagentLogFile  = "subagent-log.jsonl"
	ActivityFeedFile = "activity-feed.jsonl"
	CronJobsFile     = "cron-jobs.json"
	DeliverablesFile = "deliverables.json"

	historyPrefix = "history_"
	historySuffix = ".json"
)

// HistoryFileName returns the history file for a session key. Keys that
// could address a file outside the state root are rejected.
func HistoryFileName(key string) (string, bool) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) || strings.ContainsRune(key, 0) {
		return "", false
	}
	return historyPrefix + key + historySuffix, true
}

// Options configures a Store.
type Options struct {
	// Roots are the candidate directories holding state files, highest
	// priority first.
	Roots []string
	TTL   time.Duration
	Clock clock.Clock
}

// Store is the read-only accessor facade over the agent's state files. It is
// safe for concurrent use. Returned slices are shared with the cache and must
// not be modified.
type Store struct {
	reader *statefile.Reader
	cache  *cache.Cache
	clock  clock.Clock
}

// NewStore creates a Store from opts.
func NewStore(opts Options) *Store {
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}
	return &Store{
		reader: statefile.NewReader(statefile.NewResolver(opts.Roots...)),
		cache:  cache.New(opts.TTL, clk),
		clock:  clk,
	}
}

// Roots returns the candidate state directories in priority order.
func (s *Store) Roots() []string {
	return s.reader.Resolver().Roots()
}

// Now returns the store clock's current time.
func (s *Store) Now() time.Time {
	return s.clock.Now()
}

// CacheStats exposes cache counters for diagnostics.
func (s *Store) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// Refresh drops all cached reads so the next accessor call hits disk.
func (s *Store) Refresh() {
	s.cache.Invalidate()
	log.Debug().Msg("state cache invalidated")
}

// Status returns the agent status, or a synthesized online default when
// status.json is absent or unreadable.
func (s *Store) Status() models.AgentStatus {
	return cache.Fetch(s.cache, cache.Key(StatusFile), func() models.AgentStatus {
		doc, err := statefile.LoadAs[models.AgentStatus](s.reader, StatusFile)
		if err != nil {
			logLoadError(StatusFile, err)
			return *models.NewAgentStatus(s.clock.Now())
		}
		if !doc.LastActivity.Valid() && doc.LastActivity.Raw == "" {
			doc.LastActivity = models.NewTimestamp(s.clock.Now().UTC())
		}
		return *doc
	})
}

// Sessions returns the current session list.
func (s *Store) Sessions() []models.Session {
	return cache.Fetch(s.cache, cache.Key(SessionsFile), func() []models.Session {
		doc, err := statefile.LoadAs[models.SessionsFile](s.reader, SessionsFile)
		if err != nil {
			logLoadError(SessionsFile, err)
			return []models.Session{}
		}
		if doc.Sessions == nil {
			return []models.Session{}
		}
		return doc.Sessions
	})
}

// History returns the messages recorded for a session key.
func (s *Store) History(key string) []models.Message {
	name, ok := HistoryFileName(key)
	if !ok {
		log.Debug().Str("key", key).Msg("rejecting session key for history lookup")
		return []models.Message{}
	}
	return cache.Fetch(s.cache, cache.Key(name), func() []models.Message {
		doc, err := statefile.LoadAs[models.HistoryFile](s.reader, name)
		if err != nil {
			logLoadError(name, err)
			return []models.Message{}
		}
		if doc.Messages == nil {
			return []models.Message{}
		}
		return doc.Messages
	})
}

// SubagentEvents returns the last SubagentTailLimit lifecycle events in log
// order.
func (s *Store) SubagentEvents() []models.SubagentTaskEvent {
	return cache.Fetch(s.cache, cache.Key(SubagentLogFile, SubagentTailLimit), func() []models.SubagentTaskEvent {
		events, err := statefile.Tail[models.SubagentTaskEvent](s.reader, SubagentLogFile, SubagentTailLimit)
		if err != nil {
			logLoadError(SubagentLogFile, err)
		}
		if events == nil {
			return []models.SubagentTaskEvent{}
		}
		return events
	})
}

// Subagents returns the reconciled running and completed task views.
func (s *Store) Subagents() TaskView {
	return Reconcile(s.SubagentEvents())
}

// Activity returns the last ActivityTailLimit feed events in log order.
func (s *Store) Activity() []models.ActivityEvent {
	return cache.Fetch(s.cache, cache.Key(ActivityFeedFile, ActivityTailLimit), func() []models.ActivityEvent {
		events, err := statefile.Tail[models.ActivityEvent](s.reader, ActivityFeedFile, ActivityTailLimit)
		if err != nil {
			logLoadError(ActivityFeedFile, err)
		}
		if events == nil {
			return []models.ActivityEvent{}
		}
		return events
	})
}

// CronJobs returns the scheduled jobs.
func (s *Store) CronJobs() []models.CronJob {
	return cache.Fetch(s.cache, cache.Key(CronJobsFile), func() []models.CronJob {
		doc, err := statefile.LoadAs[models.CronJobsFile](s.reader, CronJobsFile)
		if err != nil {
			logLoadError(CronJobsFile, err)
			return []models.CronJob{}
		}
		if doc.Jobs == nil {
			return []models.CronJob{}
		}
		return doc.Jobs
	})
}

// Deliverables returns the produced artifacts.
func (s *Store) Deliverables() []models.Deliverable {
	return cache.Fetch(s.cache, cache.Key(DeliverablesFile), func() []models.Deliverable {
		doc, err := statefile.LoadAs[models.DeliverablesFile](s.reader, DeliverablesFile)
		if err != nil {
			logLoadError(DeliverablesFile, err)
			return []models.Deliverable{}
		}
		if doc.Items == nil {
			return []models.Deliverable{}
		}
		return doc.Items
	})
}

// Overview is the home view.
type Overview struct {
	Status models.AgentStatus `json:"status"`
	// ActiveSessions counts sessions.json entries with status active.
	ActiveSessions int `json:"active_sessions"`
	// RunningSubagents comes from reconciling the sub-agent log rather than
	// trusting the count in status.json.
	RunningSubagents  int                    `json:"running_subagents"`
	NextScheduledTask *models.ScheduledTask  `json:"next_scheduled_task,omitempty"`
	RecentActivity    []models.ActivityEvent `json:"recent_activity"`
	GeneratedAt       time.Time              `json:"generated_at"`
}

// Overview assembles the home view from the cached accessors.
func (s *Store) Overview() Overview {
	now := s.clock.Now()
	status := s.Status()
	next := status.NextScheduledTask
	if next == nil {
		next = NextScheduled(s.CronJobs(), now)
	}
	return Overview{
		Status:            status,
		ActiveSessions:    CountActive(s.Sessions()),
		RunningSubagents:  s.Subagents().RunningCount(),
		NextScheduledTask: next,
		RecentActivity:    Recent(s.Activity(), RecentActivityCount),
		GeneratedAt:       now,
	}
}

// logLoadError records a failed read. Absent or half-written files are
// routine and stay at debug level.
func logLoadError(name string, err error) {
	if errors.Is(err, statefile.ErrNotFound) {
		log.Debug().Str("file", name).Err(err).Msg("state file not available")
		return
	}
	log.Warn().Str("file", name).Err(err).Msg("failed to read state file")
}
