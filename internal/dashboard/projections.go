package dashboard

import (
	"sort"

	"github.com/clawd-ops/missioncontrol/internal/models"
)

// Tail windows and display limits shared by every front end.
const (
	SubagentTailLimit = 50
	ActivityTailLimit = 100

	PreviewLimit = 80
	SummaryLimit = 100
	ContentLimit = 2000

	RecentActivityCount  = 10
	RecentCompletedCount = 10
)

// FilterAll selects everything in both session and activity filters.
const FilterAll = "All"

// SessionFilters lists the session filter names in display order.
var SessionFilters = []string{FilterAll, "Main", "Sub-Agent", "Cron"}

var sessionFilterKinds = map[string]models.SessionKind{
	"Main":      models.SessionKindMain,
	"Sub-Agent": models.SessionKindSubagent,
	"Cron":      models.SessionKindCron,
}

// ActivityFilters lists the activity filter names in display order.
var ActivityFilters = []string{FilterAll, "Sessions", "Tasks", "Deliverables", "Errors"}

// ActivityCategories maps a filter name to the event types it selects.
// task_failed deliberately sits in both Tasks and Errors.
var ActivityCategories = map[string][]models.EventType{
	"Sessions":     {models.EventSessionStarted, models.EventSessionEnded},
	"Tasks":        {models.EventTaskStarted, models.EventTaskCompleted, models.EventTaskFailed},
	"Deliverables": {models.EventDeliverableCreated},
	"Errors":       {models.EventErrorOccurred, models.EventTaskFailed},
}

// SessionKindForFilter returns the kind selected by a filter name. All and
// the empty name select every kind and report ok=false.
func SessionKindForFilter(name string) (models.SessionKind, bool) {
	kind, ok := sessionFilterKinds[name]
	return kind, ok
}

// FilterSessionsByKind returns the sessions of the given kind. An empty kind
// returns all sessions.
func FilterSessionsByKind(sessions []models.Session, kind models.SessionKind) []models.Session {
	out := make([]models.Session, 0, len(sessions))
	for _, s := range sessions {
		if kind == "" || s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// FilterSessions applies a named session filter.
func FilterSessions(sessions []models.Session, filter string) []models.Session {
	kind, _ := SessionKindForFilter(filter)
	if filter != "" && filter != FilterAll && kind == "" {
		return []models.Session{}
	}
	return FilterSessionsByKind(sessions, kind)
}

// FilterActivity returns the events in the named category. All or an empty
// name returns every event; an unrecognized name returns none.
func FilterActivity(events []models.ActivityEvent, category string) []models.ActivityEvent {
	out := make([]models.ActivityEvent, 0, len(events))
	if category == "" || category == FilterAll {
		return append(out, events...)
	}
	types, ok := ActivityCategories[category]
	if !ok {
		return out
	}
	for _, ev := range events {
		for _, t := range types {
			if ev.Type == t {
				out = append(out, ev)
				break
			}
		}
	}
	return out
}

// CountActive returns the number of sessions whose status is active.
func CountActive(sessions []models.Session) int {
	n := 0
	for _, s := range sessions {
		if s.Status == models.SessionStatusActive {
			n++
		}
	}
	return n
}

// Recent returns the last k items newest first. A non-positive k reverses
// the whole slice.
func Recent[T any](items []T, k int) []T {
	start := 0
	if k > 0 && len(items) > k {
		start = len(items) - k
	}
	out := make([]T, 0, len(items)-start)
	for i := len(items) - 1; i >= start; i-- {
		out = append(out, items[i])
	}
	return out
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// DeliverableGroup is one category of deliverables.
type DeliverableGroup struct {
	Category string               `json:"category"`
	Items    []models.Deliverable `json:"items"`
}

// UncategorizedLabel names the group for deliverables without a category.
const UncategorizedLabel = "Uncategorized"

// GroupDeliverables groups items by category in order of first appearance.
func GroupDeliverables(items []models.Deliverable) []DeliverableGroup {
	var groups []DeliverableGroup
	index := make(map[string]int)
	for _, d := range items {
		cat := d.Category
		if cat == "" {
			cat = UncategorizedLabel
		}
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, DeliverableGroup{Category: cat})
		}
		groups[i].Items = append(groups[i].Items, d)
	}
	return groups
}

// SortCronJobs returns jobs ordered by next run, soonest first. Jobs with no
// known next run go last in their original order.
func SortCronJobs(jobs []models.CronJob) []models.CronJob {
	out := make([]models.CronJob, len(jobs))
	copy(out, jobs)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].NextRun, out[j].NextRun
		aok := a != nil && a.Valid()
		bok := b != nil && b.Valid()
		switch {
		case aok && bok:
			return a.Time.Before(b.Time)
		default:
			return aok && !bok
		}
	})
	return out
}
