package models

// EventType classifies an activity feed entry.
type EventType string

const (
	EventSessionStarted     EventType = "session_started"
	EventSessionEnded       EventType = "session_ended"
	EventTaskStarted        EventType = "task_started"
	EventTaskCompleted      EventType = "task_completed"
	EventTaskFailed         EventType = "task_failed"
	EventDeliverableCreated EventType = "deliverable_created"
	EventCronExecuted       EventType = "cron_executed"
	EventErrorOccurred      EventType = "error_occurred"
	EventUnknown            EventType = "unknown"
)

var knownEventTypes = map[EventType]bool{
	EventSessionStarted:     true,
	EventSessionEnded:       true,
	EventTaskStarted:        true,
	EventTaskCompleted:      true,
	EventTaskFailed:         true,
	EventDeliverableCreated: true,
	EventCronExecuted:       true,
	EventErrorOccurred:      true,
}

// Known reports whether t is one of the documented event types.
func (t EventType) Known() bool {
	return knownEventTypes[t]
}

// Normalize maps unrecognized or missing types to EventUnknown.
func (t EventType) Normalize() EventType {
	if t.Known() {
		return t
	}
	return EventUnknown
}

// ActivityEvent is one line of activity-feed.jsonl.
type ActivityEvent struct {
	Type      EventType `json:"type"`
	Summary   string    `json:"summary"`
	Timestamp Timestamp `json:"timestamp"`
}
