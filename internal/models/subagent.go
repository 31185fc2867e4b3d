package models

// LifecycleEvent marks a sub-agent task's start or end.
type LifecycleEvent string

const (
	LifecycleSpawned   LifecycleEvent = "spawned"
	LifecycleCompleted LifecycleEvent = "completed"
)

// TaskOutcome is the result recorded on a completed event.
type TaskOutcome string

const (
	OutcomeSuccess TaskOutcome = "success"
	OutcomeFailure TaskOutcome = "failure"
)

// SubagentTaskEvent is one line of subagent-log.jsonl. SessionKey correlates
// the spawned and completed events of one delegated task.
type SubagentTaskEvent struct {
	Event      LifecycleEvent `json:"event"`
	SessionKey string         `json:"session_key"`
	Task       string         `json:"task"`
	Status     TaskOutcome    `json:"status,omitempty"`
	Summary    string         `json:"summary"`
	Timestamp  Timestamp      `json:"timestamp"`
}

// Succeeded reports whether a completed event recorded success.
func (e SubagentTaskEvent) Succeeded() bool {
	return e.Status == OutcomeSuccess
}
