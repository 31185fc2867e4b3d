// Package models contains the read-only entities parsed from the agent's
// state files, plus the dashboard's own settings and daemon records.
package models

import "time"

// ScheduledTask names the next cron job due to run.
type ScheduledTask struct {
	Name string    `json:"name"`
	Time Timestamp `json:"time"`
}

// AgentStatus is the singleton snapshot in status.json.
type AgentStatus struct {
	Online            bool           `json:"online"`
	LastActivity      Timestamp      `json:"last_activity"`
	ActiveSessions    int            `json:"active_sessions"`
	RunningSubagents  int            `json:"running_subagents"`
	NextScheduledTask *ScheduledTask `json:"next_scheduled_task,omitempty"`
}

// NewAgentStatus returns the status synthesized when status.json is absent:
// online, no sessions, no sub-agents, last active now.
func NewAgentStatus(now time.Time) *AgentStatus {
	return &AgentStatus{
		Online:       true,
		LastActivity: NewTimestamp(now.UTC()),
	}
}
