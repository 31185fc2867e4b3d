package models

// SessionKind identifies what started a session.
type SessionKind string

const (
	SessionKindMain     SessionKind = "main"
	SessionKindSubagent SessionKind = "subagent"
	SessionKindCron     SessionKind = "cron"
)

// SessionStatus is the producer's liveness label for a session.
type SessionStatus string

const (
	SessionStatusActive SessionStatus = "active"
	SessionStatusIdle   SessionStatus = "idle"
	SessionStatusClosed SessionStatus = "closed"
)

// Session is one entry of sessions.json.
type Session struct {
	Key                string        `json:"key"`
	Kind               SessionKind   `json:"kind"`
	Status             SessionStatus `json:"status"`
	LastActivity       Timestamp     `json:"last_activity"`
	LastMessagePreview string        `json:"last_message_preview"`
	// Metadata is opaque and passed through untouched, whatever its shape.
	Metadata any `json:"metadata,omitempty"`
}

// SessionsFile is the document stored in sessions.json.
type SessionsFile struct {
	Sessions []Session `json:"sessions"`
}

// MessageRole is the author of a history message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleOther     MessageRole = "other"
)

// Message is one turn in a session's history.
type Message struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp Timestamp   `json:"timestamp"`
}

// HistoryFile is the document stored in history_<key>.json.
type HistoryFile struct {
	Messages []Message `json:"messages"`
}
