package models

// Deliverable is an artifact the agent reports having produced.
type Deliverable struct {
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Type        string     `json:"type"`
	Path        string     `json:"path"`
	Description string     `json:"description"`
	Created     *Timestamp `json:"created,omitempty"`
}

// DeliverablesFile is the document stored in deliverables.json.
type DeliverablesFile struct {
	Items []Deliverable `json:"items"`
}
