package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
		want  time.Time
	}{
		{"2025-03-01T10:15:00Z", true, time.Date(2025, 3, 1, 10, 15, 0, 0, time.UTC)},
		{"2025-03-01T10:15:00.123456+00:00", true, time.Date(2025, 3, 1, 10, 15, 0, 123456000, time.UTC)},
		{"2025-03-01T10:15:00", true, time.Date(2025, 3, 1, 10, 15, 0, 0, time.UTC)},
		{"2025-03-01 10:15:00", true, time.Date(2025, 3, 1, 10, 15, 0, 0, time.UTC)},
		{"yesterday", false, time.Time{}},
		{"", false, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseTimestamp(tt.in)
			if got.Valid() != tt.valid {
				t.Fatalf("ParseTimestamp(%q).Valid() = %v, want %v", tt.in, got.Valid(), tt.valid)
			}
			if tt.valid && !got.Time.Equal(tt.want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got.Time, tt.want)
			}
			if !tt.valid && got.String() != tt.in {
				t.Errorf("ParseTimestamp(%q).String() = %q, want raw text", tt.in, got.String())
			}
		})
	}
}

func TestTimestampDecodeNeverFails(t *testing.T) {
	inputs := []string{
		`{"type":"task_started","summary":"x","timestamp":"2025-01-01T00:00:00Z"}`,
		`{"type":"task_started","summary":"x","timestamp":"not a time"}`,
		`{"type":"task_started","summary":"x","timestamp":1735689600}`,
		`{"type":"task_started","summary":"x","timestamp":null}`,
		`{"type":"task_started","summary":"x","timestamp":{"nested":true}}`,
		`{"type":"task_started","summary":"x"}`,
	}
	for _, in := range inputs {
		var ev ActivityEvent
		if err := json.Unmarshal([]byte(in), &ev); err != nil {
			t.Errorf("Unmarshal(%s) error = %v, want nil", in, err)
		}
		if ev.Summary != "x" {
			t.Errorf("Unmarshal(%s) summary = %q, want %q", in, ev.Summary, "x")
		}
	}
}

func TestTimestampUnixSeconds(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte("1735689600"), &ts); err != nil {
		t.Fatal(err)
	}
	want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if !ts.Time.Equal(want) {
		t.Errorf("unix timestamp = %v, want %v", ts.Time, want)
	}
}

func TestNewAgentStatusDefaults(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewAgentStatus(now)
	if !s.Online || s.ActiveSessions != 0 || s.RunningSubagents != 0 {
		t.Errorf("NewAgentStatus() = %+v, want online with zero counts", s)
	}
	if !s.LastActivity.Time.Equal(now) {
		t.Errorf("NewAgentStatus().LastActivity = %v, want %v", s.LastActivity.Time, now)
	}
	if s.NextScheduledTask != nil {
		t.Errorf("NewAgentStatus().NextScheduledTask = %+v, want nil", s.NextScheduledTask)
	}
}

func TestEventTypeNormalize(t *testing.T) {
	tests := []struct {
		in   EventType
		want EventType
	}{
		{EventTaskFailed, EventTaskFailed},
		{EventCronExecuted, EventCronExecuted},
		{"something_new", EventUnknown},
		{"", EventUnknown},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Errorf("EventType(%q).Normalize() = %q, want %q", tt.in, got, tt.want)
		}
	}
}
