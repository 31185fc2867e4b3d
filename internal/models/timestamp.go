package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are tried in order when decoding a producer timestamp.
// Naive layouts (no zone) are interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Timestamp is a producer-written point in time. Decoding never fails: a
// value that cannot be parsed keeps its raw text in Raw and a zero Time, so
// one odd field does not discard the whole record.
type Timestamp struct {
	time.Time
	Raw string
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t, Raw: t.Format(time.RFC3339Nano)}
}

// ParseTimestamp parses s using the accepted layouts.
func ParseTimestamp(s string) Timestamp {
	s = strings.TrimSpace(s)
	ts := Timestamp{Raw: s}
	if s == "" {
		return ts
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			ts.Time = t
			return ts
		}
	}
	return ts
}

// Valid reports whether the timestamp was parsed.
func (t Timestamp) Valid() bool {
	return !t.Time.IsZero()
}

// String returns the RFC 3339 form, or the raw text when unparsed.
func (t Timestamp) String() string {
	if t.Valid() {
		return t.Time.Format(time.RFC3339)
	}
	return t.Raw
}

// UnmarshalJSON accepts an ISO 8601 string, a unix-seconds number, or null.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*t = Timestamp{Raw: string(b)}
			return nil
		}
		*t = ParseTimestamp(s)
		return nil
	}
	if secs, err := strconv.ParseFloat(string(b), 64); err == nil {
		whole := int64(secs)
		nanos := int64((secs - float64(whole)) * float64(time.Second))
		*t = Timestamp{Time: time.Unix(whole, nanos).UTC(), Raw: string(b)}
		return nil
	}
	*t = Timestamp{Raw: string(b)}
	return nil
}

// MarshalJSON writes the parsed time in RFC 3339, the raw text when the
// value was not parseable, or null when empty.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Valid() {
		return json.Marshal(t.Time.Format(time.RFC3339Nano))
	}
	if t.Raw == "" {
		return []byte("null"), nil
	}
	return json.Marshal(t.Raw)
}
