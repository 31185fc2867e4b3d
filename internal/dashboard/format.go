package dashboard

import (
	"fmt"
	"time"

	"github.com/clawd-ops/missioncontrol/internal/models"
)

// FormatClock renders ts as a 12-hour wall-clock time such as "3:04 PM".
// Unparsed timestamps come back as their raw text.
func FormatClock(ts models.Timestamp) string {
	if !ts.Valid() {
		return ts.Raw
	}
	return ts.Time.Format("3:04 PM")
}

// TimeAgo renders how long before now ts was, at coarse granularity.
func TimeAgo(ts models.Timestamp, now time.Time) string {
	if !ts.Valid() {
		return ts.Raw
	}
	d := now.Sub(ts.Time)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d min ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	default:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	}
}
