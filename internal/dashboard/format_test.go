package dashboard

import (
	"testing"
	"time"

	"github.com/clawd-ops/missioncontrol/internal/models"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-03-01T09:05:00Z", "9:05 AM"},
		{"2025-03-01T21:30:00+00:00", "9:30 PM"},
		{"2025-03-01T12:00:00Z", "12:00 PM"},
		{"garbage", "garbage"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := FormatClock(models.ParseTimestamp(tt.in)); got != tt.want {
			t.Errorf("FormatClock(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{0, "just now"},
		{59 * time.Second, "just now"},
		{-5 * time.Minute, "just now"},
		{time.Minute, "1 min ago"},
		{59 * time.Minute, "59 min ago"},
		{time.Hour, "1h ago"},
		{23 * time.Hour, "23h ago"},
		{24 * time.Hour, "1d ago"},
		{72*time.Hour + time.Minute, "3d ago"},
	}
	for _, tt := range tests {
		ts := models.NewTimestamp(now.Add(-tt.ago))
		if got := TimeAgo(ts, now); got != tt.want {
			t.Errorf("TimeAgo(now-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}

	if got := TimeAgo(models.ParseTimestamp("last tuesday"), now); got != "last tuesday" {
		t.Errorf("TimeAgo(unparsed) = %q, want raw text", got)
	}
}
