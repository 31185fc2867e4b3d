package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/clawd-ops/missioncontrol/internal/dashboard"
	"github.com/clawd-ops/missioncontrol/internal/models"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func onlineLabel(online bool) string {
	if online {
		return styleSuccess.Render("online")
	}
	return styleError.Render("offline")
}

var kindLabels = map[models.SessionKind]string{
	models.SessionKindMain:     "main",
	models.SessionKindSubagent: "sub-agent",
	models.SessionKindCron:     "cron",
}

func kindLabel(kind models.SessionKind) string {
	if l, ok := kindLabels[kind]; ok {
		return l
	}
	if kind == "" {
		return "unknown"
	}
	return string(kind)
}

func statusBadge(status models.SessionStatus) string {
	switch status {
	case models.SessionStatusActive:
		return badgeActive.Render("active")
	case models.SessionStatusIdle:
		return badgeIdle.Render("idle")
	case "":
		return badgeClosed.Render("unknown")
	default:
		return badgeClosed.Render(string(status))
	}
}

func writeOverview(w io.Writer, ov *dashboard.Overview, now time.Time) {
	fmt.Fprintf(w, "%s %s  %s\n", styleBrand.Render("Agent"), onlineLabel(ov.Status.Online),
		styleHint.Render("last active "+dashboard.TimeAgo(ov.Status.LastActivity, now)))
	fmt.Fprintf(w, "  %s %s\n", styleLabel.Render("Active sessions:   "), styleValue.Render(fmt.Sprint(ov.ActiveSessions)))
	fmt.Fprintf(w, "  %s %s\n", styleLabel.Render("Running sub-agents:"), styleValue.Render(fmt.Sprint(ov.RunningSubagents)))
	next := styleHint.Render("none")
	if t := ov.NextScheduledTask; t != nil {
		next = styleValue.Render(dashboard.Truncate(t.Name, dashboard.SummaryLimit)) + styleHint.Render(" at "+dashboard.FormatClock(t.Time))
	}
	fmt.Fprintf(w, "  %s %s\n", styleLabel.Render("Next scheduled:    "), next)

	fmt.Fprintf(w, "\n%s\n", styleHeading.Render("Recent activity"))
	if len(ov.RecentActivity) == 0 {
		fmt.Fprintln(w, styleHint.Render("  No activity yet."))
		return
	}
	for _, e := range ov.RecentActivity {
		writeEvent(w, e)
	}
}

func writeEvent(w io.Writer, e models.ActivityEvent) {
	summary := e.Summary
	if summary == "" {
		summary = "Unknown event"
	}
	fmt.Fprintf(w, "  %-8s %-20s %s\n", dashboard.FormatClock(e.Timestamp), e.Type.Normalize(),
		dashboard.Truncate(summary, dashboard.SummaryLimit))
}

func writeSessions(w io.Writer, sessions []models.Session, now time.Time) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, styleHint.Render("No sessions."))
		return
	}
	for _, s := range sessions {
		fmt.Fprintf(w, "%s  %s  %s  %s\n", styleValue.Render(s.Key), styleLabel.Render(kindLabel(s.Kind)),
			statusBadge(s.Status), styleHint.Render(dashboard.TimeAgo(s.LastActivity, now)))
		if s.LastMessagePreview != "" {
			fmt.Fprintf(w, "    %s\n", dashboard.Truncate(s.LastMessagePreview, dashboard.PreviewLimit))
		}
	}
}

func writeHistory(w io.Writer, key string, messages []models.Message) {
	if len(messages) == 0 {
		fmt.Fprintf(w, "%s\n", styleHint.Render("No messages for "+key+"."))
		return
	}
	for i, m := range messages {
		if i > 0 {
			fmt.Fprintln(w)
		}
		role := string(m.Role)
		if role == "" {
			role = string(models.RoleOther)
		}
		fmt.Fprintf(w, "%s %s\n", styleHeading.Render(role), styleHint.Render(dashboard.FormatClock(m.Timestamp)))
		for _, line := range strings.Split(dashboard.Truncate(m.Content, dashboard.ContentLimit), "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

func writeSubagents(w io.Writer, view *dashboard.TaskView) {
	fmt.Fprintf(w, "%s\n", styleHeading.Render(fmt.Sprintf("Running (%d)", view.RunningCount())))
	if len(view.Running) == 0 {
		fmt.Fprintln(w, styleHint.Render("  none"))
	}
	for _, e := range view.Running {
		fmt.Fprintf(w, "  %s  %s  %s\n", styleValue.Render(taskName(view, e)), styleLabel.Render(e.SessionKey),
			styleHint.Render("started "+dashboard.FormatClock(e.Timestamp)))
	}

	completed := dashboard.Recent(view.Completed, dashboard.RecentCompletedCount)
	fmt.Fprintf(w, "\n%s\n", styleHeading.Render(fmt.Sprintf("Recently completed (%d)", len(view.Completed))))
	if len(completed) == 0 {
		fmt.Fprintln(w, styleHint.Render("  none"))
	}
	for _, e := range completed {
		outcome := styleError.Render("failure")
		if e.Succeeded() {
			outcome = styleSuccess.Render("success")
		}
		fmt.Fprintf(w, "  %s  %s  %s  %s\n", outcome, styleValue.Render(taskName(view, e)), styleHint.Render(dashboard.FormatClock(e.Timestamp)),
			dashboard.Truncate(e.Summary, dashboard.SummaryLimit))
	}
}

// taskName labels a task row, capped like other one-line summaries.
func taskName(view *dashboard.TaskView, e models.SubagentTaskEvent) string {
	name := view.TaskName(e)
	if name == "" {
		name = e.SessionKey
	}
	return dashboard.Truncate(name, dashboard.SummaryLimit)
}

func writeCronJobs(w io.Writer, jobs []models.CronJob) {
	if len(jobs) == 0 {
		fmt.Fprintln(w, styleHint.Render("No cron jobs."))
		return
	}
	for _, j := range jobs {
		state := styleSuccess.Render("enabled ")
		if !j.Enabled {
			state = styleHint.Render("disabled")
		}
		next := "unknown"
		if j.NextRun != nil && j.NextRun.Valid() {
			next = j.NextRun.String()
		}
		fmt.Fprintf(w, "%s  %s  %s  %s\n", state, styleValue.Render(j.ID), styleLabel.Render(j.Schedule), styleHint.Render("next "+next))
		if j.Text != "" {
			fmt.Fprintf(w, "    %s\n", dashboard.Truncate(j.Text, dashboard.SummaryLimit))
		}
	}
}

func writeDeliverables(w io.Writer, groups []dashboard.DeliverableGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(w, styleHint.Render("No deliverables yet."))
		return
	}
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s\n", styleHeading.Render(fmt.Sprintf("%s (%d)", g.Category, len(g.Items))))
		for _, d := range g.Items {
			fmt.Fprintf(w, "  %s  %s  %s\n", styleValue.Render(dashboard.Truncate(d.Name, dashboard.SummaryLimit)),
				styleLabel.Render(d.Type), styleHint.Render(d.Path))
			if d.Description != "" {
				fmt.Fprintf(w, "    %s\n", dashboard.Truncate(d.Description, dashboard.SummaryLimit))
			}
		}
	}
}
