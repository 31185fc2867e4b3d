package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/clawd-ops/missioncontrol/internal/dashboard"
	"github.com/clawd-ops/missioncontrol/internal/models"
)

var kindIcons = map[models.SessionKind]string{
	models.SessionKindMain:     "💬",
	models.SessionKindSubagent: "🤖",
	models.SessionKindCron:     "⏰",
}

func kindIcon(kind models.SessionKind) string {
	if icon, ok := kindIcons[kind]; ok {
		return icon
	}
	return "📋"
}

var eventIcons = map[models.EventType]string{
	models.EventSessionStarted:     "💬",
	models.EventSessionEnded:       "⏹️",
	models.EventTaskStarted:        "◐",
	models.EventTaskCompleted:      "✓",
	models.EventTaskFailed:         "✗",
	models.EventDeliverableCreated: "📄",
	models.EventCronExecuted:       "⏰",
	models.EventErrorOccurred:      "⚠️",
}

func eventIcon(t models.EventType) string {
	if icon, ok := eventIcons[t]; ok {
		return icon
	}
	return "•"
}

func eventSummary(e models.ActivityEvent) string {
	if e.Summary == "" {
		return "Unknown event"
	}
	return dashboard.Truncate(e.Summary, dashboard.SummaryLimit)
}

func eventStyle(t models.EventType) lipgloss.Style {
	switch t {
	case models.EventTaskFailed, models.EventErrorOccurred:
		return failureStyle
	case models.EventTaskCompleted, models.EventDeliverableCreated:
		return successStyle
	default:
		return plainStyle
	}
}

func sessionStyle(status models.SessionStatus) lipgloss.Style {
	switch status {
	case models.SessionStatusActive:
		return activeStyle
	case models.SessionStatusIdle:
		return idleStyle
	default:
		return dimStyle
	}
}

func onlineBadge(status models.AgentStatus) string {
	if status.Online {
		return badgeOnlineStyle.Render("● Online")
	}
	return badgeOfflineStyle.Render("○ Offline")
}

// sessionItems builds the Sessions tab rows.
func sessionItems(sessions []models.Session, now time.Time) []listItem {
	items := make([]listItem, 0, len(sessions))
	for _, s := range sessions {
		status := string(s.Status)
		if status == "" {
			status = "unknown"
		}
		text := fmt.Sprintf("%s %s · %s · %s", kindIcon(s.Kind), s.Key, status,
			dashboard.TimeAgo(s.LastActivity, now))
		if s.LastMessagePreview != "" {
			text += "  " + dimStyle.Render(dashboard.Truncate(s.LastMessagePreview, dashboard.PreviewLimit))
		}
		items = append(items, listItem{key: s.Key, text: text, style: sessionStyle(s.Status)})
	}
	return items
}

// subagentItems builds the Sub-Agents tab: running tasks, then the most
// recent completions newest first.
func subagentItems(view dashboard.TaskView) []listItem {
	completed := dashboard.Recent(view.Completed, dashboard.RecentCompletedCount)
	items := make([]listItem, 0, len(view.Running)+len(completed)+2)

	items = append(items, headerItem(fmt.Sprintf("Running (%d)", view.RunningCount())))
	for i, e := range view.Running {
		label := taskLabel(view.TaskName(e), e.SessionKey)
		text := fmt.Sprintf("◐ %s · %s · started %s", label, e.SessionKey, dashboard.FormatClock(e.Timestamp))
		items = append(items, listItem{key: fmt.Sprintf("run/%d/%s", i, e.SessionKey), text: text, style: activeStyle,
			detail: taskDetail(e, label)})
	}

	items = append(items, headerItem(fmt.Sprintf("Recently completed (%d)", len(view.Completed))))
	for i, e := range completed {
		icon, style := "✗", failureStyle
		if e.Succeeded() {
			icon, style = "✓", successStyle
		}
		label := taskLabel(view.TaskName(e), e.SessionKey)
		text := fmt.Sprintf("%s %s · %s", icon, label, dashboard.FormatClock(e.Timestamp))
		if e.Summary != "" {
			text += "  " + dimStyle.Render(dashboard.Truncate(e.Summary, dashboard.SummaryLimit))
		}
		items = append(items, listItem{key: fmt.Sprintf("done/%d/%s", i, e.SessionKey), text: text, style: style,
			detail: taskDetail(e, label)})
	}
	return items
}

func taskDetail(e models.SubagentTaskEvent, label string) *itemDetail {
	return newDetail(label,
		"Session", e.SessionKey,
		"Event", string(e.Event),
		"Outcome", string(e.Status),
		"Time", e.Timestamp.String(),
		"Task", e.Task,
		"Summary", dashboard.Truncate(e.Summary, dashboard.ContentLimit),
	)
}

func taskLabel(task, key string) string {
	if task != "" {
		return dashboard.Truncate(task, dashboard.SummaryLimit)
	}
	if key != "" {
		return key
	}
	return "Unnamed task"
}

// activityItems builds the Activity tab rows newest first.
func activityItems(events []models.ActivityEvent) []listItem {
	recent := dashboard.Recent(events, 0)
	items := make([]listItem, 0, len(recent))
	for i, e := range recent {
		text := fmt.Sprintf("%s %s  %s", eventIcon(e.Type), dimStyle.Render(dashboard.FormatClock(e.Timestamp)), eventSummary(e))
		items = append(items, listItem{key: fmt.Sprintf("%d", i), text: text, style: eventStyle(e.Type),
			detail: newDetail("Activity event",
				"Type", string(e.Type.Normalize()),
				"Time", e.Timestamp.String(),
				"Summary", e.Summary,
			)})
	}
	return items
}

// cronItems builds the Cron tab rows.
func cronItems(jobs []models.CronJob, now time.Time) []listItem {
	items := make([]listItem, 0, len(jobs))
	for _, j := range jobs {
		icon, style := "○", dimStyle
		if j.Enabled {
			icon, style = "●", successStyle
		}
		next := "next: unknown"
		if j.NextRun != nil && j.NextRun.Valid() {
			next = "next: " + j.NextRun.Time.In(now.Location()).Format("Jan 2 3:04 PM")
		}
		name := j.ID
		if name == "" {
			name = "(unnamed)"
		}
		text := fmt.Sprintf("%s %s · %s · %s", icon, name, j.Schedule, next)
		if j.LastRun != nil && j.LastRun.Valid() {
			text += " · last: " + dashboard.TimeAgo(*j.LastRun, now)
		}
		if j.Text != "" {
			text += "  " + dimStyle.Render(dashboard.Truncate(j.Text, dashboard.SummaryLimit))
		}
		items = append(items, listItem{key: j.ID, text: text, style: style, detail: cronDetail(name, j)})
	}
	return items
}

func cronDetail(name string, j models.CronJob) *itemDetail {
	enabled := "no"
	if j.Enabled {
		enabled = "yes"
	}
	next, last := "unknown", ""
	if j.NextRun != nil && j.NextRun.Valid() {
		next = j.NextRun.String()
	}
	if j.LastRun != nil {
		last = j.LastRun.String()
	}
	return newDetail(name,
		"Schedule", j.Schedule,
		"Enabled", enabled,
		"Next run", next,
		"Last run", last,
		"Text", dashboard.Truncate(j.Text, dashboard.ContentLimit),
	)
}

// deliverableItems builds the Deliverables tab rows grouped by category.
func deliverableItems(groups []dashboard.DeliverableGroup) []listItem {
	var items []listItem
	for _, g := range groups {
		items = append(items, headerItem(fmt.Sprintf("%s (%d)", g.Category, len(g.Items))))
		for i, d := range g.Items {
			name := d.Name
			if name == "" {
				name = d.Path
			}
			text := "📄 " + name
			if d.Type != "" {
				text += " · " + d.Type
			}
			if d.Path != "" && d.Path != name {
				text += " · " + dimStyle.Render(d.Path)
			}
			if d.Description != "" {
				text += "  " + dimStyle.Render(dashboard.Truncate(d.Description, dashboard.SummaryLimit))
			}
			created := ""
			if d.Created != nil {
				created = d.Created.String()
			}
			items = append(items, listItem{key: fmt.Sprintf("%s/%d", g.Category, i), text: text, style: plainStyle,
				detail: newDetail(name,
					"Category", g.Category,
					"Type", d.Type,
					"Path", d.Path,
					"Created", created,
					"Description", dashboard.Truncate(d.Description, dashboard.ContentLimit),
				)})
		}
	}
	return items
}

// renderHome renders the overview cards and the recent activity feed.
func renderHome(ov dashboard.Overview, now time.Time) string {
	var b strings.Builder

	row := func(label, value string) {
		b.WriteString(cardLabelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	row("Agent", onlineBadge(ov.Status)+"  "+dimStyle.Render("last active "+dashboard.TimeAgo(ov.Status.LastActivity, now)))
	row("Active sessions", cardValueStyle.Render(fmt.Sprintf("%d", ov.ActiveSessions)))
	row("Running sub-agents", cardValueStyle.Render(fmt.Sprintf("%d", ov.RunningSubagents)))

	next := dimStyle.Render("none scheduled")
	if t := ov.NextScheduledTask; t != nil {
		next = cardValueStyle.Render(t.Name) + dimStyle.Render(" at "+dashboard.FormatClock(t.Time))
	}
	row("Next scheduled task", next)

	b.WriteString("\n")
	b.WriteString(sectionHeaderStyle.Render("Recent activity"))
	b.WriteString("\n")
	if len(ov.RecentActivity) == 0 {
		b.WriteString(dimStyle.Render("  No activity yet."))
		return b.String()
	}
	for _, e := range ov.RecentActivity {
		line := fmt.Sprintf("  %s %s  %s", eventIcon(e.Type),
			dimStyle.Render(dashboard.FormatClock(e.Timestamp)), eventStyle(e.Type).Render(eventSummary(e)))
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderFilterBar shows the filter choices with the active one underlined.
func renderFilterBar(filters []string, active int) string {
	return dimStyle.Render("Filter (f): ") + renderTabs(filters, active)
}
