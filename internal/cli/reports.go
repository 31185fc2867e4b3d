package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/clawd-ops/missioncontrol/internal/dashboard"
	"github.com/clawd-ops/missioncontrol/internal/models"
)

// Report flags.
var (
	jsonOutput       bool
	sessionKind      string
	activityCategory string
	activityLimit    int
)

// requestTimeout bounds remote calls.
const requestTimeout = 5 * time.Second

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show agent status and recent activity",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List sessions",
	Args:  cobra.NoArgs,
	RunE:  runSessions,
}

var sessionsHistoryCmd = &cobra.Command{
	Use:   "history <key>",
	Short: "Show the message history of a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionHistory,
}

var subagentsCmd = &cobra.Command{
	Use:     "subagents",
	Aliases: []string{"tasks"},
	Short:   "Show running and recently completed sub-agent tasks",
	Args:    cobra.NoArgs,
	RunE:    runSubagents,
}

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show the activity feed, newest first",
	Args:  cobra.NoArgs,
	RunE:  runActivity,
}

var cronCmd = &cobra.Command{
	Use:   "cron",
	Short: "List cron jobs by next run",
	Args:  cobra.NoArgs,
	RunE:  runCron,
}

var deliverablesCmd = &cobra.Command{
	Use:   "deliverables",
	Short: "List deliverables grouped by category",
	Args:  cobra.NoArgs,
	RunE:  runDeliverables,
}

func init() {
	for _, c := range []*cobra.Command{statusCmd, sessionsCmd, sessionsHistoryCmd, subagentsCmd, activityCmd, cronCmd, deliverablesCmd} {
		c.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
	}
	sessionsCmd.Flags().StringVar(&sessionKind, "kind", "", "Only sessions of this kind: main, subagent or cron")
	activityCmd.Flags().StringVar(&activityCategory, "category", dashboard.FilterAll,
		"Category: "+strings.Join(dashboard.ActivityFilters, ", "))
	activityCmd.Flags().IntVar(&activityLimit, "limit", 20, "Maximum events to show (0 for all)")

	sessionsCmd.AddCommand(sessionsHistoryCmd)
}

// withSource opens the selected source and runs fn with a bounded context.
func withSource(cmd *cobra.Command, fn func(ctx context.Context, src source) error) error {
	src, closeFn, err := openSource()
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()
	return fn(ctx, src)
}

func runStatus(cmd *cobra.Command, args []string) error {
	return withSource(cmd, func(ctx context.Context, src source) error {
		ov, err := src.Overview(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), ov)
		}
		writeOverview(cmd.OutOrStdout(), ov, time.Now())
		return nil
	})
}

func parseSessionKind(s string) (models.SessionKind, error) {
	switch kind := models.SessionKind(strings.ToLower(strings.TrimSpace(s))); kind {
	case "", models.SessionKindMain, models.SessionKindSubagent, models.SessionKindCron:
		return kind, nil
	}
	// Accept the dashboard filter names too.
	for _, name := range dashboard.SessionFilters {
		if strings.EqualFold(name, s) {
			kind, _ := dashboard.SessionKindForFilter(name)
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown session kind %q (want main, subagent or cron)", s)
}

func runSessions(cmd *cobra.Command, args []string) error {
	kind, err := parseSessionKind(sessionKind)
	if err != nil {
		return err
	}
	return withSource(cmd, func(ctx context.Context, src source) error {
		sessions, err := src.Sessions(ctx, kind)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{"sessions": sessions})
		}
		writeSessions(cmd.OutOrStdout(), sessions, time.Now())
		return nil
	})
}

func runSessionHistory(cmd *cobra.Command, args []string) error {
	key := args[0]
	return withSource(cmd, func(ctx context.Context, src source) error {
		messages, err := src.History(ctx, key)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{"key": key, "messages": messages})
		}
		writeHistory(cmd.OutOrStdout(), key, messages)
		return nil
	})
}

func runSubagents(cmd *cobra.Command, args []string) error {
	return withSource(cmd, func(ctx context.Context, src source) error {
		view, err := src.Subagents(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"running_keys": view.RunningKeys,
				"running":      view.Running,
				"completed":    dashboard.Recent(view.Completed, dashboard.RecentCompletedCount),
			})
		}
		writeSubagents(cmd.OutOrStdout(), view)
		return nil
	})
}

func parseActivityCategory(s string) (string, error) {
	for _, name := range dashboard.ActivityFilters {
		if strings.EqualFold(name, s) {
			return name, nil
		}
	}
	return "", fmt.Errorf("unknown category %q (want %s)", s, strings.Join(dashboard.ActivityFilters, ", "))
}

func runActivity(cmd *cobra.Command, args []string) error {
	category, err := parseActivityCategory(activityCategory)
	if err != nil {
		return err
	}
	if activityLimit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}
	return withSource(cmd, func(ctx context.Context, src source) error {
		events, err := src.Activity(ctx, category, activityLimit)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{"category": category, "events": events})
		}
		if len(events) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), styleHint.Render("No activity."))
		}
		for _, e := range events {
			writeEvent(cmd.OutOrStdout(), e)
		}
		return nil
	})
}

func runCron(cmd *cobra.Command, args []string) error {
	return withSource(cmd, func(ctx context.Context, src source) error {
		jobs, err := src.CronJobs(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{"jobs": jobs})
		}
		writeCronJobs(cmd.OutOrStdout(), jobs)
		return nil
	})
}

func runDeliverables(cmd *cobra.Command, args []string) error {
	return withSource(cmd, func(ctx context.Context, src source) error {
		items, err := src.Deliverables(ctx)
		if err != nil {
			return err
		}
		groups := dashboard.GroupDeliverables(items)
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{"items": items, "groups": groups})
		}
		writeDeliverables(cmd.OutOrStdout(), groups)
		return nil
	})
}
