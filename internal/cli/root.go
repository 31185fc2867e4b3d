// Package cli implements the missioncontrol CLI commands.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/clawd-ops/missioncontrol/internal/config"
	"github.com/clawd-ops/missioncontrol/internal/dashboard"
	"github.com/clawd-ops/missioncontrol/internal/log"
	"github.com/clawd-ops/missioncontrol/internal/models"
	"github.com/clawd-ops/missioncontrol/internal/tui"
)

// Global flags.
var (
	workspace string
	cacheTTL  time.Duration
	remote    bool
	noWatch   bool
)

var rootCmd = &cobra.Command{
	Use:   "missioncontrol",
	Short: "Watch an autonomous agent's state from the terminal",
	Long: `Mission Control reads the state files an autonomous agent writes to its
workspace and presents them as a dashboard: agent status, sessions and their
history, delegated sub-agent tasks, the activity feed, cron jobs and
deliverables.

Run without a subcommand to open the interactive dashboard.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive dashboard",
	RunE:  runTUI,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&workspace, "workspace", "", "Agent workspace directory (overrides settings and WORKSPACE_PATH)")
	rootCmd.PersistentFlags().DurationVar(&cacheTTL, "ttl", 0, "Cache time-to-live (default from settings)")
	rootCmd.PersistentFlags().BoolVar(&remote, "remote", false, "Read from the running daemon over gRPC instead of the local files")
	rootCmd.Flags().BoolVar(&noWatch, "no-watch", false, "Disable file watching; refresh on the interval only")
	tuiCmd.Flags().BoolVar(&noWatch, "no-watch", false, "Disable file watching; refresh on the interval only")

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cronCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(deliverablesCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(subagentsCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadSettings reads settings and applies the global flags on top.
func loadSettings() (*models.Settings, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, err
	}
	if workspace != "" {
		settings.Workspace = workspace
	}
	if cacheTTL > 0 {
		settings.CacheTTL = cacheTTL
	}
	if err := config.ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	log.SetLevel(settings.LogLevel)
	return settings, nil
}

func newStore(settings *models.Settings) *dashboard.Store {
	return dashboard.NewStore(dashboard.Options{
		Roots: config.StateRoots(settings),
		TTL:   settings.CacheTTL,
	})
}

func runTUI(cmd *cobra.Command, args []string) error {
	if remote {
		return fmt.Errorf("the dashboard reads local files; --remote applies to the report commands")
	}
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	return tui.Run(tui.Options{
		Store:           newStore(settings),
		RefreshInterval: settings.RefreshInterval,
		Watch:           !noWatch,
	})
}
