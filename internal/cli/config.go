package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/clawd-ops/missioncontrol/internal/config"
	"github.com/clawd-ops/missioncontrol/internal/dashboard"
	"github.com/clawd-ops/missioncontrol/internal/statefile"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"settings"},
	Short:   "Show effective settings and where state files are read from",
	Long: `Show the effective settings after settings.yaml, environment variables
and flags are applied, followed by the state roots in priority order and
which state files each one currently holds.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write settings.yaml with the effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var forceInit bool

func init() {
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing settings.yaml")
	configCmd.AddCommand(configInitCmd)
}

// stateFiles are the fixed-name files the dashboard reads.
var stateFiles = []string{
	dashboard.StatusFile,
	dashboard.SessionsFile,
	dashboard.SubagentLogFile,
	dashboard.ActivityFeedFile,
	dashboard.CronJobsFile,
	dashboard.DeliverablesFile,
}

func runConfig(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	path, err := config.GlobalSettingsFile()
	if err != nil {
		return err
	}
	source := path
	if !config.FileExists(path) {
		source = path + " " + styleWarning.Render("(not found, using defaults)")
	}
	fmt.Fprintf(out, "%s %s\n\n", styleLabel.Render("Settings:"), source)

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	fmt.Fprint(out, string(data))

	fmt.Fprintf(out, "\n%s\n", styleHeading.Render("State roots (highest priority first)"))
	resolver := statefile.NewResolver(config.StateRoots(settings)...)
	for i, root := range resolver.Roots() {
		marker := styleError.Render("missing")
		if info, err := os.Stat(root); err == nil && info.IsDir() {
			marker = styleSuccess.Render("present")
		}
		fmt.Fprintf(out, "  %d. %s  %s\n", i+1, root, marker)
	}

	fmt.Fprintf(out, "\n%s\n", styleHeading.Render("State files"))
	for _, name := range stateFiles {
		if p, ok := resolver.Resolve(name); ok {
			fmt.Fprintf(out, "  %-20s %s\n", name, p)
		} else {
			fmt.Fprintf(out, "  %-20s %s\n", name, styleHint.Render("not found"))
		}
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := config.GlobalSettingsFile()
	if err != nil {
		return err
	}
	if config.FileExists(path) && !forceInit {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if err := config.EnsureGlobalDir(); err != nil {
		return fmt.Errorf("failed to create global directory: %w", err)
	}
	if err := config.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
