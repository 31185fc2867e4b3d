package cmd

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/clawd-ops/missioncontrol/internal/buildinfo"
	"github.com/clawd-ops/missioncontrol/internal/config"
)

var (
	dStyleBrand = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "30", Dark: "45"})
	dStyleLabel = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "242", Dark: "240"})
	dStyleValue = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "0", Dark: "15"})
)

var daemonVersionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Show build information and the listen configuration",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s (%s)\n", dStyleBrand.Render("missioncontrold"), buildinfo.Version, buildinfo.Codename)
		writeField(out, "commit", buildinfo.CommitHash)
		writeField(out, "built", buildinfo.BuildDate)
		writeField(out, "platform", runtime.GOOS+"/"+runtime.GOARCH+" "+runtime.Version())

		// Settings errors are not fatal here; the build fields are still useful.
		settings, err := loadSettings()
		if err != nil {
			writeField(out, "settings", err.Error())
			return
		}
		writeField(out, "http", fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.HTTPPort))
		writeField(out, "grpc", fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.GRPCPort))
		writeField(out, "roots", strings.Join(config.StateRoots(settings), ", "))
	},
}

func writeField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s %s\n", dStyleLabel.Render(fmt.Sprintf("%-9s", label)), dStyleValue.Render(value))
}
