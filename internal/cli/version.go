package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/clawd-ops/missioncontrol/internal/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Show version information",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := buildinfo.Get()
		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, info)
		}
		fmt.Fprintf(out, "%s %s %s\n", styleBrand.Render("Mission Control"),
			styleVersion.Render(info.Version), styleHint.Render("("+info.Codename+")"))
		for _, row := range [][2]string{
			{"commit", info.Commit},
			{"built", info.Built},
			{"go", runtime.Version() + " " + runtime.GOOS + "/" + runtime.GOARCH},
		} {
			fmt.Fprintf(out, "  %s %s\n", styleLabel.Render(fmt.Sprintf("%-7s", row[0])), styleValue.Render(row[1]))
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
}
