package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/clawd-ops/missioncontrol/internal/config"
	"github.com/clawd-ops/missioncontrol/internal/daemon/server"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Manage the Mission Control daemon",
	Long: `Manage the missioncontrold process, which serves the dashboard over
HTTP, WebSocket and gRPC and shows a system tray summary.`,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Args:  cobra.NoArgs,
	RunE:  runDaemonStatus,
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the daemon",
	Args:  cobra.NoArgs,
	RunE:  runDaemonStart,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the daemon",
	Args:  cobra.NoArgs,
	RunE:  runDaemonStop,
}

var daemonRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Ask the daemon to drop its cached reads",
	Args:  cobra.NoArgs,
	RunE:  runDaemonRefresh,
}

func init() {
	daemonStatusCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")

	daemonCmd.AddCommand(daemonRefreshCmd)
	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
}

func endpoints(host string, httpPort, grpcPort int) string {
	return fmt.Sprintf("http://%s:%d, grpc %s:%d", host, httpPort, host, grpcPort)
}

func runDaemonStart(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if running {
		fmt.Fprintf(out, "Daemon already running (PID %d, %s).\n", info.PID, endpoints(info.Host, info.HTTPPort, info.GRPCPort))
		return nil
	}

	fmt.Fprint(out, "Starting daemon...")
	info, err = startDaemon()
	if err != nil {
		fmt.Fprintln(out)
		return err
	}
	fmt.Fprintf(out, " started (PID %d, %s).\n", info.PID, endpoints(info.Host, info.HTTPPort, info.GRPCPort))
	return nil
}

func runDaemonStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return err
	}
	if jsonOutput {
		if !running {
			return printJSON(out, map[string]any{"running": false})
		}
		return printJSON(out, map[string]any{"running": true, "daemon": info})
	}
	if !running {
		fmt.Fprintln(out, "Daemon is not running.")
		return nil
	}

	fmt.Fprintln(out, styleSuccess.Render("Daemon is running."))
	for _, row := range [][2]string{
		{"HTTP", fmt.Sprintf("http://%s:%d", info.Host, info.HTTPPort)},
		{"gRPC", fmt.Sprintf("%s:%d", info.Host, info.GRPCPort)},
		{"PID", fmt.Sprint(info.PID)},
		{"Instance", info.InstanceID},
		{"Uptime", time.Since(info.StartedAt).Truncate(time.Second).String()},
	} {
		fmt.Fprintf(out, "  %s %s\n", styleLabel.Render(fmt.Sprintf("%-9s", row[0]+":")), row[1])
	}

	// The summary is best effort; the daemon may still be binding.
	conn, err := connectDaemon()
	if err != nil {
		return nil
	}
	defer conn.Close()
	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()
	ov, err := server.NewDashboardClient(conn).Overview(ctx)
	if err != nil {
		return nil
	}
	fmt.Fprintf(out, "\nAgent %s · %d active sessions · %d running sub-agents\n",
		onlineLabel(ov.Status.Online), ov.ActiveSessions, ov.RunningSubagents)
	return nil
}

func runDaemonStop(cmd *cobra.Command, args []string) error {
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if !running {
		fmt.Fprintln(cmd.OutOrStdout(), "Daemon is not running.")
		return nil
	}
	if err := stopDaemon(info); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Daemon stopped.")
	return nil
}

func runDaemonRefresh(cmd *cobra.Command, args []string) error {
	conn, err := connectDaemon()
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()
	if err := server.NewDashboardClient(conn).Refresh(ctx); err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Daemon cache cleared.")
	return nil
}
