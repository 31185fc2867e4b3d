// Package cmd holds the missioncontrold command line.
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/clawd-ops/missioncontrol/internal/config"
	"github.com/clawd-ops/missioncontrol/internal/daemon/server"
	"github.com/clawd-ops/missioncontrol/internal/daemon/tray"
	"github.com/clawd-ops/missioncontrol/internal/daemon/watcher"
	"github.com/clawd-ops/missioncontrol/internal/dashboard"
	"github.com/clawd-ops/missioncontrol/internal/log"
	"github.com/clawd-ops/missioncontrol/internal/models"
)

var (
	foreground bool
	httpPort   int
	grpcPort   int
	workspace  string
	cacheTTL   time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "missioncontrold",
	Short:         "Mission Control daemon: serves the agent dashboard over HTTP and gRPC",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDaemon,
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("missioncontrold failed")
		return err
	}
	return nil
}

func init() {
	rootCmd.Flags().BoolVar(&foreground, "foreground", false, "Run in foreground without a system tray")
	rootCmd.Flags().IntVar(&httpPort, "http-port", -1, "HTTP port (0 for dynamic allocation, default from settings)")
	rootCmd.Flags().IntVar(&grpcPort, "grpc-port", -1, "gRPC port (0 for dynamic allocation, default from settings)")
	rootCmd.Flags().StringVar(&workspace, "workspace", "", "Agent workspace directory (overrides settings and WORKSPACE_PATH)")
	rootCmd.Flags().DurationVar(&cacheTTL, "ttl", 0, "Cache time-to-live (default from settings)")

	rootCmd.AddCommand(daemonVersionCmd)
}

// daemon bundles the running components so both run modes share setup and
// teardown.
type daemon struct {
	settings *models.Settings
	store    *dashboard.Store
	watcher  *watcher.Watcher
	server   *server.Server
	done     chan struct{}
}

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
	if httpPort >= 0 {
		settings.Server.HTTPPort = httpPort
	}
	if grpcPort >= 0 {
		settings.Server.GRPCPort = grpcPort
	}
	if err := config.ValidateSettings(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func runDaemon(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	log.SetLevel(settings.LogLevel)

	if err := config.EnsureGlobalDir(); err != nil {
		return fmt.Errorf("failed to create global directory: %w", err)
	}
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if running {
		return fmt.Errorf("daemon already running on port %d (PID %d)", info.HTTPPort, info.PID)
	}

	if foreground {
		log.Info().Msg("running in foreground mode (no system tray)")
		return runForeground(settings)
	}
	log.Info().Msg("running in background mode (with system tray)")
	runWithTray(settings)
	return nil
}

func start(settings *models.Settings) (*daemon, error) {
	roots := config.StateRoots(settings)
	store := dashboard.NewStore(dashboard.Options{Roots: roots, TTL: settings.CacheTTL})

	srv, err := server.New(store, server.Options{
		Host:             settings.Server.Host,
		HTTPPort:         settings.Server.HTTPPort,
		GRPCPort:         settings.Server.GRPCPort,
		RefreshPerMinute: settings.Server.RefreshPerMinute,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	w, err := watcher.New(roots)
	if err != nil {
		srv.Stop()
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Start(); err != nil {
		srv.Stop()
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}

	info := models.NewDaemonInfo(settings.Server.Host, srv.HTTPPort(), srv.GRPCPort(), os.Getpid())
	if err := config.SaveDaemonInfo(info); err != nil {
		w.Stop()
		srv.Stop()
		return nil, fmt.Errorf("failed to write daemon info: %w", err)
	}

	d := &daemon{settings: settings, store: store, watcher: w, server: srv, done: make(chan struct{})}
	go d.forwardChanges()

	log.Info().
		Str("instance", info.InstanceID).
		Int("http_port", srv.HTTPPort()).
		Int("grpc_port", srv.GRPCPort()).
		Strs("roots", roots).
		Int("pid", info.PID).
		Msg("daemon started")
	return d, nil
}

// forwardChanges pushes watcher events to the server and keeps the tray
// current, falling back to the refresh interval when nothing is written.
func (d *daemon) forwardChanges() {
	ticker := time.NewTicker(d.settings.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-d.done:
			return
		case ev := <-d.watcher.Events():
			d.server.Notify(ev)
			tray.Update()
		case <-ticker.C:
			tray.Update()
		}
	}
}

func (d *daemon) stop() {
	close(d.done)
	d.watcher.Stop()
	d.server.Stop()
	if err := config.RemoveDaemonInfo(); err != nil {
		log.Warn().Err(err).Msg("failed to remove daemon info")
	}
	fmt.Println("Daemon stopped")
}

// runForeground runs the daemon without a system tray, blocking on signals.
func runForeground(settings *models.Settings) error {
	d, err := start(settings)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- d.server.Serve()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var serveErr error
	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case serveErr = <-errCh:
		log.Error().Err(serveErr).Msg("server error")
	}

	d.stop()
	return serveErr
}

// runWithTray runs the daemon with a system tray icon on the main goroutine.
// systray.Run must occupy the main goroutine on macOS (Cocoa requirement).
func runWithTray(settings *models.Settings) {
	var d *daemon

	onStart := func() {
		var err error
		d, err = start(settings)
		if err != nil {
			log.Error().Err(err).Msg("failed to start daemon")
			tray.Quit()
			return
		}

		go func() {
			if err := d.server.Serve(); err != nil {
				log.Error().Err(err).Msg("server error")
				tray.Quit()
			}
		}()

		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigCh
			log.Info().Str("signal", sig.String()).Msg("shutting down")
			tray.Quit()
		}()
	}

	onExit := func() {
		if d != nil {
			d.stop()
		}
	}

	// The tray needs its state before the server exists, so it goes through
	// a lazy wrapper that defers to the real TrayState once start succeeds.
	lazyState := &lazyDashboardState{getSrv: func() *server.Server {
		if d == nil {
			return nil
		}
		return d.server
	}}

	tray.Run(lazyState, onStart, onExit)
}

// lazyDashboardState wraps server.TrayState with lazy initialization.
type lazyDashboardState struct {
	getSrv func() *server.Server
}

func (l *lazyDashboardState) HTTPPort() int {
	if srv := l.getSrv(); srv != nil {
		return server.NewTrayState(srv).HTTPPort()
	}
	return 0
}

func (l *lazyDashboardState) Summary() tray.Summary {
	if srv := l.getSrv(); srv != nil {
		return server.NewTrayState(srv).Summary()
	}
	return tray.Summary{}
}

func (l *lazyDashboardState) RunningTasks() []tray.TaskInfo {
	if srv := l.getSrv(); srv != nil {
		return server.NewTrayState(srv).RunningTasks()
	}
	return nil
}

func (l *lazyDashboardState) Refresh() {
	if srv := l.getSrv(); srv != nil {
		server.NewTrayState(srv).Refresh()
	}
}

func (l *lazyDashboardState) RequestShutdown() {
	if srv := l.getSrv(); srv != nil {
		server.NewTrayState(srv).RequestShutdown()
	}
}
