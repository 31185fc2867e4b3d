// Package tray implements the system tray icon and menu for the daemon.
package tray

// DashboardState provides read-only access to dashboard state for the tray.
type DashboardState interface {
	HTTPPort() int
	Summary() Summary
	RunningTasks() []TaskInfo
	Refresh()
	RequestShutdown()
}

// Summary holds the headline numbers shown in the menu and tooltip.
type Summary struct {
	Online           bool
	ActiveSessions   int
	RunningSubagents int
	LastActivity     string
}

// TaskInfo describes a running sub-agent task for display in the tray menu.
type TaskInfo struct {
	SessionKey string
	Task       string
}
