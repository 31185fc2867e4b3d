package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/clawd-ops/missioncontrol/internal/dashboard"
	"github.com/clawd-ops/missioncontrol/internal/log"
)

const maxTaskSlots = 10

var (
	state      DashboardState
	onStart    func()
	onExit     func()
	statusItem *systray.MenuItem
	portItem   *systray.MenuItem

	// Pre-allocated running-task menu slots
	taskSlots   [maxTaskSlots]*systray.MenuItem
	noTasksItem *systray.MenuItem
	refreshItem *systray.MenuItem
	quitItem    *systray.MenuItem

	readyMu sync.Mutex
	ready   bool
)

// Run starts the system tray. This blocks the calling goroutine (must be main).
// onStartFn is called when the tray is ready (start serving here).
// onExitFn is called when the tray exits (cleanup here).
func Run(s DashboardState, onStartFn, onExitFn func()) {
	state = s
	onStart = onStartFn
	onExit = onExitFn
	systray.Run(onReady, onQuit)
}

// Quit signals the tray to exit.
func Quit() {
	systray.Quit()
}

func onReady() {
	systray.SetTemplateIcon(iconData, iconData)
	systray.SetTooltip("Mission Control")

	header := systray.AddMenuItem("Mission Control", "")
	header.Disable()

	statusItem = systray.AddMenuItem("Loading...", "")
	statusItem.Disable()

	portItem = systray.AddMenuItem("Starting...", "")
	portItem.Disable()

	systray.AddSeparator()

	for i := 0; i < maxTaskSlots; i++ {
		taskSlots[i] = systray.AddMenuItem("", "")
		taskSlots[i].Disable()
		taskSlots[i].Hide()
	}
	noTasksItem = systray.AddMenuItem("No running sub-agents", "")
	noTasksItem.Disable()

	systray.AddSeparator()

	refreshItem = systray.AddMenuItem("Refresh", "Re-read the agent's state files")
	quitItem = systray.AddMenuItem("Quit", "Shut down the Mission Control daemon")

	if onStart != nil {
		onStart()
	}

	readyMu.Lock()
	ready = true
	readyMu.Unlock()

	if state != nil {
		portItem.SetTitle(fmt.Sprintf("API on port %d", state.HTTPPort()))
		Update()
	}

	go handleClicks()
}

func onQuit() {
	if onExit != nil {
		onExit()
	}
}

func handleClicks() {
	for {
		select {
		case <-refreshItem.ClickedCh:
			if state != nil {
				state.Refresh()
				Update()
			}
		case <-quitItem.ClickedCh:
			if state != nil {
				state.RequestShutdown()
			}
		}
	}
}

// Update re-reads the dashboard state into the menu and tooltip. It is a
// no-op until the tray is ready.
func Update() {
	readyMu.Lock()
	isReady := ready
	readyMu.Unlock()
	if !isReady || state == nil {
		return
	}

	summary := state.Summary()
	statusItem.SetTitle(formatStatus(summary))
	systray.SetTooltip(formatTooltip(summary))

	tasks := state.RunningTasks()
	for i := 0; i < maxTaskSlots; i++ {
		taskSlots[i].Hide()
	}
	if len(tasks) == 0 {
		noTasksItem.Show()
		return
	}
	noTasksItem.Hide()
	for i, task := range tasks {
		if i >= maxTaskSlots {
			log.Debug().Int("running", len(tasks)).Msg("more running tasks than tray slots")
			break
		}
		taskSlots[i].SetTitle(formatTaskTitle(task))
		taskSlots[i].Show()
	}
}

func formatStatus(s Summary) string {
	if !s.Online {
		return "○ Offline"
	}
	if s.LastActivity == "" {
		return "● Online"
	}
	return fmt.Sprintf("● Online, active %s", s.LastActivity)
}

func formatTooltip(s Summary) string {
	return fmt.Sprintf("Mission Control: %d active sessions, %d sub-agents running", s.ActiveSessions, s.RunningSubagents)
}

func formatTaskTitle(t TaskInfo) string {
	title := t.Task
	if title == "" {
		title = "Unknown task"
	}
	return fmt.Sprintf("◐ %s (%s)", dashboard.Truncate(title, 48), t.SessionKey)
}
