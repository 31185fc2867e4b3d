package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/clawd-ops/missioncontrol/internal/config"
	"github.com/clawd-ops/missioncontrol/internal/models"
)

const daemonBinary = "missioncontrold"

// daemonWait bounds how long start and stop wait for daemon.yaml to change.
const daemonWait = 5 * time.Second

// waitForDaemon polls daemon.yaml until the daemon's liveness equals want.
func waitForDaemon(want bool, timeout time.Duration) (*models.DaemonInfo, bool) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		time.Sleep(100 * time.Millisecond)
		running, info, err := config.IsDaemonRunning()
		if err == nil && running == want {
			return info, true
		}
	}
	return nil, false
}

// startDaemon launches missioncontrold detached and waits for it to
// register. The global flags that change what it reads are forwarded.
func startDaemon() (*models.DaemonInfo, error) {
	path, err := findDaemonBinary()
	if err != nil {
		return nil, err
	}

	var args []string
	if workspace != "" {
		args = append(args, "--workspace", workspace)
	}
	if cacheTTL > 0 {
		args = append(args, "--ttl", cacheTTL.String())
	}

	proc := exec.Command(path, args...)
	if err := proc.Start(); err != nil {
		return nil, fmt.Errorf("failed to start daemon: %w", err)
	}
	// The daemon outlives us; don't leave a zombie if it exits early.
	go func() { _ = proc.Wait() }()

	info, ok := waitForDaemon(true, daemonWait)
	if !ok {
		return nil, fmt.Errorf("daemon did not register within %s", daemonWait)
	}
	return info, nil
}

// stopDaemon sends SIGTERM and waits for the daemon to deregister.
func stopDaemon(info *models.DaemonInfo) error {
	process, err := os.FindProcess(info.PID)
	if err != nil {
		return fmt.Errorf("failed to find daemon process: %w", err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to send stop signal: %w", err)
	}
	if _, ok := waitForDaemon(false, daemonWait); !ok {
		return fmt.Errorf("daemon did not stop within %s", daemonWait)
	}
	return nil
}

// findDaemonBinary looks on PATH, then beside this executable, then in
// ./build for a development checkout.
func findDaemonBinary() (string, error) {
	if path, err := exec.LookPath(daemonBinary); err == nil {
		return path, nil
	}

	candidates := []string{filepath.Join("build", daemonBinary)}
	if self, err := os.Executable(); err == nil {
		candidates = append([]string{filepath.Join(filepath.Dir(self), daemonBinary)}, candidates...)
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("%s not found on PATH or next to %s", daemonBinary, os.Args[0])
}
