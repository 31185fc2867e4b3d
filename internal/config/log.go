package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// OpenLogFile opens ~/.missioncontrol/logs/<name>.log for appending. The TUI
// sends its logs here so they do not corrupt the screen.
func OpenLogFile(name string) (*os.File, error) {
	if err := EnsureGlobalLogsDir(); err != nil {
		return nil, fmt.Errorf("failed to ensure logs dir: %w", err)
	}
	dir, err := GlobalLogsDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, name+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return f, nil
}
