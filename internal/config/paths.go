// Package config locates, loads and saves Mission Control's own files:
// settings.yaml, the daemon record and log files. The agent's state files
// are located through StateRoots.
package config

import (
	"os"
	"path/filepath"
)

const (
	// GlobalDirName is created under the user's home directory.
	GlobalDirName = ".missioncontrol"
	// HomeEnv relocates the global directory.
	HomeEnv = "MISSIONCONTROL_HOME"

	LogsDirName      = "logs"
	DaemonFileName   = "daemon.yaml"
	SettingsFileName = "settings.yaml"
)

// GlobalDir returns $MISSIONCONTROL_HOME, or ~/.missioncontrol when unset.
func GlobalDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, GlobalDirName), nil
}

// globalPath joins elem onto the global directory.
func globalPath(elem ...string) (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{dir}, elem...)...), nil
}

func GlobalDaemonFile() (string, error)   { return globalPath(DaemonFileName) }
func GlobalSettingsFile() (string, error) { return globalPath(SettingsFileName) }
func GlobalLogsDir() (string, error)      { return globalPath(LogsDirName) }

func ensureDir(path string, err error) error {
	if err != nil {
		return err
	}
	return os.MkdirAll(path, 0o755)
}

// EnsureGlobalDir creates the global directory.
func EnsureGlobalDir() error { return ensureDir(GlobalDir()) }

// EnsureGlobalLogsDir creates the logs directory under it.
func EnsureGlobalLogsDir() error { return ensureDir(GlobalLogsDir()) }
