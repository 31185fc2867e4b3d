package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/clawd-ops/missioncontrol/internal/models"
)

func TestLoadSettingsDefaults(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())
	t.Setenv(WorkspaceEnv, "")
	t.Setenv(LogLevelEnv, "")

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if s.Workspace != "/root/clawd" || s.CacheTTL != 5*time.Second || s.RefreshInterval != 30*time.Second {
		t.Errorf("LoadSettings() = %+v, want defaults", s)
	}
}

func TestLoadSettingsPartialFileKeepsDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnv, home)
	t.Setenv(WorkspaceEnv, "")
	t.Setenv(LogLevelEnv, "")

	content := "workspace: /srv/agent\ncache_ttl: 2s\n"
	if err := os.WriteFile(filepath.Join(home, SettingsFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if s.Workspace != "/srv/agent" || s.CacheTTL != 2*time.Second {
		t.Errorf("LoadSettings() = %+v, want file values", s)
	}
	if s.StateDir != "memory/dashboard" || s.Server.HTTPPort != 7420 {
		t.Errorf("LoadSettings() lost defaults: %+v", s)
	}
}

func TestLoadSettingsEnvOverride(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())
	t.Setenv(WorkspaceEnv, "/data/ws")
	t.Setenv(LogLevelEnv, "DEBUG")

	s, err := LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if s.Workspace != "/data/ws" || s.LogLevel != "debug" {
		t.Errorf("LoadSettings() = workspace %q level %q, want env values", s.Workspace, s.LogLevel)
	}
}

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.Settings)
		wantErr string
	}{
		{"defaults", func(*models.Settings) {}, ""},
		{"ttl too short", func(s *models.Settings) { s.CacheTTL = 10 * time.Millisecond }, "CacheTTL"},
		{"ttl too long", func(s *models.Settings) { s.CacheTTL = time.Hour }, "CacheTTL"},
		{"no workspace", func(s *models.Settings) { s.Workspace = "" }, "Workspace"},
		{"bad port", func(s *models.Settings) { s.Server.HTTPPort = 70000 }, "HTTPPort"},
		{"bad level", func(s *models.Settings) { s.LogLevel = "chatty" }, "LogLevel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := models.NewSettings()
			tt.mutate(s)
			err := ValidateSettings(s)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateSettings() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateSettings() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestStateRoots(t *testing.T) {
	s := models.NewSettings()
	got := StateRoots(s)
	want := []string{"/root/clawd/memory/dashboard", "data"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("StateRoots() = %v, want %v", got, want)
	}

	s.StateDir = "/var/state"
	s.FallbackRoot = ""
	if got := StateRoots(s); len(got) != 1 || got[0] != "/var/state" {
		t.Errorf("StateRoots(absolute) = %v, want [/var/state]", got)
	}
}

func TestDaemonInfoRoundTrip(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())

	if info, err := LoadDaemonInfo(); err != nil || info != nil {
		t.Fatalf("LoadDaemonInfo() = %v, %v, want nil, nil", info, err)
	}

	info := models.NewDaemonInfo("127.0.0.1", 7420, 7421, os.Getpid())
	if err := SaveDaemonInfo(info); err != nil {
		t.Fatal(err)
	}
	running, got, err := IsDaemonRunning()
	if err != nil || !running {
		t.Fatalf("IsDaemonRunning() = %v, %v, want true for own pid", running, err)
	}
	if got.InstanceID != info.InstanceID || got.GRPCPort != 7421 {
		t.Errorf("LoadDaemonInfo() = %+v, want %+v", got, info)
	}

	if err := RemoveDaemonInfo(); err != nil {
		t.Fatal(err)
	}
	if running, _, _ := IsDaemonRunning(); running {
		t.Error("IsDaemonRunning() after remove = true")
	}
}

func TestIsDaemonRunningRemovesStaleRecord(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())

	info := models.NewDaemonInfo("127.0.0.1", 7420, 7421, 0)
	if err := SaveDaemonInfo(info); err != nil {
		t.Fatal(err)
	}
	running, got, err := IsDaemonRunning()
	if err != nil || running || got == nil {
		t.Fatalf("IsDaemonRunning() = %v, %v, %v; want false with the stale record", running, got, err)
	}
	path, _ := GlobalDaemonFile()
	if FileExists(path) {
		t.Error("stale daemon.yaml was not removed")
	}
}
