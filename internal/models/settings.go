package models

import "time"

// ServerConfig holds the daemon's listener settings.
type ServerConfig struct {
	Host     string `yaml:"host" validate:"required"`
	HTTPPort int    `yaml:"http_port" validate:"gte=0,lte=65535"`
	GRPCPort int    `yaml:"grpc_port" validate:"gte=0,lte=65535"`
	// RefreshPerMinute bounds manual cache invalidations from remote clients.
	RefreshPerMinute int `yaml:"refresh_per_minute" validate:"gte=1"`
}

// Settings represents the dashboard settings.
// This corresponds to ~/.missioncontrol/settings.yaml.
type Settings struct {
	Version         int           `yaml:"version"`
	Workspace       string        `yaml:"workspace" validate:"required"`
	StateDir        string        `yaml:"state_dir" validate:"required"`
	FallbackRoot    string        `yaml:"fallback_root"`
	CacheTTL        time.Duration `yaml:"cache_ttl" validate:"min=1s,max=1m"`
	RefreshInterval time.Duration `yaml:"refresh_interval" validate:"min=1s"`
	LogLevel        string        `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	Server          ServerConfig  `yaml:"server"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version:         1,
		Workspace:       "/root/clawd",
		StateDir:        "memory/dashboard",
		FallbackRoot:    "data",
		CacheTTL:        5 * time.Second,
		RefreshInterval: 30 * time.Second,
		LogLevel:        "info",
		Server: ServerConfig{
			Host:             "127.0.0.1",
			HTTPPort:         7420,
			GRPCPort:         7421,
			RefreshPerMinute: 12,
		},
	}
}
