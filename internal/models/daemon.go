package models

import (
	"time"

	"github.com/google/uuid"
)

// DaemonInfo is the running daemon's registration in daemon.yaml. The CLI
// reads it to find the gRPC endpoint.
type DaemonInfo struct {
	Version    int       `yaml:"version" json:"version"`
	InstanceID string    `yaml:"instance_id" json:"instance_id"`
	Host       string    `yaml:"host" json:"host"`
	HTTPPort   int       `yaml:"http_port" json:"http_port"`
	GRPCPort   int       `yaml:"grpc_port" json:"grpc_port"`
	PID        int       `yaml:"pid" json:"pid"`
	StartedAt  time.Time `yaml:"started_at" json:"started_at"`
}

// NewDaemonInfo registers a daemon started now under a fresh instance ID.
func NewDaemonInfo(host string, httpPort, grpcPort, pid int) *DaemonInfo {
	return &DaemonInfo{
		Version:    1,
		InstanceID: uuid.NewString(),
		Host:       host,
		HTTPPort:   httpPort,
		GRPCPort:   grpcPort,
		PID:        pid,
		StartedAt:  time.Now().UTC(),
	}
}
