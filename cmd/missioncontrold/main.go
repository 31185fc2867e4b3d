// Package main is the entry point for the missioncontrold daemon.
package main

import (
	"os"

	"github.com/clawd-ops/missioncontrol/internal/daemon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
