// Package main is the entry point for the missioncontrol CLI and dashboard.
package main

import (
	"os"

	"github.com/clawd-ops/missioncontrol/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
