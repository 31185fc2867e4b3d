package statefile

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	readErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "missioncontrol_statefile_read_errors_total",
		Help: "Unexpected I/O failures while reading state files",
	}, []string{"file"})

	malformedRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "missioncontrol_statefile_malformed_total",
		Help: "Snapshots or log lines that failed to parse",
	}, []string{"file"})
)

// metricLabel keeps per-session history files from each getting a series.
func metricLabel(name string) string {
	if strings.HasPrefix(name, "history_") {
		return "history"
	}
	return name
}
