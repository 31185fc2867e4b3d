// Package buildinfo carries the release identity stamped in with -ldflags -X.
package buildinfo

var (
	Version    = "dev"
	Codename   = "unknown"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// Info is the build identity as reported by /healthz.
type Info struct {
	Version  string `json:"version"`
	Codename string `json:"codename"`
	Commit   string `json:"commit"`
	Built    string `json:"built"`
}

// Get returns the stamped build identity.
func Get() Info {
	return Info{Version: Version, Codename: Codename, Commit: CommitHash, Built: BuildDate}
}
