// Package version provides build-time version information.
//
// Variables are set at build time via ldflags:
//
//	go build -ldflags "-X github.com/rickgao/market-risk-monitor/internal/version.Version=1.1 \
//	                   -X github.com/rickgao/market-risk-monitor/internal/version.Commit=$(git rev-parse --short HEAD)"
package version

// Name identifies the client to upstream APIs.
const Name = "market-risk-monitor"

// Build-time variables (set via ldflags)
var (
	Version = "1.0"
	Commit  = "unknown"
)

// UserAgent returns the User-Agent header value, e.g. "market-risk-monitor/1.0".
func UserAgent() string {
	return Name + "/" + Version
}

// String returns a formatted version string.
func String() string {
	return Name + " " + Version + " (" + Commit + ")"
}
