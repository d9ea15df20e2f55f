// Package version provides build-time version information for the PhoneDex binary.
// Variables are injected at build time via ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Service is the name reported by the health endpoint and the MCP server.
const Service = "phonedex"

// Build-time variables injected via ldflags, e.g.
// -X github.com/HerbHall/phonedex/internal/version.Version=1.2.0
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns a formatted version string suitable for the version command.
func Info() string {
	return fmt.Sprintf("PhoneDex %s (commit: %s, built: %s, go: %s, %s/%s)",
		Version, GitCommit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Short returns just the version string (e.g., "0.1.0" or "dev").
func Short() string {
	return Version
}

// Map returns version info as a map for JSON serialization.
func Map() map[string]string {
	return map[string]string{
		"service":    Service,
		"version":    Version,
		"git_commit": GitCommit,
		"build_date": BuildDate,
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
	}
}
