// Package version exposes the nxplus build metadata.
package version

import (
	"fmt"
	"runtime"
)

// Build-time variables injected via -ldflags, e.g.
// -X github.com/nxplus/nxplus/pkg/version.Version=v0.2.0
var (
	Version = "v0.1.0-dev"
	Commit  = "none"
	Date    = "unknown"
)

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// GetFullVersion returns the version with commit, build date and the Go
// toolchain that built the binary.
func GetFullVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s, %s)", Version, Commit, Date, runtime.Version())
}
