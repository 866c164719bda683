// Package version holds build metadata, reported to the device
// registration endpoint and the CLI.
package version

import "fmt"

// Set at build time via -ldflags.
var (
	// Version is the semantic version of this build.
	Version = "0.1.0-dev"

	// Commit is the VCS revision of this build.
	Commit = "unknown"
)

// UserAgent returns the HTTP user agent for outbound calls.
func UserAgent() string {
	return fmt.Sprintf("aurum/%s", Version)
}
