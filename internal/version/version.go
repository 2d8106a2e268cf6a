// Package version carries build metadata, set via -ldflags at build time.
package version

import "fmt"

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String returns the one-line form used by -version flags.
func String() string {
	return fmt.Sprintf("shaping %s (%s, built %s)", Version, GitSHA, BuildTime)
}
