// Package version provides build-time version information.
package version

import "fmt"

// Name is the application name shown in window titles and help output.
const Name = "Detailist"

// These variables are set at build time using -ldflags
var (
	// Version is the semantic version
	Version = "1.0.0"

	// BuildTime is the UTC time when the binary was built
	BuildTime = "unknown"

	// GitCommit is the git commit hash
	GitCommit = "unknown"
)

// String formats the version for --version output and the about dialog.
func String() string {
	s := fmt.Sprintf("%s %s", Name, Version)
	if GitCommit != "unknown" {
		s += fmt.Sprintf(" (%s, built %s)", GitCommit, BuildTime)
	}
	return s
}
