// Package version holds build metadata for the partialdocs binary.
package version

import "fmt"

// Name is the distribution name packaged documentation depends on.
const Name = "partialdocs"

// Version contains the application version information.
// This should be set via build-time ldflags in production:
// go build -ldflags "-X git.home.luguber.info/inful/partialdocs/internal/version.Version=1.2.0".
var Version = "0.0.0-dev"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version banner printed by --version.
func String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", Name, Version, GitCommit, BuildTime)
}

// SelfDependency is the requirement line added to packaged documentation so
// installing it pulls in a compatible partialdocs.
func SelfDependency() string {
	return Name + " >=" + Version
}
