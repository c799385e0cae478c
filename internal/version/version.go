// Package version holds build metadata for the CityOps binaries.
// Values are injected with -ldflags "-X github.com/cityops-io/cityops-ce/internal/version.Version=...".
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the release tag, or the branch name for untagged builds.
	Version = "dev"

	GitCommit = "unknown"

	BuildDate = "unknown"
)

// Info is the JSON form reported by the CLI and the health endpoint.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// GetInfo returns the current build info.
func GetInfo() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
}

// Short returns just the version.
func Short() string {
	return Version
}

// Full returns e.g. "v1.2.0 (abc1234) built 2024-01-15 with go1.24.0".
func Full() string {
	return fmt.Sprintf("%s (%s) built %s with %s", Version, GitCommit, BuildDate, runtime.Version())
}
