// Package version reports the build of the gocad binaries.
package version

import (
	"fmt"
	"runtime/debug"
)

// These variables are set via ldflags during build
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the version string
func GetVersion() string {
	return Version
}

// GetFullVersion returns the version with commit and build date. Without
// ldflags the commit recorded by the go tool is used when there is one.
func GetFullVersion() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate)
	}
	commit, modified := vcsCommit()
	switch {
	case commit == "":
		return "dev"
	case modified:
		return fmt.Sprintf("dev (commit %s, modified)", commit)
	default:
		return fmt.Sprintf("dev (commit %s)", commit)
	}
}

// vcsCommit returns the short revision stamped into the binary
func vcsCommit() (string, bool) {
	info, ok := readBuildInfo()
	if !ok {
		return "", false
	}
	var commit string
	var modified bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			commit = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return commit, modified
}
