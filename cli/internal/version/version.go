// Package version carries the CLI version, overridden at build time via
// -ldflags.
package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// Short is the one-line form shown by --version.
func Short() string {
	return fmt.Sprintf("tinypb %s (%s, %s/%s)", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Long is the multi-line form shown by the version command.
func Long() string {
	return fmt.Sprintf("tinypb %s\nGit Commit: %s\nGo Version: %s\nPlatform: %s/%s",
		Version, GitCommit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
