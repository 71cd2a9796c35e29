// Package version carries the build metadata stamped into release binaries.
package version

import (
	"fmt"
	"runtime"
)

// Overridden by the release build via
// -ldflags "-X github.com/momai/momai/internal/version.Version=... (Commit, Date)".
// A plain `go build` reports a dev build.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info renders a one-line description of this build for the version command.
func Info() string {
	return fmt.Sprintf("momai %s (commit: %s, built: %s, %s/%s)",
		Version, short(Commit), Date, runtime.GOOS, runtime.GOARCH)
}

// short trims a full commit hash down to the usual 7-character form.
func short(s string) string {
	if len(s) > 7 {
		return s[:7]
	}
	return s
}
