// Package version holds build metadata injected at link time via -ldflags.
package version

// Set by goreleaser / make via:
//
//	-ldflags "-X github.com/simkit/sim-cli/internal/version.Version=v0.3.0 ..."
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns a human-readable version line.
func String() string {
	return Version + " (" + Commit + ", " + Date + ")"
}
