// Package version exposes build metadata injected via ldflags:
//
//	go build -ldflags "-X github.com/klinefeld/tradedesk/internal/version.Version=0.3.0 \
//	                   -X github.com/klinefeld/tradedesk/internal/version.Commit=$(git rev-parse --short HEAD)"
package version

var (
	// Version is the semantic version of this build.
	Version = "dev"

	// Commit is the short git commit hash.
	Commit = "unknown"
)

// String returns "version (commit)".
func String() string {
	return Version + " (" + Commit + ")"
}
