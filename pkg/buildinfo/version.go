// Package buildinfo holds build-time version information injected via
// ldflags:
//
//	go build -ldflags "-X github.com/opdot/opdot/pkg/buildinfo.Version=v1.0.0"
package buildinfo

// Build metadata, overridden at build time.
var (
	// Version is the semantic version (e.g. "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)
