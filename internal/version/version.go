// Package version reports build metadata, injected with -ldflags:
//
//	go build -ldflags "-X github.com/pysugar/quicktrans/internal/version.Version=v0.3.0" ./cmd/quicktrans
package version

var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// Info returns the build metadata as a map for JSON responses.
func Info() map[string]string {
	return map[string]string{
		"version":    Version,
		"commit":     Commit,
		"build_time": BuildTime,
	}
}
