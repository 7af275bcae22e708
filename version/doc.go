// Package version reports the xlsdigest version and build metadata.
//
// Version information comes from, in order of preference:
//   - Compile-time variables (Version, Commit, Date) set via -ldflags
//   - Runtime build info from debug.ReadBuildInfo()
//   - Fallback defaults for development builds
//
// Release builds set them with:
//
//	-ldflags "-X github.com/dendrascience/xlsdigest/version.Version=v1.0.0 -X github.com/dendrascience/xlsdigest/version.Commit=abc123 -X github.com/dendrascience/xlsdigest/version.Date=2025-01-01T00:00:00Z"
//
// The version is shown by --version and recorded in every run summary.
package version
