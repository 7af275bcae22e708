package version

import (
	"fmt"
	"io"
	"runtime/debug"
)

// Set by -ldflags; see the package documentation.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Package is the module name reported in Info.
const Package = "xlsdigest"

// Info contains version information
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	Package   string `json:"package"`
	GoVersion string `json:"go_version,omitempty"`
}

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// buildSetting returns a vcs.* setting recorded by the Go toolchain.
func buildSetting(key string) (string, bool) {
	info, ok := readBuildInfo()
	if !ok {
		return "", false
	}
	for _, s := range info.Settings {
		if s.Key == key && s.Value != "" {
			return s.Value, true
		}
	}
	return "", false
}

// GetVersion returns the -ldflags version, else the module version from
// the build info, else "development".
func GetVersion() string {
	if Version != "dev" && Version != "" {
		return Version
	}
	if info, ok := readBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return "development"
}

// GetCommit returns the git commit the binary was built from.
func GetCommit() string {
	if Commit != "unknown" && Commit != "" {
		return Commit
	}
	if v, ok := buildSetting("vcs.revision"); ok {
		return v
	}
	return "unknown"
}

// GetBuildDate returns the build or commit date.
func GetBuildDate() string {
	if Date != "unknown" && Date != "" {
		return Date
	}
	if v, ok := buildSetting("vcs.time"); ok {
		return v
	}
	return "unknown"
}

// GetInfo returns complete version information
func GetInfo() Info {
	info := Info{
		Version: GetVersion(),
		Commit:  GetCommit(),
		Date:    GetBuildDate(),
		Package: Package,
	}
	if bi, ok := readBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
	}
	return info
}

// GetFullVersion returns the version with the short commit and build
// date when they are known, e.g. "v1.2.0 (abc1234, built 2025-01-01)".
func GetFullVersion() string {
	info := GetInfo()
	if info.Commit == "unknown" || len(info.Commit) <= 7 {
		return info.Version
	}
	short := info.Commit[:7]
	if info.Date == "unknown" {
		return fmt.Sprintf("%s (%s)", info.Version, short)
	}
	return fmt.Sprintf("%s (%s, built %s)", info.Version, short, info.Date)
}

// Fprint writes human-readable version information to w.
func Fprint(w io.Writer) {
	info := GetInfo()
	fmt.Fprintf(w, "%s version %s\n", info.Package, GetFullVersion())
	fmt.Fprintf(w, "Commit: %s\n", info.Commit)
	fmt.Fprintf(w, "Build Date: %s\n", info.Date)
	if info.GoVersion != "" {
		fmt.Fprintf(w, "Go: %s\n", info.GoVersion)
	}
}
