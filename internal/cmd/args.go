package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dendrascience/xlsdigest/manifest"
)

// Usage is appended to argument errors.
const Usage = "usage: xlsdigest DIRECTORY (an absolute, relative or UNC directory path; quote it if it contains spaces)"

// ErrInvalidArgument marks errors in the command line arguments.
var ErrInvalidArgument = errors.New("invalid argument")

func argError(format string, args ...any) error {
	return fmt.Errorf("%w: %s\n%s", ErrInvalidArgument, fmt.Sprintf(format, args...), Usage)
}

// resolveDirectory validates a directory argument and returns it as a
// cleaned absolute path.
func resolveDirectory(arg string) (string, error) {
	if strings.TrimSpace(arg) == "" {
		return "", argError("the directory argument is empty or blank")
	}
	dir, err := filepath.Abs(arg)
	if err != nil {
		return "", argError("cannot resolve %q: %v", arg, err)
	}
	if vol := filepath.VolumeName(dir); vol != "" {
		if _, err := os.Stat(vol + string(filepath.Separator)); err != nil {
			return "", argError("cannot reach the root of %s, check permissions or the network: %v", dir, err)
		}
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", argError("cannot access %s, check permissions or the network: %v", dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s: %w\n%s", ErrInvalidArgument, dir, manifest.ErrExpectedDirectory, Usage)
	}
	return dir, nil
}
