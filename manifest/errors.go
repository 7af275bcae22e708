package manifest

import (
	"errors"
	"fmt"
)

// Sentinel errors for package manifest.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// File and directory errors
	ErrExpectedFile      = errors.New("expected file, got directory")
	ErrExpectedDirectory = errors.New("expected directory but got file")

	// Result set errors
	ErrNoFiles       = errors.New("no matching files found")
	ErrDuplicatePath = errors.New("path already present in result set")
	ErrSealed        = errors.New("result set already snapshotted")

	// Digest errors
	ErrUnknownAlgorithm = errors.New("unknown digest algorithm")
)

// DirectoryAccessError reports a directory that could not be listed.
// Whether it aborts the scan is decided by the enumerator's ErrorHandler.
type DirectoryAccessError struct {
	Dir string
	Err error
}

func (e *DirectoryAccessError) Error() string {
	return fmt.Sprintf("cannot list directory %s: %v", e.Dir, e.Err)
}

func (e *DirectoryAccessError) Unwrap() error { return e.Err }

// FileReadError reports a file that could not be opened or fully read
// while hashing. It always aborts the scan.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("cannot read file %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }
