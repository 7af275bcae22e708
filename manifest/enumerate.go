package manifest

import (
	"errors"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// readdirBatch bounds how many directory entries are held in memory
// between pulls from the sequence.
const readdirBatch = 256

// Entry is a file discovered by the enumerator.
type Entry struct {
	Path string
	Size int64
}

// Matcher reports whether a file name belongs in the manifest.
type Matcher func(name string) bool

// ErrorHandler decides what happens when a directory cannot be listed.
// Returning true suppresses the error and the directory contributes no
// further entries; returning false aborts the enumeration with err.
type ErrorHandler func(dir string, err error) bool

// SuppressAll is the ErrorHandler used when none is configured.
func SuppressAll(string, error) bool { return true }

// AbortAll is an ErrorHandler that never suppresses.
func AbortAll(string, error) bool { return false }

// SpreadsheetMatcher matches names whose extension starts with ".xls",
// ignoring case: .xls, .xlsx, .xlsm, .xlsb and so on.
func SpreadsheetMatcher(name string) bool {
	return strings.HasPrefix(strings.ToLower(filepath.Ext(name)), ".xls")
}

// GlobMatcher returns a case-insensitive filepath.Match matcher. The
// pattern is validated up front so a bad pattern fails before scanning.
func GlobMatcher(pattern string) (Matcher, error) {
	lower := strings.ToLower(pattern)
	if _, err := filepath.Match(lower, ""); err != nil {
		return nil, err
	}
	return func(name string) bool {
		ok, _ := filepath.Match(lower, strings.ToLower(name))
		return ok
	}, nil
}

// Enumerator lists the matching files of a single directory level.
type Enumerator struct {
	fs      afero.Fs
	match   Matcher
	onError ErrorHandler
	log     *zap.Logger
}

// NewEnumerator creates an enumerator over fsys. A nil match selects
// spreadsheet files; a nil onError suppresses every listing failure.
func NewEnumerator(fsys afero.Fs, match Matcher, onError ErrorHandler, log *zap.Logger) *Enumerator {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if match == nil {
		match = SpreadsheetMatcher
	}
	if onError == nil {
		onError = SuppressAll
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Enumerator{fs: fsys, match: match, onError: onError, log: log}
}

// Files returns a lazy sequence of the regular files in dir accepted by
// the matcher. The directory is read in batches as the sequence is
// pulled. Subdirectories are skipped and never descended. A symlink is
// kept when it resolves to a regular file; dangling links and links to
// directories are skipped.
//
// A listing failure is offered to the ErrorHandler as a
// *DirectoryAccessError. If it is not suppressed the sequence yields the
// error once and ends.
func (e *Enumerator) Files(dir string) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		d, err := e.fs.Open(dir)
		if err != nil {
			e.fail(dir, err, yield)
			return
		}
		defer d.Close()

		for {
			infos, err := d.Readdir(readdirBatch)
			for _, info := range infos {
				if !e.match(info.Name()) {
					continue
				}
				path := filepath.Join(dir, info.Name())
				if info.Mode()&os.ModeSymlink != 0 {
					target, err := e.fs.Stat(path)
					if err != nil {
						e.log.Debug("skipping unresolvable symlink", zap.String("path", path), zap.Error(err))
						continue
					}
					info = target
				}
				if !info.Mode().IsRegular() {
					continue
				}
				entry := Entry{Path: path, Size: info.Size()}
				if !yield(entry, nil) {
					return
				}
			}
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				e.fail(dir, err, yield)
				return
			}
			if len(infos) == 0 {
				return
			}
		}
	}
}

func (e *Enumerator) fail(dir string, err error, yield func(Entry, error) bool) {
	dae := &DirectoryAccessError{Dir: dir, Err: err}
	if e.onError(dir, dae) {
		e.log.Warn("skipping inaccessible directory", zap.String("dir", dir), zap.Error(err))
		return
	}
	yield(Entry{}, dae)
}

// Exists reports whether dir holds at least one matching file. Only the
// first entry of the sequence is pulled.
func (e *Enumerator) Exists(dir string) (bool, error) {
	for _, err := range e.Files(dir) {
		if err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// Count returns the number of matching files in dir.
func (e *Enumerator) Count(dir string) (int, error) {
	count := 0
	for _, err := range e.Files(dir) {
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
