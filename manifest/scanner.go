package manifest

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// DirectoryObserver is implemented by observers that also want to know
// about directory listing failures.
type DirectoryObserver interface {
	DirectoryError(dir string, suppressed bool)
}

// Options configures a Scanner. The zero value scans the OS filesystem
// for spreadsheet files with DefaultWorkers md5 workers and suppresses
// directory listing failures.
type Options struct {
	Fs         afero.Fs
	Workers    int
	Algorithm  Algorithm
	Matcher    Matcher
	OnDirError ErrorHandler
	Logger     *zap.Logger
	Observer   Observer
}

// Scanner composes the enumerator, the worker pool and the aggregator.
type Scanner struct {
	enum *Enumerator
	pool *Pool
	log  *zap.Logger
}

// NewScanner creates a scanner from opts.
func NewScanner(opts Options) *Scanner {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	onError := opts.OnDirError
	if onError == nil {
		onError = SuppressAll
	}
	if do, ok := opts.Observer.(DirectoryObserver); ok {
		handler := onError
		onError = func(dir string, err error) bool {
			suppressed := handler(dir, err)
			do.DirectoryError(dir, suppressed)
			return suppressed
		}
	}
	return &Scanner{
		enum: NewEnumerator(opts.Fs, opts.Matcher, onError, log),
		pool: NewPool(opts.Fs, opts.Algorithm, opts.Workers, log, opts.Observer),
		log:  log,
	}
}

// Algorithm returns the digest algorithm the scanner hashes with.
func (s *Scanner) Algorithm() Algorithm { return s.pool.alg }

// Exists reports whether dir holds at least one matching file.
func (s *Scanner) Exists(dir string) (bool, error) {
	return s.enum.Exists(dir)
}

// Count returns the number of matching files in dir.
func (s *Scanner) Count(dir string) (int, error) {
	return s.enum.Count(dir)
}

// ScanAndHash hashes every matching file of dir and returns the records
// ordered by path. If any file cannot be read, or the directory cannot be
// listed and the error handler does not suppress it, no ResultSet is
// returned. An empty ResultSet is a valid outcome; see ResultSet.Empty.
func (s *Scanner) ScanAndHash(ctx context.Context, dir string) (*ResultSet, error) {
	agg := NewAggregator()
	s.log.Debug("scanning directory",
		zap.String("dir", dir),
		zap.String("algorithm", s.pool.alg.Name),
		zap.Int("workers", s.pool.workers),
	)
	if err := s.pool.Run(ctx, s.enum.Files(dir), agg); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	return agg.Snapshot(), nil
}
