package manifest

import (
	"context"
	"iter"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the number of files hashed concurrently.
const DefaultWorkers = 4

// Observer receives pool events. Implementations must be safe for
// concurrent use.
type Observer interface {
	HashStarted(path string)
	HashFinished(path string, size int64, elapsed time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) HashStarted(string) {}

func (nopObserver) HashFinished(string, int64, time.Duration, error) {}

// Pool hashes files with a fixed number of workers.
type Pool struct {
	fs       afero.Fs
	alg      Algorithm
	workers  int
	log      *zap.Logger
	observer Observer
}

// NewPool creates a pool of workers hashing with alg. workers <= 0
// selects DefaultWorkers.
func NewPool(fsys afero.Fs, alg Algorithm, workers int, log *zap.Logger, observer Observer) *Pool {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if alg.New == nil {
		alg, _ = LookupAlgorithm(DefaultAlgorithm)
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if log == nil {
		log = zap.NewNop()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Pool{fs: fsys, alg: alg, workers: workers, log: log, observer: observer}
}

// Workers returns the concurrency limit of the pool.
func (p *Pool) Workers() int { return p.workers }

// Run hashes every entry of files and inserts the results into agg.
// Completion order is unspecified. The first error from the sequence, a
// worker or ctx stops the producer from pulling further entries and the
// workers from taking new jobs; Run returns that error once every
// goroutine has exited.
func (p *Pool) Run(ctx context.Context, files iter.Seq2[Entry, error], agg *Aggregator) error {
	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan Entry)

	g.Go(func() error {
		defer close(jobs)
		if err := ctx.Err(); err != nil {
			return err
		}
		for entry, err := range files {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			select {
			case jobs <- entry:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for range p.workers {
		g.Go(func() error {
			return p.work(ctx, jobs, agg)
		})
	}

	return g.Wait()
}

func (p *Pool) work(ctx context.Context, jobs <-chan Entry, agg *Aggregator) error {
	buf := make([]byte, copyBufferSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case entry, ok := <-jobs:
			if !ok {
				return ctx.Err()
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			digest, err := p.hash(entry, buf)
			if err != nil {
				return err
			}
			if err := agg.Insert(entry.Path, digest); err != nil {
				return err
			}
		}
	}
}

func (p *Pool) hash(entry Entry, buf []byte) (string, error) {
	p.observer.HashStarted(entry.Path)
	start := time.Now()
	digest, err := HashFile(p.fs, p.alg, entry.Path, buf)
	elapsed := time.Since(start)
	p.observer.HashFinished(entry.Path, entry.Size, elapsed, err)
	if err != nil {
		p.log.Error("hash failed", zap.String("path", entry.Path), zap.Error(err))
		return "", err
	}
	p.log.Debug("hashed file",
		zap.String("path", entry.Path),
		zap.String("digest", digest),
		zap.Duration("elapsed", elapsed),
	)
	return digest, nil
}
