package manifest

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

type (
	// FileRecord is the digest of one hashed file.
	FileRecord struct {
		Path   string `json:"path"`   // full path of the file as enumerated
		Digest string `json:"digest"` // uppercase hex digest of the file content
	}
	// ResultSet is an immutable set of records ordered by path.
	ResultSet struct {
		records []FileRecord
	}
)

// Aggregator collects records from concurrent workers. Insert may be
// called from any goroutine; Snapshot is called once the workers have
// finished.
type Aggregator struct {
	mu      sync.Mutex
	records []FileRecord
	seen    map[string]struct{}
	sealed  bool
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{seen: make(map[string]struct{})}
}

// Insert adds a record. A path can only be inserted once; a second
// insert means the enumerator yielded a file twice and is reported as
// ErrDuplicatePath.
func (a *Aggregator) Insert(path, digest string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sealed {
		return ErrSealed
	}
	if _, ok := a.seen[path]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicatePath, path)
	}
	a.seen[path] = struct{}{}
	a.records = append(a.records, FileRecord{Path: path, Digest: digest})
	return nil
}

// Len returns the number of records inserted so far.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records)
}

// Snapshot seals the aggregator and returns its records sorted by path
// using byte-wise comparison. Later inserts fail with ErrSealed.
func (a *Aggregator) Snapshot() *ResultSet {
	a.mu.Lock()
	a.sealed = true
	records := slices.Clone(a.records)
	a.mu.Unlock()

	slices.SortFunc(records, func(x, y FileRecord) int {
		return strings.Compare(x.Path, y.Path)
	})
	return &ResultSet{records: records}
}

// Len returns the number of records.
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.records)
}

// Empty reports whether no file was hashed.
func (rs *ResultSet) Empty() bool {
	return rs.Len() == 0
}

// Iterate yields the records in path order.
func (rs *ResultSet) Iterate(yield func(FileRecord) bool) {
	if rs == nil {
		return
	}
	for _, r := range rs.records {
		if !yield(r) {
			return
		}
	}
}

// Records returns a copy of the records in path order.
func (rs *ResultSet) Records() []FileRecord {
	if rs == nil {
		return nil
	}
	return slices.Clone(rs.records)
}

// Lookup returns the digest recorded for path.
func (rs *ResultSet) Lookup(path string) (string, bool) {
	if rs == nil {
		return "", false
	}
	i, ok := slices.BinarySearchFunc(rs.records, path, func(r FileRecord, p string) int {
		return strings.Compare(r.Path, p)
	})
	if !ok {
		return "", false
	}
	return rs.records[i].Digest, true
}
