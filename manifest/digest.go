package manifest

import (
	"crypto/md5"
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"github.com/zeebo/blake3"
	"github.com/zeebo/xxh3"
)

// DefaultAlgorithm is the digest written to manifests unless configured
// otherwise. The CSV header column carries its name.
const DefaultAlgorithm = "md5"

// copyBufferSize is the size of the per-worker read buffer.
const copyBufferSize = 64 * 1024

// Algorithm names a streaming digest and how to construct it.
type Algorithm struct {
	Name string
	New  func() hash.Hash
}

var algorithms = map[string]Algorithm{
	"md5":    {Name: "md5", New: md5.New},
	"sha256": {Name: "sha256", New: sha256.New},
	"blake3": {Name: "blake3", New: func() hash.Hash { return blake3.New() }},
	"xxh3":   {Name: "xxh3", New: func() hash.Hash { return &xxh3Sum128{xxh3.New()} }},
}

// xxh3Sum128 exposes the 128-bit xxh3 digest through hash.Hash so it
// renders as 32 hex characters like md5.
type xxh3Sum128 struct {
	*xxh3.Hasher
}

func (h *xxh3Sum128) Size() int { return 16 }

func (h *xxh3Sum128) Sum(b []byte) []byte {
	sum := h.Sum128().Bytes()
	return append(b, sum[:]...)
}

// LookupAlgorithm returns the registered algorithm with the given name.
// Names are matched case-insensitively.
func LookupAlgorithm(name string) (Algorithm, error) {
	alg, ok := algorithms[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Algorithm{}, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	return alg, nil
}

// Algorithms lists the registered algorithm names in sorted order.
func Algorithms() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// HashReader streams r through the algorithm and returns the digest as
// uppercase hexadecimal. buf is used as the copy buffer when non-nil.
func HashReader(alg Algorithm, r io.Reader, buf []byte) (string, error) {
	h := alg.New()
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("%X", h.Sum(nil)), nil
}

// HashFile opens path on fsys and returns its digest. Any open or read
// failure is returned as a *FileReadError. The file is closed before
// returning in every case.
func HashFile(fsys afero.Fs, alg Algorithm, path string, buf []byte) (digest string, err error) {
	f, err := fsys.Open(path)
	if err != nil {
		return "", &FileReadError{Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &FileReadError{Path: path, Err: cerr}
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return "", &FileReadError{Path: path, Err: err}
	}
	if info.IsDir() {
		return "", &FileReadError{Path: path, Err: ErrExpectedFile}
	}

	digest, err = HashReader(alg, f, buf)
	if err != nil {
		return "", &FileReadError{Path: path, Err: err}
	}
	return digest, nil
}
