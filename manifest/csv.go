package manifest

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// PathColumn is the header of the first manifest column.
const PathColumn = "fullname"

// CSVOptions controls how a ResultSet is rendered.
type CSVOptions struct {
	// Column is the header of the digest column, usually the algorithm name.
	Column string
	// CRLF terminates lines with \r\n instead of \n.
	CRLF bool
}

// FileOptions controls how a manifest file is written.
type FileOptions struct {
	CSVOptions
	// BOM prefixes the file with a UTF-8 byte order mark.
	BOM bool
	// Gzip compresses the output. It is implied by a .gz extension.
	Gzip bool
	// Zstd compresses the output with zstandard. It is implied by a .zst
	// extension and takes precedence over Gzip.
	Zstd bool
}

// DefaultOutputName returns the manifest file name for a run started at
// now, e.g. 20240131235959.csv.
func DefaultOutputName(now time.Time) string {
	return now.Format("20060102150405") + ".csv"
}

// WriteCSV writes rs to w with a header row. Every field is
// double-quoted and embedded quotes are doubled.
func WriteCSV(w io.Writer, rs *ResultSet, opts CSVOptions) error {
	column := opts.Column
	if column == "" {
		column = DefaultAlgorithm
	}
	eol := "\n"
	if opts.CRLF {
		eol = "\r\n"
	}

	bw := bufio.NewWriter(w)
	writeRow := func(fields ...string) error {
		for i, f := range fields {
			if i > 0 {
				if err := bw.WriteByte(','); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(quote(f)); err != nil {
				return err
			}
		}
		_, err := bw.WriteString(eol)
		return err
	}

	if err := writeRow(PathColumn, column); err != nil {
		return err
	}
	for r := range rs.Iterate {
		if err := writeRow(r.Path, r.Digest); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteFile writes rs as a manifest at path. The content goes to a
// temporary file in the same directory which is renamed over path only
// once it has been written and synced, so a failure never leaves a
// partial manifest behind.
func WriteFile(path string, rs *ResultSet, opts FileOptions) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	lower := strings.ToLower(path)
	var w io.Writer = tmp
	var compressor io.WriteCloser
	switch {
	case opts.Zstd || strings.HasSuffix(lower, ".zst"):
		enc, zerr := zstd.NewWriter(w)
		if zerr != nil {
			return zerr
		}
		compressor = enc
	case opts.Gzip || strings.HasSuffix(lower, ".gz"):
		gz := gzip.NewWriter(w)
		gz.Name = strings.TrimSuffix(filepath.Base(path), ".gz")
		compressor = gz
	}
	if compressor != nil {
		w = compressor
	}
	var bom *transform.Writer
	if opts.BOM {
		bom = transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
		w = bom
	}

	if err = WriteCSV(w, rs, opts.CSVOptions); err != nil {
		return err
	}
	if bom != nil {
		if err = bom.Close(); err != nil {
			return err
		}
	}
	if compressor != nil {
		if err = compressor.Close(); err != nil {
			return err
		}
	}
	if err = tmp.Chmod(0o644); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
