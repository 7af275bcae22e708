package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, e *Enumerator, dir string) ([]string, error) {
	t.Helper()
	var paths []string
	for entry, err := range e.Files(dir) {
		if err != nil {
			return paths, err
		}
		paths = append(paths, entry.Path)
	}
	slices.Sort(paths)
	return paths, nil
}

func TestSpreadsheetMatcher(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"book.xls", true},
		{"book.xlsx", true},
		{"book.xlsm", true},
		{"BOOK.XLSB", true},
		{"Report.Xlsx", true},
		{"book.xl", false},
		{"book.csv", false},
		{"xls", false},
		{"book.xls.bak", false},
		{"archive.xlsx.zip", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SpreadsheetMatcher(tt.name))
		})
	}
}

func TestGlobMatcher(t *testing.T) {
	m, err := GlobMatcher("*.XLS?")
	require.NoError(t, err)
	assert.True(t, m("a.xlsx"))
	assert.True(t, m("A.XLSM"))
	assert.False(t, m("a.xls"), "? requires exactly one character")
	assert.False(t, m("a.csv"))

	_, err = GlobMatcher("[")
	assert.Error(t, err)
}

func TestEnumerator_SingleLevelOnly(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, "/data", map[string]string{
		"a.xlsx":     "hello",
		"b.xls":      "world",
		"notes.txt":  "skip",
		"macro.XLSM": "upper",
	})
	writeFiles(t, fsys, "/data/nested", map[string]string{
		"deep.xlsx": "not scanned",
	})
	require.NoError(t, fsys.MkdirAll("/data/folder.xlsx", 0o755))

	e := NewEnumerator(fsys, nil, nil, nil)
	paths, err := collect(t, e, "/data")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("/data", "a.xlsx"),
		filepath.Join("/data", "b.xls"),
		filepath.Join("/data", "macro.XLSM"),
	}, paths)
}

func TestEnumerator_ReportsSize(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, "/data", map[string]string{"a.xlsx": "hello"})

	e := NewEnumerator(fsys, nil, nil, nil)
	for entry, err := range e.Files("/data") {
		require.NoError(t, err)
		assert.Equal(t, int64(5), entry.Size)
	}
}

func TestEnumerator_IsLazy(t *testing.T) {
	base := afero.NewMemMapFs()
	files := make(map[string]string)
	for i := range readdirBatch * 3 {
		files[fmt.Sprintf("f%04d.xlsx", i)] = "x"
	}
	writeFiles(t, base, "/big", files)
	fsys := newFaultFs(base)

	e := NewEnumerator(fsys, nil, nil, nil)
	for _, err := range e.Files("/big") {
		require.NoError(t, err)
		break
	}
	assert.Equal(t, 1, fsys.listings(), "only the first batch should be read")

	count, err := e.Count("/big")
	require.NoError(t, err)
	assert.Equal(t, readdirBatch*3, count)
}

func TestEnumerator_OpenFailure(t *testing.T) {
	denied := errors.New("permission denied")

	tests := []struct {
		name    string
		handler ErrorHandler
		wantErr bool
	}{
		{name: "nil handler suppresses", handler: nil, wantErr: false},
		{name: "handler suppresses", handler: SuppressAll, wantErr: false},
		{name: "handler aborts", handler: AbortAll, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := newFaultFs(afero.NewMemMapFs())
			fsys.openErr["/locked"] = denied

			e := NewEnumerator(fsys, nil, tt.handler, nil)
			paths, err := collect(t, e, "/locked")
			assert.Empty(t, paths)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var dae *DirectoryAccessError
			require.ErrorAs(t, err, &dae)
			assert.Equal(t, "/locked", dae.Dir)
			assert.ErrorIs(t, err, denied)
		})
	}
}

func TestEnumerator_HandlerReceivesDirectoryAndError(t *testing.T) {
	fsys := afero.NewMemMapFs()

	var gotDir string
	var gotErr error
	e := NewEnumerator(fsys, nil, func(dir string, err error) bool {
		gotDir, gotErr = dir, err
		return true
	}, nil)

	paths, err := collect(t, e, "/missing")
	require.NoError(t, err)
	assert.Empty(t, paths)
	assert.Equal(t, "/missing", gotDir)
	assert.ErrorIs(t, gotErr, os.ErrNotExist)
}

func TestEnumerator_ListingFailsPartway(t *testing.T) {
	ioErr := errors.New("input/output error")

	base := afero.NewMemMapFs()
	writeFiles(t, base, "/flaky", map[string]string{"a.xlsx": "a", "b.xlsx": "b"})

	t.Run("suppressed keeps what was listed", func(t *testing.T) {
		fsys := newFaultFs(base)
		fsys.readdirErr["/flaky"] = ioErr

		e := NewEnumerator(fsys, nil, SuppressAll, nil)
		paths, err := collect(t, e, "/flaky")
		require.NoError(t, err)
		assert.Len(t, paths, 2)
	})

	t.Run("abort propagates", func(t *testing.T) {
		fsys := newFaultFs(base)
		fsys.readdirErr["/flaky"] = ioErr

		e := NewEnumerator(fsys, nil, AbortAll, nil)
		_, err := collect(t, e, "/flaky")
		assert.ErrorIs(t, err, ioErr)
	})
}

func TestEnumerator_Exists(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, "/full", map[string]string{"a.xlsx": "a"})
	writeFiles(t, fsys, "/other", map[string]string{"a.docx": "a"})

	e := NewEnumerator(fsys, nil, nil, nil)

	ok, err := e.Exists("/full")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Exists("/other")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEnumerator_FollowsSymlinksToFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(t.TempDir(), "real.xlsx")
	require.NoError(t, os.WriteFile(target, []byte("hello"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder"), 0o755))
	if err := os.Symlink(target, filepath.Join(dir, "link.xlsx")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing.xlsx"), filepath.Join(dir, "dangling.xlsx")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "folder"), filepath.Join(dir, "dirlink.xlsx")))

	var entries []Entry
	for entry, err := range NewEnumerator(afero.NewOsFs(), nil, nil, nil).Files(dir) {
		require.NoError(t, err)
		entries = append(entries, entry)
	}

	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Join(dir, "link.xlsx"), entries[0].Path)
	assert.Equal(t, int64(5), entries[0].Size, "size of the link target")
}
