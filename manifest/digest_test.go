package manifest

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashReader(t *testing.T) {
	md5Alg, err := LookupAlgorithm("md5")
	require.NoError(t, err)
	sha, err := LookupAlgorithm("sha256")
	require.NoError(t, err)

	tests := []struct {
		name  string
		alg   Algorithm
		input string
		want  string
	}{
		{"md5 empty", md5Alg, "", "D41D8CD98F00B204E9800998ECF8427E"},
		{"md5 hello", md5Alg, "hello", "5D41402ABC4B2A76B9719D911017C592"},
		{"md5 world", md5Alg, "world", "7D793037A0760186574B0282F2F435E7"},
		{"sha256 hello", sha, "hello", "2CF24DBA5FB0A30E26E83B2AC5B9E29E1B161E5C1FA7425E73043362938B9824"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HashReader(tt.alg, strings.NewReader(tt.input), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAlgorithms_DigestShape(t *testing.T) {
	wantLen := map[string]int{"md5": 32, "sha256": 64, "blake3": 64, "xxh3": 32}
	require.ElementsMatch(t, Algorithms(), []string{"blake3", "md5", "sha256", "xxh3"})

	for _, name := range Algorithms() {
		t.Run(name, func(t *testing.T) {
			alg, err := LookupAlgorithm(name)
			require.NoError(t, err)

			first, err := HashReader(alg, strings.NewReader("same bytes"), nil)
			require.NoError(t, err)
			second, err := HashReader(alg, strings.NewReader("same bytes"), make([]byte, 3))
			require.NoError(t, err)
			other, err := HashReader(alg, strings.NewReader("other bytes"), nil)
			require.NoError(t, err)

			assert.Len(t, first, wantLen[name])
			assert.Equal(t, first, second, "buffer size must not change the digest")
			assert.NotEqual(t, first, other)
			assert.Equal(t, strings.ToUpper(first), first)
		})
	}
}

func TestLookupAlgorithm(t *testing.T) {
	alg, err := LookupAlgorithm(" MD5 ")
	require.NoError(t, err)
	assert.Equal(t, "md5", alg.Name)

	_, err = LookupAlgorithm("crc32")
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestHashFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, "/data", map[string]string{"a.xlsx": "hello"})
	require.NoError(t, fsys.MkdirAll("/data/dir.xlsx", 0o755))
	alg, _ := LookupAlgorithm("md5")

	t.Run("regular file", func(t *testing.T) {
		got, err := HashFile(fsys, alg, "/data/a.xlsx", make([]byte, copyBufferSize))
		require.NoError(t, err)
		assert.Equal(t, "5D41402ABC4B2A76B9719D911017C592", got)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := HashFile(fsys, alg, "/data/gone.xlsx", nil)
		var fre *FileReadError
		require.ErrorAs(t, err, &fre)
		assert.Equal(t, "/data/gone.xlsx", fre.Path)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("directory", func(t *testing.T) {
		_, err := HashFile(fsys, alg, "/data/dir.xlsx", nil)
		assert.ErrorIs(t, err, ErrExpectedFile)
	})
}

func TestHashFile_ClosesOnSuccessAndFailure(t *testing.T) {
	fsys := newFaultFs(afero.NewMemMapFs())
	writeFiles(t, fsys.Fs, "/data", map[string]string{"a.xlsx": "hello"})
	require.NoError(t, fsys.Fs.MkdirAll("/data/dir.xlsx", 0o755))
	alg, _ := LookupAlgorithm("md5")

	_, err := HashFile(fsys, alg, "/data/a.xlsx", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, fsys.open())

	_, err = HashFile(fsys, alg, "/data/dir.xlsx", nil)
	require.Error(t, err)
	assert.Equal(t, 0, fsys.open())
}

func TestHashFile_LargeFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	data := make([]byte, 3*copyBufferSize+17)
	for i := range data {
		data[i] = byte(i % 251)
	}
	require.NoError(t, afero.WriteFile(fsys, "/big.xlsx", data, 0o644))
	alg, _ := LookupAlgorithm("md5")

	streamed, err := HashFile(fsys, alg, "/big.xlsx", make([]byte, copyBufferSize))
	require.NoError(t, err)
	whole, err := HashReader(alg, strings.NewReader(string(data)), nil)
	require.NoError(t, err)
	assert.Equal(t, whole, streamed)
}
