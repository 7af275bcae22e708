package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dendrascience/xlsdigest/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.xlsx")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	tests := []struct {
		name    string
		arg     string
		wantErr error
	}{
		{name: "empty", arg: "", wantErr: ErrInvalidArgument},
		{name: "blank", arg: "   ", wantErr: ErrInvalidArgument},
		{name: "missing", arg: filepath.Join(dir, "missing"), wantErr: ErrInvalidArgument},
		{name: "file", arg: file, wantErr: manifest.ErrExpectedDirectory},
		{name: "directory", arg: dir},
		{name: "directory with trailing separator", arg: dir + string(filepath.Separator)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveDirectory(tt.arg)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidArgument)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, err.Error(), Usage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Clean(dir), got)
		})
	}
}

func TestResolveDirectory_Relative(t *testing.T) {
	parent := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(parent, "sheets"), 0755))
	t.Chdir(parent)

	got, err := resolveDirectory("sheets")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, "sheets", filepath.Base(got))
}
