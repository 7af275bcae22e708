package manifest

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// faultFs wraps an afero.Fs to inject open and listing failures and to
// measure how many files are open for reading at once.
type faultFs struct {
	afero.Fs

	openErr    map[string]error
	readdirErr map[string]error
	readDelay  time.Duration

	mu           sync.Mutex
	inFlight     int
	maxInFlight  int
	readdirCalls int
}

func newFaultFs(base afero.Fs) *faultFs {
	return &faultFs{
		Fs:         base,
		openErr:    make(map[string]error),
		readdirErr: make(map[string]error),
	}
}

func (f *faultFs) Open(name string) (afero.File, error) {
	if err, ok := f.openErr[name]; ok {
		return nil, &os.PathError{Op: "open", Path: name, Err: err}
	}
	file, err := f.Fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		return file, nil
	}
	if info.IsDir() {
		return &faultDir{File: file, fs: f, err: f.readdirErr[name]}, nil
	}

	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()
	return &trackedFile{File: file, fs: f}, nil
}

func (f *faultFs) peak() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}

func (f *faultFs) open() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}

func (f *faultFs) listings() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readdirCalls
}

type trackedFile struct {
	afero.File
	fs   *faultFs
	once sync.Once
}

func (t *trackedFile) Read(p []byte) (int, error) {
	if t.fs.readDelay > 0 {
		time.Sleep(t.fs.readDelay)
	}
	return t.File.Read(p)
}

func (t *trackedFile) Close() error {
	t.once.Do(func() {
		t.fs.mu.Lock()
		t.fs.inFlight--
		t.fs.mu.Unlock()
	})
	return t.File.Close()
}

// faultDir returns the underlying entries on the first Readdir call and
// err on every later one, when err is set.
type faultDir struct {
	afero.File
	fs    *faultFs
	err   error
	calls int
}

func (d *faultDir) Readdir(count int) ([]os.FileInfo, error) {
	d.fs.mu.Lock()
	d.fs.readdirCalls++
	d.fs.mu.Unlock()

	d.calls++
	if d.err != nil && d.calls > 1 {
		return nil, d.err
	}
	return d.File.Readdir(count)
}

// writeFiles creates files with the given contents under dir.
func writeFiles(t *testing.T, fsys afero.Fs, dir string, files map[string]string) {
	t.Helper()
	require.NoError(t, fsys.MkdirAll(dir, 0o755))
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fsys, dir+"/"+name, []byte(content), 0o644))
	}
}
