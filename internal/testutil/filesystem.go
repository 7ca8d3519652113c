package testutil

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"blocksync/internal/blocksync"
)

// FakeFilesystem is an in-memory blocksync.Filesystem. Paths are plain
// strings; no normalization happens beyond exact matching, so tests should
// build paths with filepath.Join the same way the code under test does.
type FakeFilesystem struct {
	Dirs  map[string]bool
	Files map[string][]byte

	// DirExistsErr, when set, is returned by every DirExists call.
	DirExistsErr error

	// OpenErr, when set, is returned by every Open call.
	OpenErr error
}

// NewFakeFilesystem creates an empty FakeFilesystem.
func NewFakeFilesystem() *FakeFilesystem {
	return &FakeFilesystem{
		Dirs:  make(map[string]bool),
		Files: make(map[string][]byte),
	}
}

// AddDir marks path as an existing directory.
func (f *FakeFilesystem) AddDir(path string) {
	f.Dirs[path] = true
}

// WriteFile sets the content of path.
func (f *FakeFilesystem) WriteFile(path string, content []byte) {
	f.Files[path] = append([]byte(nil), content...)
}

// FilesUnder returns the paths of all files under the given directory prefix,
// sorted.
func (f *FakeFilesystem) FilesUnder(dir string) []string {
	prefix := dir + "/"
	var out []string
	for path := range f.Files {
		if strings.HasPrefix(path, prefix) {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}

func (f *FakeFilesystem) DirExists(path string) (bool, error) {
	if f.DirExistsErr != nil {
		return false, f.DirExistsErr
	}
	return f.Dirs[path], nil
}

func (f *FakeFilesystem) EnsureFile(path string) error {
	if _, ok := f.Files[path]; !ok {
		f.Files[path] = []byte{}
	}
	return nil
}

func (f *FakeFilesystem) CopyFile(src, dst string) error {
	content, ok := f.Files[src]
	if !ok {
		return fmt.Errorf("file not found: %s", src)
	}
	f.Files[dst] = append([]byte(nil), content...)
	return nil
}

func (f *FakeFilesystem) Create(path string) (io.WriteCloser, error) {
	return &fakeWriter{fs: f, path: path}, nil
}

func (f *FakeFilesystem) Open(path string) (io.ReadCloser, error) {
	if f.OpenErr != nil {
		return nil, f.OpenErr
	}
	content, ok := f.Files[path]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

// fakeWriter buffers writes and stores the content on Close.
type fakeWriter struct {
	fs   *FakeFilesystem
	path string
	buf  bytes.Buffer
}

func (w *fakeWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }

func (w *fakeWriter) Close() error {
	w.fs.Files[w.path] = append([]byte(nil), w.buf.Bytes()...)
	return nil
}

// Compile-time check
var _ blocksync.Filesystem = (*FakeFilesystem)(nil)
