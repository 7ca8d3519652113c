package blocksync

import "io"

// Filesystem abstracts the file operations the orchestrator performs so the
// state machines can be tested without touching the real filesystem.
type Filesystem interface {
	// DirExists reports whether path exists and is a directory.
	DirExists(path string) (bool, error)

	// EnsureFile creates an empty file at path if nothing exists there.
	// An existing file is left untouched.
	EnsureFile(path string) error

	// CopyFile copies src to dst byte-for-byte, replacing dst.
	CopyFile(src, dst string) error

	// Create opens path for writing, truncating any existing content.
	Create(path string) (io.WriteCloser, error)

	// Open opens path for reading.
	Open(path string) (io.ReadCloser, error)
}
