// Package fs is the real filesystem implementation of the file port.
package fs

import (
	"fmt"
	"io"
	"os"

	"blocksync/internal/blocksync"
)

// OSFilesystem performs actual filesystem operations using the os package.
type OSFilesystem struct{}

var _ blocksync.Filesystem = (*OSFilesystem)(nil)

// NewOSFilesystem creates a filesystem that operates on the real filesystem.
func NewOSFilesystem() *OSFilesystem {
	return &OSFilesystem{}
}

// DirExists reports whether path exists and is a directory.
func (*OSFilesystem) DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return info.IsDir(), nil
}

// EnsureFile creates an empty file at path if nothing exists there.
func (*OSFilesystem) EnsureFile(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, nil, 0644); err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	return nil
}

// CopyFile copies src to dst byte-for-byte, replacing dst.
func (*OSFilesystem) CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", dst, err)
	}
	return nil
}

// Create opens path for writing, truncating any existing content.
func (*OSFilesystem) Create(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// Open opens path for reading.
func (*OSFilesystem) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}
