package fs

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestOSFilesystem_DirExists(t *testing.T) {
	f := NewOSFilesystem()

	t.Run("true for an existing directory", func(t *testing.T) {
		ok, err := f.DirExists(t.TempDir())
		if err != nil {
			t.Fatalf("DirExists() error = %v", err)
		}
		if !ok {
			t.Error("DirExists() = false, want true")
		}
	})

	t.Run("false for a missing path", func(t *testing.T) {
		ok, err := f.DirExists(filepath.Join(t.TempDir(), "nope"))
		if err != nil {
			t.Fatalf("DirExists() error = %v", err)
		}
		if ok {
			t.Error("DirExists() = true, want false")
		}
	})

	t.Run("false for a regular file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}

		ok, err := f.DirExists(path)
		if err != nil {
			t.Fatalf("DirExists() error = %v", err)
		}
		if ok {
			t.Error("DirExists() = true for a file, want false")
		}
	})
}

func TestOSFilesystem_EnsureFile(t *testing.T) {
	f := NewOSFilesystem()

	t.Run("creates a missing file empty", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.list")
		if err := f.EnsureFile(path); err != nil {
			t.Fatalf("EnsureFile() error = %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if info.Size() != 0 {
			t.Errorf("created file size = %d, want 0", info.Size())
		}
	})

	t.Run("leaves an existing file untouched", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.list")
		if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
			t.Fatal(err)
		}

		if err := f.EnsureFile(path); err != nil {
			t.Fatalf("EnsureFile() error = %v", err)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "content" {
			t.Errorf("file content = %q, want untouched", got)
		}
	})
}

func TestOSFilesystem_CopyFile(t *testing.T) {
	f := NewOSFilesystem()

	t.Run("copies content and replaces destination", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "src")
		dst := filepath.Join(dir, "dst")
		if err := os.WriteFile(src, []byte("new"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(dst, []byte("old old old"), 0644); err != nil {
			t.Fatal(err)
		}

		if err := f.CopyFile(src, dst); err != nil {
			t.Fatalf("CopyFile() error = %v", err)
		}

		got, err := os.ReadFile(dst)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "new" {
			t.Errorf("dst content = %q, want %q", got, "new")
		}
	})

	t.Run("fails when source is missing", func(t *testing.T) {
		dir := t.TempDir()
		err := f.CopyFile(filepath.Join(dir, "nope"), filepath.Join(dir, "dst"))
		if err == nil {
			t.Error("CopyFile() error = nil, want error")
		}
	})
}

func TestOSFilesystem_CreateOpen(t *testing.T) {
	f := NewOSFilesystem()
	path := filepath.Join(t.TempDir(), "adlist.csv")

	w, err := f.Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := w.Write([]byte("id,address\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	r, err := f.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(got) != "id,address\n" {
		t.Errorf("content = %q, want %q", got, "id,address\n")
	}
}
