package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/sdejongh/dircompare/pkg/filter"
	"github.com/sdejongh/dircompare/pkg/models"
)

// writeTree creates files (and their parent directories) under root
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create parent dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}
}

func entryPaths(entries []models.Entry) map[string]models.Entry {
	out := make(map[string]models.Entry, len(entries))
	for _, e := range entries {
		out[e.RelativePath] = e
	}
	return out
}

// TestNewLocal tests the Local backend constructor
func TestNewLocal(t *testing.T) {
	t.Run("ValidDirectory", func(t *testing.T) {
		local, err := NewLocal(t.TempDir())
		if err != nil {
			t.Fatalf("NewLocal() error = %v", err)
		}
		if local == nil {
			t.Fatal("NewLocal() returned nil")
		}
		if !filepath.IsAbs(local.Root()) {
			t.Errorf("Root() = %s, want absolute path", local.Root())
		}
		defer local.Close()
	})

	t.Run("NonExistentPath", func(t *testing.T) {
		_, err := NewLocal("/nonexistent/path/that/does/not/exist")
		if err == nil {
			t.Fatal("NewLocal() should fail for non-existent path")
		}
		if !errors.Is(err, models.ErrInvalidRoot) {
			t.Errorf("error = %v, want ErrInvalidRoot", err)
		}
	})

	t.Run("FileNotDirectory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file.txt")
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}

		_, err := NewLocal(path)
		if !errors.Is(err, models.ErrInvalidRoot) {
			t.Errorf("NewLocal() error = %v, want ErrInvalidRoot", err)
		}
	})
}

// TestLocalList tests the List method
func TestLocalList(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"file1.txt":         "content1",
		"file2.txt":         "content22",
		"subdir/file3.txt":  "content333",
		"subdir/deep/f.tmp": "tmp",
		".git/config":       "[core]",
	})

	local, err := NewLocal(root)
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}
	defer local.Close()

	ctx := context.Background()

	t.Run("ListAll", func(t *testing.T) {
		listing, err := local.List(ctx, nil)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}

		byPath := entryPaths(listing.Entries)
		if _, ok := byPath[""]; ok {
			t.Error("root itself should not be listed")
		}

		files, dirs, bytes := listing.Stats()
		if files != 5 {
			t.Errorf("files = %d, want 5", files)
		}
		if dirs != 3 {
			t.Errorf("dirs = %d, want 3 (subdir, subdir/deep, .git)", dirs)
		}
		if bytes != int64(len("content1")+len("content22")+len("content333")+len("tmp")+len("[core]")) {
			t.Errorf("bytes = %d", bytes)
		}

		f3, ok := byPath["subdir/file3.txt"]
		if !ok {
			t.Fatal("subdir/file3.txt not listed with slash-separated path")
		}
		if f3.Kind != models.KindFile || f3.Size != 10 {
			t.Errorf("unexpected entry %+v", f3)
		}
		if byPath["subdir"].Kind != models.KindDirectory || byPath["subdir"].Size != 0 {
			t.Errorf("subdir should be a zero-size directory, got %+v", byPath["subdir"])
		}
	})

	t.Run("ListFiltered", func(t *testing.T) {
		listing, err := local.List(ctx, filter.New("*.tmp", ".git/"))
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}

		byPath := entryPaths(listing.Entries)
		for _, excluded := range []string{"subdir/deep/f.tmp", ".git", ".git/config"} {
			if _, ok := byPath[excluded]; ok {
				t.Errorf("%s should be excluded", excluded)
			}
		}
		if _, ok := byPath["subdir/deep"]; !ok {
			t.Error("subdir/deep should remain")
		}
	})

	t.Run("Restartable", func(t *testing.T) {
		first, err := local.List(ctx, nil)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		second, err := local.List(ctx, nil)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(first.Entries) != len(second.Entries) {
			t.Fatal("listings differ in length")
		}
		for i := range first.Entries {
			if first.Entries[i] != second.Entries[i] {
				t.Errorf("entry %d differs: %+v vs %+v", i, first.Entries[i], second.Entries[i])
			}
		}
	})
}

// TestLocalSymlink checks that links are leaf entries and never followed
func TestLocalSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}

	root := t.TempDir()
	outside := t.TempDir()
	writeTree(t, outside, map[string]string{"secret/inner.txt": "hidden"})
	writeTree(t, root, map[string]string{"real.txt": "x"})

	if err := os.Symlink(filepath.Join(outside, "secret"), filepath.Join(root, "link")); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}

	local, err := NewLocal(root)
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}

	listing, err := local.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	byPath := entryPaths(listing.Entries)
	link, ok := byPath["link"]
	if !ok {
		t.Fatal("symlink should be listed")
	}
	if !link.IsSymlink || link.Kind != models.KindFile {
		t.Errorf("symlink entry = %+v, want opaque file leaf", link)
	}
	if _, ok := byPath["link/inner.txt"]; ok {
		t.Error("symlink target must not be traversed")
	}

	target, err := local.Readlink(context.Background(), link)
	if err != nil {
		t.Fatalf("Readlink() error = %v", err)
	}
	if target != filepath.Join(outside, "secret") {
		t.Errorf("Readlink() = %s", target)
	}
}

// TestLocalPermissionDenied checks unreadable sub-directories become warnings
func TestLocalPermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"ok.txt":           "fine",
		"locked/inner.txt": "nope",
	})
	locked := filepath.Join(root, "locked")
	if err := os.Chmod(locked, 0000); err != nil {
		t.Fatalf("chmod failed: %v", err)
	}
	defer os.Chmod(locked, 0755)

	local, err := NewLocal(root)
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}

	listing, err := local.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("List() should not fail on a sub-path permission error: %v", err)
	}

	if len(listing.Warnings) != 1 {
		t.Fatalf("warnings = %v, want 1", listing.Warnings)
	}
	if listing.Warnings[0].Kind != "permission" || listing.Warnings[0].Path != "locked" {
		t.Errorf("unexpected warning %+v", listing.Warnings[0])
	}
	if _, ok := entryPaths(listing.Entries)["ok.txt"]; !ok {
		t.Error("readable files must still be listed")
	}
}

// TestLocalOpen tests the Open method
func TestLocalOpen(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"test.txt": "test content for reading"})

	local, err := NewLocal(root)
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}
	ctx := context.Background()

	listing, err := local.List(ctx, nil)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	t.Run("OpenExistingFile", func(t *testing.T) {
		f, err := local.Open(ctx, listing.Entries[0])
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if string(data) != "test content for reading" {
			t.Errorf("content = %s", data)
		}
	})

	t.Run("OpenNonExistentFile", func(t *testing.T) {
		_, err := local.Open(ctx, models.Entry{AbsolutePath: filepath.Join(root, "missing.txt")})
		if !errors.Is(err, models.ErrIOFailure) {
			t.Errorf("Open() error = %v, want ErrIOFailure", err)
		}
	})
}
