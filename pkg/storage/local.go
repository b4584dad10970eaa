package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sdejongh/dircompare/pkg/filter"
	"github.com/sdejongh/dircompare/pkg/models"
)

// Local is a filesystem-based storage backend
type Local struct {
	rootPath string
}

// NewLocal creates a new local filesystem backend.
// The root is canonicalized; a missing or non-directory root is an invalid root.
func NewLocal(rootPath string) (*Local, error) {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, &models.RootError{Path: rootPath, Reason: "failed to resolve path", Err: err}
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &models.RootError{Path: rootPath, Reason: "path does not exist"}
		}
		return nil, &models.RootError{Path: rootPath, Reason: "failed to access path", Err: err}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, &models.RootError{Path: rootPath, Reason: "failed to access path", Err: err}
	}

	if !info.IsDir() {
		return nil, &models.RootError{Path: rootPath, Reason: "not a directory"}
	}

	return &Local{rootPath: resolved}, nil
}

// Root returns the canonical root path
func (l *Local) Root() string {
	return l.rootPath
}

// List returns all entries beneath the root
func (l *Local) List(ctx context.Context, matcher *filter.Matcher) (*Listing, error) {
	if _, err := os.Stat(l.rootPath); err != nil {
		return nil, &models.RootError{Path: l.rootPath, Reason: "failed to access path", Err: err}
	}

	listing := &Listing{}

	err := filepath.WalkDir(l.rootPath, func(p string, d fs.DirEntry, err error) error {
		relPath, relErr := filepath.Rel(l.rootPath, p)
		if relErr != nil {
			return relErr
		}
		rel := models.CanonicalPath(relPath)

		if err != nil {
			if rel == "" {
				return &models.RootError{Path: l.rootPath, Reason: "failed to read root", Err: err}
			}
			// Directory read failed after the directory itself was recorded;
			// skip its contents and keep walking
			listing.Warnings = append(listing.Warnings,
				models.WarningFromError("", rel, models.NewEntryError("list", p, err)))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		// The root itself is not an entry
		if rel == "" {
			return nil
		}

		isSymlink := d.Type()&fs.ModeSymlink != 0
		isDir := d.IsDir() && !isSymlink

		if matcher.Excluded(rel, isDir) {
			if isDir {
				return filepath.SkipDir
			}
			return nil
		}

		entry := models.Entry{
			RelativePath: rel,
			AbsolutePath: p,
			Kind:         models.KindFile,
			IsSymlink:    isSymlink,
		}

		switch {
		case isDir:
			entry.Kind = models.KindDirectory
		case !isSymlink:
			info, err := d.Info()
			if err != nil {
				listing.Warnings = append(listing.Warnings,
					models.WarningFromError("", rel, models.NewEntryError("stat", p, err)))
				return nil
			}
			entry.Size = info.Size()
		}

		listing.Entries = append(listing.Entries, entry)
		return nil
	})

	if err != nil {
		return nil, err
	}

	return listing, nil
}

// Open opens a file for reading
func (l *Local) Open(ctx context.Context, entry models.Entry) (File, error) {
	file, err := os.Open(entry.AbsolutePath)
	if err != nil {
		return nil, models.NewEntryError("open", entry.AbsolutePath, err)
	}

	return file, nil
}

// Readlink returns a symlink's target
func (l *Local) Readlink(ctx context.Context, entry models.Entry) (string, error) {
	target, err := os.Readlink(entry.AbsolutePath)
	if err != nil {
		return "", models.NewEntryError("readlink", entry.AbsolutePath, err)
	}
	return target, nil
}

// Close releases resources (no-op for local filesystem)
func (l *Local) Close() error {
	return nil
}

