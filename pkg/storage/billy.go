package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/sdejongh/dircompare/pkg/filter"
	"github.com/sdejongh/dircompare/pkg/models"
)

// Billy is a storage backend over any go-billy filesystem (osfs, memfs, chroots)
type Billy struct {
	fs   billy.Filesystem
	root string
}

// NewBilly creates a backend rooted at root inside fsys
func NewBilly(fsys billy.Filesystem, root string) (*Billy, error) {
	if root == "" {
		root = "/"
	}
	root = filepath.Clean(root)

	info, err := fsys.Lstat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &models.RootError{Path: root, Reason: "path does not exist"}
		}
		return nil, &models.RootError{Path: root, Reason: "failed to access path", Err: err}
	}
	if !info.IsDir() {
		return nil, &models.RootError{Path: root, Reason: "not a directory"}
	}

	return &Billy{fs: fsys, root: root}, nil
}

// NewBillyOS creates a billy backend over the host filesystem
func NewBillyOS(rootPath string) (*Billy, error) {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, &models.RootError{Path: rootPath, Reason: "failed to resolve path", Err: err}
	}
	return NewBilly(osfs.New(absPath), "/")
}

// Root returns the root path inside the billy filesystem
func (b *Billy) Root() string {
	return filepath.Join(b.fs.Root(), b.root)
}

// List walks the billy filesystem from the root
func (b *Billy) List(ctx context.Context, matcher *filter.Matcher) (*Listing, error) {
	listing := &Listing{}

	err := util.Walk(b.fs, b.root, func(p string, info os.FileInfo, err error) error {
		relPath, relErr := filepath.Rel(b.root, p)
		if relErr != nil {
			return relErr
		}
		rel := models.CanonicalPath(relPath)

		if err != nil {
			if rel == "" {
				return &models.RootError{Path: b.root, Reason: "failed to read root", Err: err}
			}
			listing.Warnings = append(listing.Warnings,
				models.WarningFromError("", rel, models.NewEntryError("list", p, err)))
			if info != nil && info.IsDir() {
				listing.Entries = append(listing.Entries, models.Entry{
					RelativePath: rel,
					AbsolutePath: p,
					Kind:         models.KindDirectory,
				})
				return filepath.SkipDir
			}
			return nil
		}

		if rel == "" {
			return nil
		}

		isSymlink := info.Mode()&fs.ModeSymlink != 0
		isDir := info.IsDir() && !isSymlink

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

// Open opens a file inside the billy filesystem
func (b *Billy) Open(ctx context.Context, entry models.Entry) (File, error) {
	f, err := b.fs.Open(entry.AbsolutePath)
	if err != nil {
		return nil, models.NewEntryError("open", entry.AbsolutePath, err)
	}
	return f, nil
}

// Readlink returns a symlink's target
func (b *Billy) Readlink(ctx context.Context, entry models.Entry) (string, error) {
	target, err := b.fs.Readlink(entry.AbsolutePath)
	if err != nil {
		return "", models.NewEntryError("readlink", entry.AbsolutePath, err)
	}
	return target, nil
}

// Close releases resources (no-op for billy filesystems)
func (b *Billy) Close() error {
	return nil
}
