package storage

import (
	"context"
	"io"

	"github.com/sdejongh/dircompare/pkg/filter"
	"github.com/sdejongh/dircompare/pkg/models"
)

// File is an open file that supports both streaming and positional reads
type File interface {
	io.Reader
	io.ReaderAt
	io.Closer
}

// Listing is the outcome of traversing one root
type Listing struct {
	// Entries in traversal order (lexical within each directory)
	Entries []models.Entry

	// Warnings for sub-paths that were skipped
	Warnings []models.Warning
}

// Backend defines the traversal and read operations the comparison engine needs.
// Implementations include the local filesystem and go-billy filesystems.
type Backend interface {
	// Root returns the canonical root location
	Root() string

	// List walks the root without following symlinks. Entries excluded by
	// the matcher are omitted; an excluded directory prunes its subtree.
	// Unreadable sub-paths are skipped and reported as warnings.
	List(ctx context.Context, matcher *filter.Matcher) (*Listing, error)

	// Open opens a file entry for reading
	Open(ctx context.Context, entry models.Entry) (File, error)

	// Readlink returns the target of a symlink entry without following it
	Readlink(ctx context.Context, entry models.Entry) (string, error)

	// Close releases any resources held by the backend
	Close() error
}

// Stats summarises a listing
func (l *Listing) Stats() (files, dirs int, bytes int64) {
	for _, e := range l.Entries {
		if e.IsDir() {
			dirs++
			continue
		}
		files++
		bytes += e.Size
	}
	return files, dirs, bytes
}
