package models

import (
	"path"
	"path/filepath"
	"strings"
)

// EntryKind distinguishes files from directories
type EntryKind string

const (
	// KindFile is a regular file (or an opaque symlink)
	KindFile EntryKind = "file"
	// KindDirectory is a directory
	KindDirectory EntryKind = "directory"
)

// Entry represents one filesystem object found while traversing a root
type Entry struct {
	// RelativePath is the slash-separated path relative to the root
	RelativePath string

	// AbsolutePath is the resolved location, used only for I/O
	AbsolutePath string

	// Kind is file or directory
	Kind EntryKind

	// Size in bytes (always 0 for directories)
	Size int64

	// IsSymlink marks a link that was reported as a leaf without following it
	IsSymlink bool
}

// IsDir reports whether the entry is a directory
func (e Entry) IsDir() bool {
	return e.Kind == KindDirectory
}

// Components returns the ordered path components of the relative path
func (e Entry) Components() []string {
	if e.RelativePath == "" {
		return nil
	}
	return strings.Split(e.RelativePath, "/")
}

// Name returns the last path component
func (e Entry) Name() string {
	return path.Base(e.RelativePath)
}

// RootID identifies which side of a comparison an entry came from
type RootID string

const (
	// RootA is the first directory
	RootA RootID = "a"
	// RootB is the second directory
	RootB RootID = "b"
)

// CanonicalPath converts an OS-specific relative path into the slash-separated
// form used as entry identity
func CanonicalPath(rel string) string {
	cleaned := path.Clean(filepath.ToSlash(rel))
	if cleaned == "." {
		return ""
	}
	return strings.TrimPrefix(cleaned, "/")
}
