// Package platform holds path handling that differs between operating systems.
package platform

import (
	"path/filepath"
	"runtime"
	"strings"
)

// NormalizePath cleans a root argument for the current platform
func NormalizePath(path string) string {
	normalized := filepath.Clean(path)

	// filepath.Clean collapses the leading pair of a UNC path
	if IsUNCPath(path) && !strings.HasPrefix(normalized, `\\`) {
		normalized = `\` + normalized
	}

	return normalized
}

// IsUNCPath checks if a path is a UNC path (Windows network share)
func IsUNCPath(path string) bool {
	if runtime.GOOS != "windows" {
		return false
	}
	return strings.HasPrefix(path, `\\`) || strings.HasPrefix(path, "//")
}

// ValidatePath rejects root arguments that can never name a directory
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return &PathError{Path: path, Message: "path is empty"}
	}
	if strings.ContainsRune(path, 0) {
		return &PathError{Path: path, Message: "path contains a NUL byte"}
	}

	if runtime.GOOS == "windows" && !IsUNCPath(path) {
		// The volume name carries the only legal colon
		rest := path[len(filepath.VolumeName(path)):]
		if i := strings.IndexAny(rest, `<>:"|?*`); i >= 0 {
			return &PathError{Path: path, Message: "path contains invalid character: " + string(rest[i])}
		}
	}

	return nil
}

// PathError represents a path validation error
type PathError struct {
	Path    string
	Message string
}

func (e *PathError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Message
}
