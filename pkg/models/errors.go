package models

import (
	"errors"
	"fmt"
	"io/fs"
)

// Error taxonomy for comparison invocations
var (
	// ErrInvalidRoot indicates a root path is missing or not a directory (fatal)
	ErrInvalidRoot = errors.New("invalid root")
	// ErrPermissionDenied indicates an entry could not be accessed (non-fatal)
	ErrPermissionDenied = errors.New("permission denied")
	// ErrIOFailure indicates a read failed while computing a signature (non-fatal)
	ErrIOFailure = errors.New("i/o failure")
	// ErrInvalidStrategy indicates a malformed strategy or sampling configuration
	ErrInvalidStrategy = errors.New("invalid strategy configuration")
)

// EntryError describes a failure tied to a single entry
type EntryError struct {
	Op   string
	Path string
	Kind error
	Err  error
}

// NewEntryError classifies err as permission-denied or I/O failure
func NewEntryError(op, path string, err error) *EntryError {
	kind := ErrIOFailure
	if errors.Is(err, fs.ErrPermission) {
		kind = ErrPermissionDenied
	}
	return &EntryError{Op: op, Path: path, Kind: kind, Err: err}
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap exposes both the taxonomy sentinel and the underlying cause
func (e *EntryError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// RootError reports a root that cannot be traversed
type RootError struct {
	Path   string
	Reason string
	Err    error
}

func (e *RootError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid root %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid root %s: %s", e.Path, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidRoot)
func (e *RootError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidRoot, e.Err}
	}
	return []error{ErrInvalidRoot}
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Unwrap lets validation failures match ErrInvalidStrategy
func (e *ValidationError) Unwrap() error {
	return ErrInvalidStrategy
}

// Warning is a non-fatal problem recorded alongside a result
type Warning struct {
	Root    RootID `json:"root,omitempty"`
	Path    string `json:"path"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// WarningFromError converts an error into a Warning for the given root
func WarningFromError(root RootID, path string, err error) Warning {
	kind := "io"
	switch {
	case errors.Is(err, ErrPermissionDenied), errors.Is(err, fs.ErrPermission):
		kind = "permission"
	case errors.Is(err, ErrInvalidStrategy):
		kind = "configuration"
	}
	return Warning{Root: root, Path: path, Kind: kind, Message: err.Error()}
}
