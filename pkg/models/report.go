package models

import (
	"time"
)

// Mode selects the matcher used by an invocation
type Mode string

const (
	// ModeHierarchy joins entries by relative path
	ModeHierarchy Mode = "hierarchy"
	// ModeFlat groups files by content signature
	ModeFlat Mode = "flat"
)

// Report represents the results of one comparison invocation
type Report struct {
	// Operation details
	OperationID string
	RootA       string
	RootB       string
	Mode        Mode
	Method      string

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Statistics
	Stats Statistics

	// Exactly one of Result or Flat is set, depending on Mode
	Result *ComparisonResult
	Flat   *FlatResult

	// Overall status
	Status Status
}

// Statistics holds scan metrics
type Statistics struct {
	FilesA   int
	DirsA    int
	FilesB   int
	DirsB    int
	BytesA   int64
	BytesB   int64
	Hashed   int
	Warnings int
}

// Warnings returns the warnings of whichever result is set
func (r *Report) Warnings() []Warning {
	switch {
	case r.Result != nil:
		return r.Result.Warnings
	case r.Flat != nil:
		return r.Flat.Warnings
	default:
		return nil
	}
}

// Status represents the overall result
type Status string

const (
	// StatusSuccess indicates the comparison completed without warnings
	StatusSuccess Status = "success"
	// StatusPartial indicates the comparison completed with warnings
	StatusPartial Status = "partial"
	// StatusFailed indicates a fatal error
	StatusFailed Status = "failed"
)

// ExitCode returns the process exit code. Warnings never change it.
func (s Status) ExitCode() int {
	switch s {
	case StatusSuccess, StatusPartial:
		return 0
	default:
		return 1
	}
}
