package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrScoringUnavailable means the scoring oracle was unreachable or timed
	// out. An ingestion that hits it fails wholly; the caller may retry.
	ErrScoringUnavailable = errors.New("scoring service unavailable")

	// ErrSnapshotNotFound means the requested snapshot id does not exist.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// ValidationError reports a schema violation in one uploaded row.
// Row is the 1-based position in the upload, header excluded.
type ValidationError struct {
	Row    int
	Column string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("row %d: column %q: %s", e.Row, e.Column, e.Reason)
}

// StorageError wraps a persistence failure so callers can tell it apart from
// domain errors. It is surfaced, never retried internally.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
