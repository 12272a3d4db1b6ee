package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the entity and statistics layers. Callers branch with
// errors.Is; the HTTP layer maps each kind to a status code.
var (
	ErrPlayerNotFound        = errors.New("player not found")
	ErrPlayerExists          = errors.New("player already exists")
	ErrVideoNotFound         = errors.New("video not found")
	ErrMatchNotFound         = errors.New("match not found")
	ErrAnalysisNotFound      = errors.New("analysis not found")
	ErrPlayerInMatchNotFound = errors.New("player not found in match")

	// ErrDataUnavailable signals "entity exists but dependent data has not
	// been produced yet". Distinct from the NotFound family: clients show
	// "still processing" rather than "missing".
	ErrDataUnavailable = errors.New("hit data not available")

	ErrInvalidSetNumber  = errors.New("invalid set number")
	ErrInvalidFileFormat = errors.New("file format not supported")
	ErrFileTooLarge      = errors.New("file exceeds maximum size")
	ErrValidation        = errors.New("validation failed")
)

// AnalysisError wraps failures inside the analysis orchestration chain
// (entity creation or result storage). The underlying cause is preserved.
type AnalysisError struct {
	Op  string // "create" or "store"
	Err error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis %s failed: %v", e.Op, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// StorageError wraps file storage failures.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
