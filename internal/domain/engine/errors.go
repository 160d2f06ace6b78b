package engine

import "errors"

// Sentinel errors for the similarity pipeline.
var (
	// ErrNotFound means the target is not a member of the prepared cohort.
	ErrNotFound = errors.New("player not found in cohort")
	// ErrInvalidLimit means the requested result count is not positive.
	ErrInvalidLimit = errors.New("limit must be positive")
)
