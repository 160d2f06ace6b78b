package repository

import "errors"

// Sentinel kinds for row loading errors.
var (
	ErrInvalidRange = errors.New("invalid season range")
	ErrUnavailable  = errors.New("row source unavailable")
)
