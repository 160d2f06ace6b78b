package service

import (
	"errors"

	"github.com/okian/playersim/internal/adapters/repository"
	"github.com/okian/playersim/internal/domain/engine"
)

var (
	// ErrInvalidQuery rejects malformed queries before any work is done.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrTimeout means the cohort could not be loaded in time and no
	// partial data was available.
	ErrTimeout = errors.New("cohort load timed out")

	ErrNotFound    = engine.ErrNotFound
	ErrUnavailable = repository.ErrUnavailable
)
