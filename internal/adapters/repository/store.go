// Package repository loads per-game stat rows that make up similarity cohorts.
package repository

import (
	"context"
	"fmt"

	"github.com/okian/playersim/internal/domain/model"
)

// CohortQuery selects the rows for one cohort.
type CohortQuery struct {
	Position   model.Position
	FromSeason int
	ToSeason   int
}

// Validate checks the season range.
func (q CohortQuery) Validate() error {
	if q.FromSeason <= 0 || q.ToSeason < q.FromSeason {
		return fmt.Errorf("%w: seasons %d-%d", ErrInvalidRange, q.FromSeason, q.ToSeason)
	}
	return nil
}

// RowSource provides per-game rows for a cohort.
//
// When ctx expires mid-read, implementations return the rows read so far
// together with an error wrapping ctx.Err(), so callers may continue on a
// partial cohort.
type RowSource interface {
	Rows(ctx context.Context, q CohortQuery) ([]model.PlayerGameRow, error)
}

// RowWriter stores per-game rows, replacing any row with the same
// (player, season, week).
type RowWriter interface {
	Insert(ctx context.Context, rows []model.PlayerGameRow) error
}
