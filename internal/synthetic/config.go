// Package synthetic generates a reproducible league of per-game stat rows
// for seeding stores, demos and tests.
package synthetic

import "github.com/okian/playersim/internal/domain/model"

// Config holds configuration for a generated league.
type Config struct {
	Players            int              // Number of players per position
	FromSeason         int              // First season generated
	ToSeason           int              // Last season generated
	Weeks              int              // Regular-season weeks per season
	Seed               int64            // Generator seed
	Positions          []model.Position // Positions to generate
	RoutesMeasuredFrom int              // Seasons before this get estimated routes
	Inflation          float64          // League-wide yearly growth of volume stats
}

// Default generator configuration constants.
const (
	defaultPlayers            = 40
	defaultWeeks              = 17
	defaultSeed               = 42
	defaultRoutesMeasuredFrom = 2016
	defaultInflation          = 0.02
)

// DefaultConfig returns a small multi-season league.
func DefaultConfig() Config {
	return Config{
		Players:            defaultPlayers,
		FromSeason:         2019,
		ToSeason:           2024,
		Weeks:              defaultWeeks,
		Seed:               defaultSeed,
		Positions:          append([]model.Position(nil), model.Positions...),
		RoutesMeasuredFrom: defaultRoutesMeasuredFrom,
		Inflation:          defaultInflation,
	}
}
