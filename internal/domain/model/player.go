// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// Position is a roster position the engine can build cohorts for.
type Position string

// Supported positions.
const (
	PositionQB Position = "QB"
	PositionRB Position = "RB"
	PositionWR Position = "WR"
	PositionTE Position = "TE"
)

// Positions lists every supported position in a stable order.
var Positions = []Position{PositionQB, PositionRB, PositionWR, PositionTE}

// ParsePosition accepts a case-insensitive position code.
func ParsePosition(s string) (Position, error) {
	p := Position(strings.ToUpper(strings.TrimSpace(s)))
	switch p {
	case PositionQB, PositionRB, PositionWR, PositionTE:
		return p, nil
	}
	return "", fmt.Errorf("unknown position %q", s)
}

// RunsRoutes reports whether the position is measured by routes run.
func (p Position) RunsRoutes() bool {
	return p == PositionWR || p == PositionTE || p == PositionRB
}

// Scope selects single-season or whole-career aggregation.
type Scope string

// Supported scopes.
const (
	ScopeSeason Scope = "season"
	ScopeCareer Scope = "career"
)

// ParseScope accepts a case-insensitive scope name.
func ParseScope(s string) (Scope, error) {
	sc := Scope(strings.ToLower(strings.TrimSpace(s)))
	switch sc {
	case ScopeSeason, ScopeCareer:
		return sc, nil
	}
	return "", fmt.Errorf("unknown scope %q", s)
}

// StatField names one raw counting stat carried on a game row.
type StatField string

// The fixed superset of raw stats.
const (
	StatCompletions         StatField = "completions"
	StatAttempts            StatField = "attempts"
	StatPassingYards        StatField = "passing_yards"
	StatPassingTDs          StatField = "passing_tds"
	StatInterceptions       StatField = "interceptions"
	StatSacks               StatField = "sacks"
	StatPassingAirYards     StatField = "passing_air_yards"
	StatPassingEPA          StatField = "passing_epa"
	StatCarries             StatField = "carries"
	StatRushingYards        StatField = "rushing_yards"
	StatRushingTDs          StatField = "rushing_tds"
	StatRushingEPA          StatField = "rushing_epa"
	StatTargets             StatField = "targets"
	StatReceptions          StatField = "receptions"
	StatReceivingYards      StatField = "receiving_yards"
	StatReceivingTDs        StatField = "receiving_tds"
	StatReceivingAirYards   StatField = "receiving_air_yards"
	StatReceivingEPA        StatField = "receiving_epa"
	StatReceivingFirstDowns StatField = "receiving_first_downs"
	StatFantasyPointsPPR    StatField = "fantasy_points_ppr"
	StatRoutes              StatField = "routes"
)

// StatFields lists the superset in storage column order.
var StatFields = []StatField{
	StatCompletions, StatAttempts, StatPassingYards, StatPassingTDs, StatInterceptions,
	StatSacks, StatPassingAirYards, StatPassingEPA,
	StatCarries, StatRushingYards, StatRushingTDs, StatRushingEPA,
	StatTargets, StatReceptions, StatReceivingYards, StatReceivingTDs,
	StatReceivingAirYards, StatReceivingEPA, StatReceivingFirstDowns,
	StatFantasyPointsPPR, StatRoutes,
}

// RoutesSource records where a routes-run value came from.
type RoutesSource string

// Routes provenance.
const (
	RoutesNone      RoutesSource = "none"
	RoutesMeasured  RoutesSource = "measured"
	RoutesEstimated RoutesSource = "estimated"
)

// PlayerGameRow is one player's stat line for one game.
// A stat missing from Stats is absent (not tracked), which is distinct from zero.
type PlayerGameRow struct {
	PlayerID     string
	Name         string
	Season       int
	Week         int
	Position     Position
	Stats        map[StatField]float64
	RoutesSource RoutesSource
}

// Stat returns the value of f and whether it was recorded.
func (r *PlayerGameRow) Stat(f StatField) (float64, bool) {
	v, ok := r.Stats[f]
	return v, ok
}
