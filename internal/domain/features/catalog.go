package features

import (
	"fmt"

	"github.com/okian/playersim/internal/domain/model"
)

// Derived column names that are not raw stats.
const (
	colGamesPlayed   = "games_played"
	colSeasonsPlayed = "seasons_played"
)

type valueFunc func(a *Aggregate) (float64, bool)

type feature struct {
	col   Column
	value valueFunc
}

// eraStats are the totals rescaled by the era adjuster.
var eraStats = map[model.StatField]bool{
	model.StatPassingYards:     true,
	model.StatPassingTDs:       true,
	model.StatAttempts:         true,
	model.StatPassingEPA:       true,
	model.StatRushingYards:     true,
	model.StatRushingTDs:       true,
	model.StatCarries:          true,
	model.StatRushingEPA:       true,
	model.StatReceivingYards:   true,
	model.StatReceivingTDs:     true,
	model.StatReceptions:       true,
	model.StatTargets:          true,
	model.StatReceivingEPA:     true,
	model.StatFantasyPointsPPR: true,
}

var volumeStats = map[model.Position][]model.StatField{
	model.PositionQB: {
		model.StatPassingYards, model.StatPassingTDs, model.StatInterceptions, model.StatCompletions,
		model.StatAttempts, model.StatRushingYards, model.StatFantasyPointsPPR, model.StatPassingEPA,
		model.StatPassingAirYards, model.StatSacks,
	},
	model.PositionRB: {
		model.StatRushingYards, model.StatRushingTDs, model.StatReceptions, model.StatReceivingYards,
		model.StatTargets, model.StatCarries, model.StatFantasyPointsPPR, model.StatRushingEPA,
		model.StatReceivingEPA,
	},
	model.PositionWR: receiverVolume,
	model.PositionTE: receiverVolume,
}

var receiverVolume = []model.StatField{
	model.StatTargets, model.StatReceptions, model.StatReceivingYards, model.StatReceivingTDs,
	model.StatReceivingAirYards, model.StatFantasyPointsPPR, model.StatReceivingEPA, model.StatRoutes,
	model.StatReceivingFirstDowns,
}

// SchemaFor returns the feature schema shared by every member of a cohort.
func SchemaFor(pos model.Position, scope model.Scope) (Schema, error) {
	cat, err := catalog(pos, scope)
	if err != nil {
		return Schema{}, err
	}
	cols := make([]Column, len(cat))
	for j, f := range cat {
		cols[j] = f.col
	}
	return NewSchema(cols), nil
}

func catalog(pos model.Position, scope model.Scope) ([]feature, error) {
	stats, ok := volumeStats[pos]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoPosition, pos)
	}
	var out []feature
	for _, f := range stats {
		out = append(out, feature{
			col:   Column{Name: string(f), Class: ClassVolume, Stat: f, EraAdjusted: scope == model.ScopeCareer && eraStats[f]},
			value: total(f),
		})
	}
	out = append(out, feature{col: Column{Name: colGamesPlayed, Class: ClassVolume}, value: games})
	if scope == model.ScopeCareer {
		out = append(out, feature{col: Column{Name: colSeasonsPlayed, Class: ClassVolume}, value: seasons})
	}
	out = append(out, efficiency(pos)...)
	out = append(out, perGame(pos)...)
	return out, nil
}

func efficiency(pos model.Position) []feature {
	switch pos {
	case model.PositionQB:
		return []feature{
			eff("completion_pct", ClassEfficiency, ratio(model.StatCompletions, model.StatAttempts)),
			eff("yards_per_attempt", ClassEfficiency, ratio(model.StatPassingYards, model.StatAttempts)),
			eff("td_percentage", ClassEfficiency, ratio(model.StatPassingTDs, model.StatAttempts)),
			eff("int_percentage", ClassEfficiency, ratio(model.StatInterceptions, model.StatAttempts)),
			eff("air_yards_per_attempt", ClassEfficiency, ratio(model.StatPassingAirYards, model.StatAttempts)),
			eff("sack_percentage", ClassEfficiency, over(sumOf(model.StatSacks), sumOf(model.StatAttempts, model.StatSacks))),
			eff("epa_per_dropback", ClassEPA, over(sumOf(model.StatPassingEPA), sumOf(model.StatAttempts, model.StatSacks))),
		}
	case model.PositionRB:
		return []feature{
			eff("yards_per_carry", ClassEfficiency, ratio(model.StatRushingYards, model.StatCarries)),
			eff("rushing_td_rate", ClassEfficiency, ratio(model.StatRushingTDs, model.StatCarries)),
			eff("yards_per_touch", ClassEfficiency, over(
				sumOf(model.StatRushingYards, model.StatReceivingYards),
				sumOf(model.StatCarries, model.StatReceptions))),
			eff("yprr", ClassEfficiency, ratio(model.StatReceivingYards, model.StatRoutes)),
			eff("tprr", ClassEfficiency, ratio(model.StatTargets, model.StatRoutes)),
			eff("rushing_epa_per_carry", ClassEPA, ratio(model.StatRushingEPA, model.StatCarries)),
			eff("receiving_epa_per_target", ClassEPA, ratio(model.StatReceivingEPA, model.StatTargets)),
		}
	default:
		return []feature{
			eff("catch_percentage", ClassEfficiency, ratio(model.StatReceptions, model.StatTargets)),
			eff("yards_per_target", ClassEfficiency, ratio(model.StatReceivingYards, model.StatTargets)),
			eff("yards_per_reception", ClassEfficiency, ratio(model.StatReceivingYards, model.StatReceptions)),
			eff("td_rate", ClassEfficiency, ratio(model.StatReceivingTDs, model.StatTargets)),
			eff("adot", ClassEfficiency, ratio(model.StatReceivingAirYards, model.StatTargets)),
			eff("racr", ClassEfficiency, ratio(model.StatReceivingYards, model.StatReceivingAirYards)),
			eff("yprr", ClassEfficiency, ratio(model.StatReceivingYards, model.StatRoutes)),
			eff("tprr", ClassEfficiency, ratio(model.StatTargets, model.StatRoutes)),
			eff("epa_per_route", ClassEPA, ratio(model.StatReceivingEPA, model.StatRoutes)),
		}
	}
}

func perGame(pos model.Position) []feature {
	switch pos {
	case model.PositionQB:
		return []feature{
			eff("passing_yards_per_game", ClassPerGame, over(sumOf(model.StatPassingYards), gamesSum)),
			eff("passing_tds_per_game", ClassPerGame, over(sumOf(model.StatPassingTDs), gamesSum)),
		}
	case model.PositionRB:
		return []feature{
			eff("rushing_yards_per_game", ClassPerGame, over(sumOf(model.StatRushingYards), gamesSum)),
			eff("total_tds_per_game", ClassPerGame, over(sumOf(model.StatRushingTDs, model.StatReceivingTDs), gamesSum)),
		}
	default:
		return []feature{
			eff("receiving_yards_per_game", ClassPerGame, over(sumOf(model.StatReceivingYards), gamesSum)),
			eff("receiving_tds_per_game", ClassPerGame, over(sumOf(model.StatReceivingTDs), gamesSum)),
		}
	}
}

func eff(name string, class WeightClass, v valueFunc) feature {
	return feature{col: Column{Name: name, Class: class}, value: v}
}

func total(f model.StatField) valueFunc {
	return func(a *Aggregate) (float64, bool) { return a.Total(f) }
}

func games(a *Aggregate) (float64, bool)   { return float64(a.Games), true }
func seasons(a *Aggregate) (float64, bool) { return float64(a.Seasons), true }

func gamesSum(a *Aggregate) (float64, bool) { return float64(a.Games), a.Games > 0 }

// sumOf adds the recorded fields; it is absent only when none were recorded.
func sumOf(fs ...model.StatField) valueFunc {
	return func(a *Aggregate) (float64, bool) {
		var sum float64
		var seen bool
		for _, f := range fs {
			if v, ok := a.Total(f); ok {
				sum += v
				seen = true
			}
		}
		return sum, seen
	}
}

func ratio(num, den model.StatField) valueFunc {
	return over(total(num), total(den))
}

// over divides num by den; a zero or absent denominator makes the result absent.
func over(num, den valueFunc) valueFunc {
	return func(a *Aggregate) (float64, bool) {
		n, ok := num(a)
		if !ok {
			return 0, false
		}
		d, ok := den(a)
		if !ok || d == 0 {
			return 0, false
		}
		return n / d, true
	}
}
