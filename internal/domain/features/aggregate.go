package features

import (
	"sort"

	"github.com/okian/playersim/internal/domain/model"
)

// Aggregate is one player's totals over the scope of a query.
// It is built once by the Deriver and only read afterwards.
type Aggregate struct {
	PlayerID     string
	Name         string
	Position     model.Position
	Games        int
	Seasons      int
	RoutesSource model.RoutesSource

	totals       map[model.StatField]float64
	seasonTotals map[int]map[model.StatField]float64
}

// Total returns the summed value of f and whether any row recorded it.
func (a *Aggregate) Total(f model.StatField) (float64, bool) {
	v, ok := a.totals[f]
	return v, ok
}

// SeasonTotal returns the player's total of f within one season.
func (a *Aggregate) SeasonTotal(season int, f model.StatField) (float64, bool) {
	st, ok := a.seasonTotals[season]
	if !ok {
		return 0, false
	}
	v, ok := st[f]
	return v, ok
}

// SeasonList returns the seasons the player appeared in, ascending.
func (a *Aggregate) SeasonList() []int {
	out := make([]int, 0, len(a.seasonTotals))
	for s := range a.seasonTotals {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}

type gameKey struct {
	season int
	week   int
}

// aggregate folds one player's deduplicated rows.
func aggregate(pos model.Position, rows []model.PlayerGameRow) *Aggregate {
	a := &Aggregate{
		Position:     pos,
		RoutesSource: model.RoutesNone,
		totals:       make(map[model.StatField]float64),
		seasonTotals: make(map[int]map[model.StatField]float64),
	}
	games := make(map[gameKey]struct{}, len(rows))
	for i := range rows {
		r := &rows[i]
		a.PlayerID = r.PlayerID
		if r.Name != "" {
			a.Name = r.Name
		}
		games[gameKey{r.Season, r.Week}] = struct{}{}
		st, ok := a.seasonTotals[r.Season]
		if !ok {
			st = make(map[model.StatField]float64)
			a.seasonTotals[r.Season] = st
		}
		for f, v := range r.Stats {
			if f == model.StatRoutes && !pos.RunsRoutes() {
				continue
			}
			a.totals[f] += v
			st[f] += v
		}
		if _, ok := r.Stat(model.StatRoutes); ok && pos.RunsRoutes() {
			a.RoutesSource = mergeRoutesSource(a.RoutesSource, r.RoutesSource)
		}
	}
	if !pos.RunsRoutes() {
		a.totals[model.StatRoutes] = 0
	}
	a.Games = len(games)
	a.Seasons = len(a.seasonTotals)
	return a
}

// mergeRoutesSource keeps the weakest provenance seen: estimated beats measured.
func mergeRoutesSource(cur, next model.RoutesSource) model.RoutesSource {
	switch {
	case cur == model.RoutesEstimated || next == model.RoutesEstimated:
		return model.RoutesEstimated
	case next == model.RoutesMeasured || cur == model.RoutesMeasured:
		return model.RoutesMeasured
	default:
		return cur
	}
}
