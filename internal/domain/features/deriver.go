package features

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"github.com/okian/playersim/internal/domain/model"
	"golang.org/x/sync/errgroup"
)

// Derived is the output of the Deriver for one cohort.
// Aggregates and Matrix rows share the same order (ascending player id).
type Derived struct {
	Position        model.Position
	Scope           model.Scope
	Aggregates      []*Aggregate
	Matrix          Matrix
	RoutesEstimated bool
}

// Aggregate returns the aggregate for a player id.
func (d *Derived) Aggregate(id string) (*Aggregate, bool) {
	i, ok := d.Matrix.RowOf(id)
	if !ok {
		return nil, false
	}
	return d.Aggregates[i], true
}

// Deriver converts per-game rows into one feature vector per player.
type Deriver struct {
	workers int
}

// NewDeriver creates a Deriver with configuration options.
func NewDeriver(opts ...Option) *Deriver {
	d := &Deriver{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type rowKey struct {
	player string
	season int
	week   int
}

// Derive groups rows by player and computes the position's feature set.
// Rows for other positions are ignored. Duplicate (player, season, week)
// rows collapse to the last one seen.
func (d *Deriver) Derive(ctx context.Context, pos model.Position, scope model.Scope, rows []model.PlayerGameRow) (*Derived, error) {
	cat, err := catalog(pos, scope)
	if err != nil {
		return nil, err
	}

	byPlayer, err := groupRows(pos, scope, rows)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(byPlayer))
	for id := range byPlayer {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	aggs := make([]*Aggregate, len(ids))
	values := make([][]float64, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("derive %s: %w", id, err)
			}
			a := aggregate(pos, byPlayer[id])
			row := make([]float64, len(cat))
			for j, f := range cat {
				if v, ok := f.value(a); ok {
					row[j] = v
				} else {
					row[j] = Absent()
				}
			}
			aggs[i] = a
			values[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cols := make([]Column, len(cat))
	for j, f := range cat {
		cols[j] = f.col
	}
	m, err := NewMatrix(NewSchema(cols), ids, values)
	if err != nil {
		return nil, err
	}

	out := &Derived{Position: pos, Scope: scope, Aggregates: aggs, Matrix: m}
	for _, a := range aggs {
		if a.RoutesSource == model.RoutesEstimated {
			out.RoutesEstimated = true
			break
		}
	}
	return out, nil
}

func groupRows(pos model.Position, scope model.Scope, rows []model.PlayerGameRow) (map[string][]model.PlayerGameRow, error) {
	latest := make(map[rowKey]int, len(rows))
	order := make([]rowKey, 0, len(rows))
	season := 0
	for i := range rows {
		r := &rows[i]
		if r.Position != pos {
			continue
		}
		if scope == model.ScopeSeason {
			if season == 0 {
				season = r.Season
			} else if r.Season != season {
				return nil, fmt.Errorf("%w: %d and %d", ErrMixedSeason, season, r.Season)
			}
		}
		k := rowKey{r.PlayerID, r.Season, r.Week}
		if _, seen := latest[k]; !seen {
			order = append(order, k)
		}
		latest[k] = i
	}

	byPlayer := make(map[string][]model.PlayerGameRow)
	for _, k := range order {
		byPlayer[k.player] = append(byPlayer[k.player], rows[latest[k]])
	}
	return byPlayer, nil
}
