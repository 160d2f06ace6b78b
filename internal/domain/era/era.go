// Package era rescales career totals so players from different seasons are
// compared against a common league baseline.
package era

import (
	"sort"

	"github.com/okian/playersim/internal/domain/features"
	"github.com/okian/playersim/internal/domain/model"
)

// Factors holds per (stat, season) adjustment factors for one cohort.
type Factors struct {
	reference map[model.StatField]int
	bySeason  map[model.StatField]map[int]float64
}

// Factor returns the adjustment for stat in season, if defined.
func (f Factors) Factor(stat model.StatField, season int) (float64, bool) {
	v, ok := f.bySeason[stat][season]
	return v, ok
}

// Reference returns the season every factor of stat is relative to.
func (f Factors) Reference(stat model.StatField) (int, bool) {
	s, ok := f.reference[stat]
	return s, ok
}

// Compute derives factors for every era-adjusted column of d.
//
// A season's mean is taken over the per-player season totals of players who
// recorded the stat that season. Seasons with a non-positive mean have no
// factor. The reference is the most recent season with a positive mean, and
// its factor is exactly 1.
func Compute(d *features.Derived) Factors {
	f := Factors{
		reference: make(map[model.StatField]int),
		bySeason:  make(map[model.StatField]map[int]float64),
	}
	schema := d.Matrix.Schema()
	for j := 0; j < schema.Len(); j++ {
		col := schema.Column(j)
		if !col.EraAdjusted {
			continue
		}
		means := seasonMeans(d.Aggregates, col.Stat)
		if len(means) == 0 {
			continue
		}
		seasons := make([]int, 0, len(means))
		for s := range means {
			seasons = append(seasons, s)
		}
		sort.Ints(seasons)
		ref := seasons[len(seasons)-1]
		refMean := means[ref]

		factors := make(map[int]float64, len(seasons))
		for _, s := range seasons {
			if s == ref {
				factors[s] = 1.0
				continue
			}
			factors[s] = refMean / means[s]
		}
		f.reference[col.Stat] = ref
		f.bySeason[col.Stat] = factors
	}
	return f
}

func seasonMeans(aggs []*features.Aggregate, stat model.StatField) map[int]float64 {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, a := range aggs {
		for _, s := range a.SeasonList() {
			if v, ok := a.SeasonTotal(s, stat); ok {
				sums[s] += v
				counts[s]++
			}
		}
	}
	means := make(map[int]float64, len(sums))
	for s, sum := range sums {
		if m := sum / float64(counts[s]); m > 0 {
			means[s] = m
		}
	}
	return means
}

// Multiplier is the unweighted mean of the defined factors over the seasons
// in which a recorded a nonzero value of stat. It is 1 when none apply.
func (f Factors) Multiplier(a *features.Aggregate, stat model.StatField) float64 {
	var sum float64
	var n int
	for _, s := range a.SeasonList() {
		v, ok := a.SeasonTotal(s, stat)
		if !ok || v == 0 {
			continue
		}
		if fac, ok := f.Factor(stat, s); ok {
			sum += fac
			n++
		}
	}
	if n == 0 {
		return 1.0
	}
	return sum / float64(n)
}

// Adjust returns a copy of d.Matrix with every era-adjusted total rescaled.
// Other columns, including ratios built from raw totals, are unchanged.
func Adjust(d *features.Derived, f Factors) (features.Matrix, error) {
	m := d.Matrix
	values := m.Values()
	schema := m.Schema()
	for j := 0; j < schema.Len(); j++ {
		col := schema.Column(j)
		if !col.EraAdjusted {
			continue
		}
		for i, a := range d.Aggregates {
			if features.IsAbsent(values[i][j]) {
				continue
			}
			values[i][j] *= f.Multiplier(a, col.Stat)
		}
	}
	return m.WithValues(values)
}
