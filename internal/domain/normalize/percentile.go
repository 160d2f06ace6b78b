// Package normalize replaces raw feature values with cohort-relative ranks.
package normalize

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"github.com/okian/playersim/internal/domain/features"
	"golang.org/x/sync/errgroup"
)

// Rank maps each present value to the fraction of present values strictly
// below it, so results fall in [0,1). Absent (NaN) inputs stay absent.
func Rank(values []float64) []float64 {
	present := make([]float64, 0, len(values))
	for _, v := range values {
		if !features.IsAbsent(v) {
			present = append(present, v)
		}
	}
	sort.Float64s(present)
	n := float64(len(present))

	out := make([]float64, len(values))
	for i, v := range values {
		if features.IsAbsent(v) {
			out[i] = features.Absent()
			continue
		}
		out[i] = float64(sort.SearchFloat64s(present, v)) / n
	}
	return out
}

// Percentiles ranks every column of m independently and returns a new matrix.
// Columns are ranked concurrently, bounded by workers.
func Percentiles(ctx context.Context, m features.Matrix, workers int) (features.Matrix, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	cols := make([][]float64, m.Cols())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for j := 0; j < m.Cols(); j++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("rank column %d: %w", j, err)
			}
			cols[j] = Rank(m.Column(j))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return features.Matrix{}, err
	}

	values := make([][]float64, m.Rows())
	for i := range values {
		row := make([]float64, m.Cols())
		for j := range cols {
			row[j] = cols[j][i]
		}
		values[i] = row
	}
	return m.WithValues(values)
}
