// Package reduce standardizes a cohort's feature matrix and projects it onto
// the leading principal components.
//
// The projection is deterministic: eigenvectors are sign-normalized so their
// largest-magnitude loading is positive, and no step draws random numbers.
package reduce

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/playersim/internal/domain/features"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Default reducer configuration constants.
const (
	defaultVarianceThreshold = 0.90
	defaultMaxComponents     = 15
	defaultMinCohort         = 11
)

// Result is the reduced representation of a cohort.
type Result struct {
	IDs        []string
	Vectors    [][]float64
	Components int
	Explained  float64
}

// Reducer runs standardization and PCA.
type Reducer struct {
	threshold     float64
	maxComponents int
	minCohort     int
}

// NewReducer creates a Reducer with configuration options.
func NewReducer(opts ...Option) *Reducer {
	r := &Reducer{
		threshold:     defaultVarianceThreshold,
		maxComponents: defaultMaxComponents,
		minCohort:     defaultMinCohort,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Enabled reports whether a cohort of n members is large enough to reduce.
func (r *Reducer) Enabled(n int) bool { return n >= r.minCohort }

// Degenerate returns the columns whose present values do not vary.
// A column with no present values is degenerate too.
func Degenerate(m features.Matrix) []int {
	var out []int
	for j := 0; j < m.Cols(); j++ {
		first, seen, varies := 0.0, false, false
		for i := 0; i < m.Rows(); i++ {
			v, ok := m.At(i, j)
			if !ok {
				continue
			}
			if !seen {
				first, seen = v, true
				continue
			}
			if v != first {
				varies = true
				break
			}
		}
		if !varies {
			out = append(out, j)
		}
	}
	return out
}

// Reduce projects m onto the smallest prefix of principal components covering
// the variance threshold, capped at min(maxComponents, features-1, rows-1).
// Absent cells are imputed with the column mean before standardizing.
func (r *Reducer) Reduce(m features.Matrix) (*Result, error) {
	n, p := m.Rows(), m.Cols()
	if !r.Enabled(n) {
		return nil, fmt.Errorf("%w: %d members", ErrCohortTooSmall, n)
	}
	if drop := Degenerate(m); len(drop) > 0 {
		var err error
		if m, err = m.DropColumns(drop); err != nil {
			return nil, fmt.Errorf("drop degenerate columns: %w", err)
		}
		p = m.Cols()
	}
	limit := min(r.maxComponents, p-1, n-1)
	if limit < 1 {
		return nil, fmt.Errorf("%w: %d features", ErrTooFewFeatures, p)
	}

	z := standardize(m)

	cov := mat.NewSymDense(p, nil)
	stat.CovarianceMatrix(cov, z, nil)

	var es mat.EigenSym
	if ok := es.Factorize(cov, true); !ok {
		return nil, ErrEigen
	}
	vals := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	order := make([]int, p)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return vals[order[a]] > vals[order[b]] })

	var total float64
	for _, v := range vals {
		total += math.Max(v, 0)
	}

	k, cum := 0, 0.0
	for k < limit {
		cum += math.Max(vals[order[k]], 0)
		k++
		if total > 0 && cum/total >= r.threshold {
			break
		}
	}

	basis := mat.NewDense(p, k, nil)
	for c := 0; c < k; c++ {
		col := mat.Col(nil, order[c], &vecs)
		orientSign(col)
		basis.SetCol(c, col)
	}

	var proj mat.Dense
	proj.Mul(z, basis)

	res := &Result{IDs: m.IDs(), Vectors: make([][]float64, n), Components: k}
	if total > 0 {
		res.Explained = cum / total
	}
	for i := 0; i < n; i++ {
		res.Vectors[i] = mat.Row(nil, i, &proj)
	}
	return res, nil
}

// standardize imputes absent cells with the column mean and scales each
// column to zero mean and unit population variance.
func standardize(m features.Matrix) *mat.Dense {
	n, p := m.Rows(), m.Cols()
	z := mat.NewDense(n, p, nil)
	for j := 0; j < p; j++ {
		col := m.Column(j)
		present := make([]float64, 0, n)
		for _, v := range col {
			if !features.IsAbsent(v) {
				present = append(present, v)
			}
		}
		mean := stat.Mean(present, nil)
		for i, v := range col {
			if features.IsAbsent(v) {
				col[i] = mean
			}
		}
		_, std := stat.PopMeanStdDev(col, nil)
		for i, v := range col {
			if std > 0 {
				z.Set(i, j, (v-mean)/std)
			}
		}
	}
	return z
}

// orientSign flips v so its largest-magnitude entry is positive.
func orientSign(v []float64) {
	best := 0
	for i := range v {
		if math.Abs(v[i]) > math.Abs(v[best]) {
			best = i
		}
	}
	if v[best] < 0 {
		for i := range v {
			v[i] = -v[i]
		}
	}
}
