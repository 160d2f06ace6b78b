// Package cluster groups reduced player vectors into archetypes with k-means.
package cluster

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/okian/playersim/internal/domain/model"
)

// Default clustering configuration constants.
const (
	defaultSeed       = 42
	defaultRestarts   = 10
	defaultMaxIter    = 300
	defaultTolerance  = 1e-4
	defaultMaxSeason  = 6
	defaultMaxCareer  = 8
	membersPerCluster = 3
)

// ErrTooFewPoints is returned when k exceeds the number of vectors.
var ErrTooFewPoints = errors.New("fewer vectors than clusters")

// Result is a clustering of a cohort.
type Result struct {
	Labels  []int
	K       int
	Inertia float64
}

// Assigner runs seeded k-means with several restarts.
type Assigner struct {
	seed      int64
	restarts  int
	maxIter   int
	tol       float64
	maxSeason int
	maxCareer int
}

// NewAssigner creates an Assigner with configuration options.
func NewAssigner(opts ...Option) *Assigner {
	a := &Assigner{
		seed:      defaultSeed,
		restarts:  defaultRestarts,
		maxIter:   defaultMaxIter,
		tol:       defaultTolerance,
		maxSeason: defaultMaxSeason,
		maxCareer: defaultMaxCareer,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// K returns the cluster count for a cohort of n: min(cap, n/3).
// Values below 2 mean clustering should be skipped.
func (a *Assigner) K(n int, scope model.Scope) int {
	limit := a.maxSeason
	if scope == model.ScopeCareer {
		limit = a.maxCareer
	}
	return min(limit, n/membersPerCluster)
}

// Assign partitions vectors into k clusters. The lowest-inertia run of all
// restarts wins; the generator is reseeded per call so results repeat.
func (a *Assigner) Assign(vectors [][]float64, k int) (*Result, error) {
	if k < 1 || k > len(vectors) {
		return nil, fmt.Errorf("%w: k=%d, n=%d", ErrTooFewPoints, k, len(vectors))
	}
	rng := rand.New(rand.NewSource(a.seed)) //nolint:gosec // deterministic seed for reproducible clustering

	var best *Result
	for r := 0; r < a.restarts; r++ {
		res := a.run(vectors, k, rng)
		if best == nil || res.Inertia < best.Inertia {
			best = res
		}
	}
	return best, nil
}

func (a *Assigner) run(vectors [][]float64, k int, rng *rand.Rand) *Result {
	centers := seedCenters(vectors, k, rng)
	labels := make([]int, len(vectors))
	for i := range labels {
		labels[i] = -1
	}

	for iter := 0; iter < a.maxIter; iter++ {
		changed := false
		for i, v := range vectors {
			c := nearest(v, centers)
			if c != labels[i] {
				labels[i] = c
				changed = true
			}
		}
		next := recenter(vectors, labels, centers)
		var shift float64
		for c := range centers {
			shift += sqDist(centers[c], next[c])
		}
		centers = next
		if !changed || shift <= a.tol {
			break
		}
	}

	// Final assignment against the settled centers.
	var inertia float64
	for i, v := range vectors {
		labels[i] = nearest(v, centers)
		inertia += sqDist(v, centers[labels[i]])
	}
	return &Result{Labels: labels, K: k, Inertia: inertia}
}

// seedCenters is k-means++: each new center is drawn with probability
// proportional to its squared distance from the nearest chosen center.
func seedCenters(vectors [][]float64, k int, rng *rand.Rand) [][]float64 {
	centers := make([][]float64, 0, k)
	centers = append(centers, clone(vectors[rng.Intn(len(vectors))]))
	d2 := make([]float64, len(vectors))
	for len(centers) < k {
		var total float64
		for i, v := range vectors {
			d2[i] = sqDist(v, centers[nearest(v, centers)])
			total += d2[i]
		}
		if total == 0 {
			centers = append(centers, clone(vectors[rng.Intn(len(vectors))]))
			continue
		}
		target := rng.Float64() * total
		pick := len(vectors) - 1
		for i, d := range d2 {
			target -= d
			if target < 0 {
				pick = i
				break
			}
		}
		centers = append(centers, clone(vectors[pick]))
	}
	return centers
}

// recenter averages each cluster; an empty cluster keeps its old center.
func recenter(vectors [][]float64, labels []int, prev [][]float64) [][]float64 {
	dim := len(prev[0])
	sums := make([][]float64, len(prev))
	counts := make([]int, len(prev))
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	for i, v := range vectors {
		c := labels[i]
		counts[c]++
		for d := range v {
			sums[c][d] += v[d]
		}
	}
	for c := range sums {
		if counts[c] == 0 {
			copy(sums[c], prev[c])
			continue
		}
		for d := range sums[c] {
			sums[c][d] /= float64(counts[c])
		}
	}
	return sums
}

// nearest returns the closest center, lowest index on ties.
func nearest(v []float64, centers [][]float64) int {
	best, bestD := 0, math.Inf(1)
	for c, center := range centers {
		if d := sqDist(v, center); d < bestD {
			best, bestD = c, d
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

func clone(v []float64) []float64 { return append([]float64(nil), v...) }
