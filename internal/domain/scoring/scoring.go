// Package scoring computes and blends the two similarity scores.
//
// Phase-1 is a weighted Euclidean distance over percentile-normalized
// features. Phase-2 is cosine similarity in the reduced space with a bonus
// for sharing an archetype. Both are mapped to [0,100].
package scoring

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Default scoring configuration constants.
const (
	defaultPhase2Weight = 0.6
	defaultPhase1Weight = 0.4
	defaultClusterBonus = 10.0
	distanceScale       = 50.0
	maxScoreValue       = 100.0
)

// Option applies a configuration option to the BlendedScorer.
type Option func(*BlendedScorer)

// WithBlendWeights sets the Phase-2 and Phase-1 weights of the final score.
// Weights are normalized to sum to 1.
func WithBlendWeights(phase2, phase1 float64) Option {
	return func(s *BlendedScorer) {
		if phase2 >= 0 && phase1 >= 0 && phase2+phase1 > 0 {
			sum := phase2 + phase1
			s.phase2Weight = phase2 / sum
			s.phase1Weight = phase1 / sum
		}
	}
}

// WithClusterBonus sets the flat Phase-2 bonus for a shared cluster.
func WithClusterBonus(bonus float64) Option {
	return func(s *BlendedScorer) {
		if bonus >= 0 {
			s.clusterBonus = bonus
		}
	}
}

// Scorer computes similarity between two cohort members.
type Scorer interface {
	// Phase1 scores two normalized feature vectors under per-column weights.
	// It reports false when the vectors share no present column.
	Phase1(target, candidate, weights []float64) (float64, bool)
	// Phase2 scores two reduced vectors.
	Phase2(target, candidate []float64, sameCluster bool) float64
	// Blend combines both phases into the final score.
	Blend(phase2, phase1 float64) float64
}

// BlendedScorer implements Scorer with configurable blend weights.
type BlendedScorer struct {
	phase2Weight float64
	phase1Weight float64
	clusterBonus float64
}

// NewBlendedScorer creates a scorer with configuration options.
func NewBlendedScorer(opts ...Option) *BlendedScorer {
	s := &BlendedScorer{
		phase2Weight: defaultPhase2Weight,
		phase1Weight: defaultPhase1Weight,
		clusterBonus: defaultClusterBonus,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Phase1 returns max(0, 100 - 50*d) where d is the weighted RMS difference
// over columns present in both vectors.
func (s *BlendedScorer) Phase1(target, candidate, weights []float64) (float64, bool) {
	d, ok := Distance(target, candidate, weights)
	if !ok {
		return 0, false
	}
	return math.Max(0, maxScoreValue-d*distanceScale), true
}

// Distance is sqrt(sum(w*(a-b)^2) / sum(w)) over columns where both a and b
// are present (not NaN). It reports false when no column is shared.
func Distance(a, b, weights []float64) (float64, bool) {
	var num, den float64
	for j := range a {
		if math.IsNaN(a[j]) || math.IsNaN(b[j]) {
			continue
		}
		diff := a[j] - b[j]
		num += weights[j] * diff * diff
		den += weights[j]
	}
	if den == 0 {
		return 0, false
	}
	return math.Sqrt(num / den), true
}

// Phase2 returns 100*max(0, cos) plus the cluster bonus, capped at 100.
func (s *BlendedScorer) Phase2(target, candidate []float64, sameCluster bool) float64 {
	score := maxScoreValue * math.Max(0, Cosine(target, candidate))
	if sameCluster {
		score += s.clusterBonus
	}
	return math.Min(maxScoreValue, score)
}

// Cosine returns the cosine similarity of a and b. Two zero vectors are
// identical (1); a single zero vector is unrelated (0).
// Reduced vectors carry no absent cells.
func Cosine(a, b []float64) float64 {
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	switch {
	case na == 0 && nb == 0:
		return 1
	case na == 0 || nb == 0:
		return 0
	}
	return math.Max(-1, math.Min(1, floats.Dot(a, b)/(na*nb)))
}

// Blend weights the two phases and clamps the result to [0,100].
func (s *BlendedScorer) Blend(phase2, phase1 float64) float64 {
	v := s.phase2Weight*phase2 + s.phase1Weight*phase1
	return math.Max(0, math.Min(maxScoreValue, v))
}
