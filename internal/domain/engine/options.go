package engine

import (
	"time"

	"github.com/okian/playersim/internal/domain/cluster"
	"github.com/okian/playersim/internal/domain/features"
	"github.com/okian/playersim/internal/domain/reduce"
	"github.com/okian/playersim/internal/domain/scoring"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithDeriver sets the feature deriver.
func WithDeriver(d *features.Deriver) Option {
	return func(e *Engine) {
		if d != nil {
			e.deriver = d
		}
	}
}

// WithReducer sets the reducer.
func WithReducer(r *reduce.Reducer) Option {
	return func(e *Engine) {
		if r != nil {
			e.reducer = r
		}
	}
}

// WithAssigner sets the cluster assigner.
func WithAssigner(a *cluster.Assigner) Option {
	return func(e *Engine) {
		if a != nil {
			e.assigner = a
		}
	}
}

// WithScorer sets the similarity scorer.
func WithScorer(s scoring.Scorer) Option {
	return func(e *Engine) {
		if s != nil {
			e.scorer = s
		}
	}
}

// WithWorkers bounds the fan-out of per-column stages.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithEligibility sets the candidate filters.
func WithEligibility(el Eligibility) Option {
	return func(e *Engine) { e.eligibility = el }
}

// WithStageObserver receives the duration of each pipeline stage.
func WithStageObserver(fn func(stage string, d time.Duration)) Option {
	return func(e *Engine) {
		if fn != nil {
			e.observe = fn
		}
	}
}
