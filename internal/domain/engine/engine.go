// Package engine runs the similarity pipeline: derive, era-adjust,
// normalize, reduce, cluster, then score candidates against a target.
//
// Preparation does not depend on the target, so a Prepared cohort can be
// cached by its key and ranked for any member. Prepared values are never
// modified after Prepare returns and are safe for concurrent Rank calls.
package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/okian/playersim/internal/domain/cluster"
	"github.com/okian/playersim/internal/domain/era"
	"github.com/okian/playersim/internal/domain/features"
	"github.com/okian/playersim/internal/domain/model"
	"github.com/okian/playersim/internal/domain/normalize"
	"github.com/okian/playersim/internal/domain/reduce"
	"github.com/okian/playersim/internal/domain/scoring"
)

// Pipeline stage names reported to the stage observer.
const (
	StageDerive    = "derive"
	StageEra       = "era"
	StageNormalize = "normalize"
	StageReduce    = "reduce"
	StageCluster   = "cluster"
	StageRank      = "rank"
)

// Default eligibility thresholds.
const (
	defaultMinSeasonPoints  = 10
	defaultMinCareerPoints  = 50
	defaultMinCareerSeasons = 2
)

// Eligibility decides which cohort members may be returned as candidates.
// It never changes which members the cohort is fitted on.
type Eligibility struct {
	MinSeasonPoints  float64
	MinCareerPoints  float64
	MinCareerSeasons int
}

// DefaultEligibility returns the standard candidate filters.
func DefaultEligibility() Eligibility {
	return Eligibility{
		MinSeasonPoints:  defaultMinSeasonPoints,
		MinCareerPoints:  defaultMinCareerPoints,
		MinCareerSeasons: defaultMinCareerSeasons,
	}
}

func (el Eligibility) allows(scope model.Scope, a *features.Aggregate) bool {
	pts, _ := a.Total(model.StatFantasyPointsPPR)
	if scope == model.ScopeCareer {
		return a.Seasons >= el.MinCareerSeasons && pts >= el.MinCareerPoints
	}
	return pts >= el.MinSeasonPoints
}

// Input is everything Prepare needs for one cohort.
type Input struct {
	Key  model.CohortKey
	Rows []model.PlayerGameRow
	// Partial marks rows cut short by a loader timeout.
	Partial bool
	// Deadline is the wall-clock budget; once passed, reduction is skipped.
	Deadline time.Time
}

// Prepared is a fitted cohort, ready to rank any of its members.
type Prepared struct {
	Key         model.CohortKey
	Derived     *features.Derived
	Normalized  features.Matrix
	Weights     []float64
	Dropped     []string
	Reduced     *reduce.Result
	Labels      []int
	Clusters    int
	Reasons     []model.DegradeReason
	DataQuality []model.DataQualityFlag

	// full is Normalized before degenerate columns were dropped.
	full        features.Matrix
	fullWeights []float64
}

// Size returns the number of cohort members.
func (p *Prepared) Size() int { return p.Normalized.Rows() }

// Degraded reports whether Phase-2 was skipped.
func (p *Prepared) Degraded() bool { return len(p.Reasons) > 0 }

// Cacheable reports whether the cohort reflects complete data and an
// unhurried fit, so it can be reused by later queries.
func (p *Prepared) Cacheable() bool {
	for _, r := range p.Reasons {
		if r == model.DegradeBudgetExceeded || r == model.DegradePartialCohort {
			return false
		}
	}
	return true
}

// Phase returns which scoring path Rank uses.
func (p *Prepared) Phase() model.Phase {
	if p.Reduced != nil {
		return model.PhaseBlended
	}
	return model.PhaseOne
}

// Diagnostics summarizes how the cohort was fitted.
func (p *Prepared) Diagnostics() model.Diagnostics {
	d := model.Diagnostics{
		Cohort:          p.Key,
		CohortSize:      p.Size(),
		Phase:           p.Phase(),
		Clusters:        p.Clusters,
		DroppedFeatures: append([]string(nil), p.Dropped...),
		Degraded:        p.Degraded(),
		Reasons:         append([]model.DegradeReason(nil), p.Reasons...),
		DataQuality:     append([]model.DataQualityFlag(nil), p.DataQuality...),
	}
	if p.Reduced != nil {
		d.Components = p.Reduced.Components
	}
	return d
}

// Ranking is the ordered output of Rank.
type Ranking struct {
	Results  []model.SimilarityResult
	Eligible int
}

// Engine wires the pipeline stages together.
type Engine struct {
	deriver     *features.Deriver
	reducer     *reduce.Reducer
	assigner    *cluster.Assigner
	scorer      scoring.Scorer
	workers     int
	eligibility Eligibility
	observe     func(stage string, d time.Duration)
}

// New creates an Engine with configuration options.
func New(opts ...Option) *Engine {
	e := &Engine{
		deriver:     features.NewDeriver(),
		reducer:     reduce.NewReducer(),
		assigner:    cluster.NewAssigner(),
		scorer:      scoring.NewBlendedScorer(),
		workers:     runtime.NumCPU(),
		eligibility: DefaultEligibility(),
		observe:     func(string, time.Duration) {},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Prepare fits a cohort. It fails only when the context is cancelled or
// the rows cannot be derived; every other problem degrades to Phase-1.
func (e *Engine) Prepare(ctx context.Context, in Input) (*Prepared, error) {
	start := time.Now()
	derived, err := e.deriver.Derive(ctx, in.Key.Position, in.Key.Scope, in.Rows)
	if err != nil {
		return nil, fmt.Errorf("derive features: %w", err)
	}
	e.observe(StageDerive, time.Since(start))

	p := &Prepared{Key: in.Key, Derived: derived}
	if derived.RoutesEstimated {
		p.DataQuality = append(p.DataQuality, model.FlagRoutesEstimated)
	}

	raw := derived.Matrix
	if in.Key.Scope == model.ScopeCareer {
		start = time.Now()
		raw, err = era.Adjust(derived, era.Compute(derived))
		if err != nil {
			return nil, fmt.Errorf("era adjust: %w", err)
		}
		e.observe(StageEra, time.Since(start))
	}

	start = time.Now()
	norm, err := normalize.Percentiles(ctx, raw, e.workers)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	p.full = norm
	p.fullWeights = norm.Schema().Weights()
	if drop := reduce.Degenerate(norm); len(drop) > 0 {
		for _, j := range drop {
			p.Dropped = append(p.Dropped, norm.Schema().Column(j).Name)
		}
		norm, err = norm.DropColumns(drop)
		if err != nil {
			return nil, fmt.Errorf("drop degenerate columns: %w", err)
		}
	}
	p.Normalized = norm
	p.Weights = norm.Schema().Weights()
	e.observe(StageNormalize, time.Since(start))

	switch {
	case in.Partial:
		p.Reasons = append(p.Reasons, model.DegradePartialCohort)
		return p, nil
	case !e.reducer.Enabled(norm.Rows()):
		p.Reasons = append(p.Reasons, model.DegradeInsufficientCohort)
		return p, nil
	case !in.Deadline.IsZero() && !time.Now().Before(in.Deadline):
		p.Reasons = append(p.Reasons, model.DegradeBudgetExceeded)
		return p, nil
	}

	start = time.Now()
	red, err := e.reducer.Reduce(norm)
	switch {
	case errors.Is(err, reduce.ErrTooFewFeatures), errors.Is(err, reduce.ErrEigen):
		p.Reasons = append(p.Reasons, model.DegradeTooFewFeatures)
		return p, nil
	case err != nil:
		return nil, fmt.Errorf("reduce: %w", err)
	}
	p.Reduced = red
	e.observe(StageReduce, time.Since(start))

	if k := e.assigner.K(norm.Rows(), in.Key.Scope); k >= 2 {
		start = time.Now()
		res, err := e.assigner.Assign(red.Vectors, k)
		if err != nil {
			return nil, fmt.Errorf("cluster: %w", err)
		}
		p.Labels = res.Labels
		p.Clusters = res.K
		e.observe(StageCluster, time.Since(start))
	}
	return p, nil
}

// Rank scores every other eligible member against targetID and returns the
// top limit, by score descending then player id ascending. Members sharing
// no present column with the target are skipped.
func (e *Engine) Rank(p *Prepared, targetID string, limit int) (Ranking, error) {
	if limit <= 0 {
		return Ranking{}, ErrInvalidLimit
	}
	t, ok := p.Normalized.RowOf(targetID)
	if !ok {
		return Ranking{}, fmt.Errorf("%w: %s", ErrNotFound, targetID)
	}
	start := time.Now()
	defer func() { e.observe(StageRank, time.Since(start)) }()

	target := p.Normalized.Row(t)
	results := make([]model.SimilarityResult, 0, p.Size())
	for i := 0; i < p.Size(); i++ {
		if i == t {
			continue
		}
		agg := p.Derived.Aggregates[i]
		if !e.eligibility.allows(p.Key.Scope, agg) {
			continue
		}
		score, ok := e.scorer.Phase1(target, p.Normalized.Row(i), p.Weights)
		if !ok {
			// Dropped columns are constant, so a pair sharing only those is identical.
			if score, ok = e.scorer.Phase1(p.full.Row(t), p.full.Row(i), p.fullWeights); !ok {
				continue
			}
		}
		if p.Reduced != nil {
			same := p.Labels != nil && p.Labels[i] == p.Labels[t]
			score2 := e.scorer.Phase2(p.Reduced.Vectors[t], p.Reduced.Vectors[i], same)
			score = e.scorer.Blend(score2, score)
		}
		results = append(results, model.SimilarityResult{
			TargetID:    targetID,
			CandidateID: p.Normalized.ID(i),
			Name:        agg.Name,
			Score:       score,
		})
	}

	sort.Slice(results, func(a, b int) bool {
		if results[a].Score != results[b].Score {
			return results[a].Score > results[b].Score
		}
		return results[a].CandidateID < results[b].CandidateID
	})
	eligible := len(results)
	if len(results) > limit {
		results = results[:limit]
	}
	for i := range results {
		results[i].Rank = i + 1
	}
	return Ranking{Results: results, Eligible: eligible}, nil
}
