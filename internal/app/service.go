// Package service answers similarity queries. It loads cohorts, prepares
// them through the engine, caches them and ranks candidates.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/playersim/internal/adapters/mq/queue"
	"github.com/okian/playersim/internal/adapters/mq/worker"
	"github.com/okian/playersim/internal/adapters/repository"
	"github.com/okian/playersim/internal/config"
	"github.com/okian/playersim/internal/domain/cluster"
	"github.com/okian/playersim/internal/domain/engine"
	"github.com/okian/playersim/internal/domain/features"
	"github.com/okian/playersim/internal/domain/model"
	"github.com/okian/playersim/internal/domain/reduce"
	"github.com/okian/playersim/internal/domain/scoring"
	"github.com/okian/playersim/pkg/logger"
	"github.com/okian/playersim/pkg/metrics"
)

const tierResult = "result"

// Service implements the similarity API.
type Service struct {
	mu sync.RWMutex

	cfg     *config.Config
	source  repository.RowSource
	engine  *engine.Engine
	cohorts *cohortCache
	results ResultCache
	logger  logger.Logger

	// warm-up
	warmQueue *queue.InMemoryQueue
	pool      *worker.Pool
	stopWarm  context.CancelFunc
	warmDone  chan struct{}
	started   bool
}

// New creates a Service reading cohorts from source.
func New(source repository.RowSource, opts ...Option) *Service {
	s := &Service{source: source, cfg: config.New()}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.engine == nil {
		s.engine = EngineFromConfig(s.cfg)
	}
	s.cohorts = newCohortCache(s.cfg.CacheSize, s.cfg.CacheTTL)
	return s
}

// EngineFromConfig builds an engine with the configured tuning.
func EngineFromConfig(cfg *config.Config) *engine.Engine {
	return engine.New(
		engine.WithDeriver(features.NewDeriver(features.WithWorkers(cfg.WorkerCount))),
		engine.WithReducer(reduce.NewReducer(
			reduce.WithVarianceThreshold(cfg.VarianceThreshold),
			reduce.WithMaxComponents(cfg.MaxComponents),
			reduce.WithMinCohort(cfg.MinCohortForReduction),
		)),
		engine.WithAssigner(cluster.NewAssigner(
			cluster.WithSeed(cfg.Seed),
			cluster.WithRestarts(cfg.ClusterRestarts),
			cluster.WithMaxClusters(cfg.MaxClustersSeason, cfg.MaxClustersCareer),
		)),
		engine.WithScorer(scoring.NewBlendedScorer(
			scoring.WithBlendWeights(cfg.BlendPhase2, cfg.BlendPhase1),
			scoring.WithClusterBonus(cfg.ClusterBonus),
		)),
		engine.WithWorkers(cfg.WorkerCount),
		engine.WithEligibility(engine.Eligibility{
			MinSeasonPoints:  cfg.MinSeasonPoints,
			MinCareerPoints:  cfg.MinCareerPoints,
			MinCareerSeasons: cfg.MinCareerSeasons,
		}),
		engine.WithStageObserver(func(stage string, d time.Duration) {
			metrics.RecordStageLatency(stage, d.Seconds())
		}),
	)
}

// FindSimilar ranks the players most similar to q.PlayerID.
func (s *Service) FindSimilar(ctx context.Context, q model.Query) (model.Response, error) {
	start := time.Now()
	deadline := start.Add(s.cfg.QueryBudget)

	q, err := s.normalize(q)
	if err != nil {
		metrics.RecordQuery(string(q.Scope), "invalid", time.Since(start).Seconds())
		return model.Response{}, err
	}
	key := s.cohortKey(q)
	queryID := uuid.NewString()
	log := s.logger.With(logger.String("query_id", queryID), logger.String("cohort", key.String()))

	rkey := resultKey(key, q.PlayerID, q.Limit)
	if resp, ok := s.cachedResult(ctx, rkey); ok {
		resp.Diagnostics.QueryID = queryID
		metrics.RecordQuery(string(q.Scope), "cached", time.Since(start).Seconds())
		return resp, nil
	}

	prepared, hit, err := s.cohorts.get(ctx, key, func(bctx context.Context) (*engine.Prepared, error) {
		return s.prepare(bctx, key, deadline)
	})
	if err != nil {
		metrics.RecordQuery(string(q.Scope), outcome(err), time.Since(start).Seconds())
		log.Warn(ctx, "cohort preparation failed", logger.Error(err))
		return model.Response{}, err
	}

	ranking, err := s.engine.Rank(prepared, q.PlayerID, q.Limit)
	if err != nil {
		metrics.RecordQuery(string(q.Scope), outcome(err), time.Since(start).Seconds())
		return model.Response{}, err
	}

	diag := prepared.Diagnostics()
	diag.QueryID = queryID
	diag.Eligible = ranking.Eligible
	resp := model.Response{Results: ranking.Results, Diagnostics: diag}
	if resp.Results == nil {
		resp.Results = []model.SimilarityResult{}
	}

	for _, r := range diag.Reasons {
		metrics.RecordDegraded(string(r))
	}
	if prepared.Cacheable() {
		s.storeResult(ctx, rkey, resp)
	}
	metrics.RecordQuery(string(q.Scope), "ok", time.Since(start).Seconds())
	log.Info(ctx, "similarity query answered",
		logger.String("player_id", q.PlayerID),
		logger.Int("results", len(resp.Results)),
		logger.String("phase", string(diag.Phase)),
		logger.Bool("degraded", diag.Degraded),
		logger.Bool("cohort_cached", hit),
		logger.String("took", time.Since(start).String()))
	return resp, nil
}

// normalize validates q and fills in the defaulted limit and season.
func (s *Service) normalize(q model.Query) (model.Query, error) {
	if q.PlayerID == "" {
		return q, fmt.Errorf("%w: player id is required", ErrInvalidQuery)
	}
	if _, err := model.ParsePosition(string(q.Position)); err != nil {
		return q, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	if _, err := model.ParseScope(string(q.Scope)); err != nil {
		return q, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	if q.Limit == 0 {
		q.Limit = s.cfg.DefaultLimit
	}
	if q.Limit < 1 || q.Limit > s.cfg.MaxLimit {
		return q, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidQuery, s.cfg.MaxLimit)
	}
	if q.Season == 0 {
		q.Season = s.cfg.CurrentSeason
	}
	if q.Season < s.cfg.HistoryStart {
		return q, fmt.Errorf("%w: season %d precedes %d", ErrInvalidQuery, q.Season, s.cfg.HistoryStart)
	}
	return q, nil
}

// cohortKey maps a validated query to the population it is compared in.
func (s *Service) cohortKey(q model.Query) model.CohortKey {
	from := q.Season
	if q.Scope == model.ScopeCareer {
		from = s.cfg.HistoryStart
	}
	return model.CohortKey{
		Position:        q.Position,
		Scope:           q.Scope,
		FromSeason:      from,
		ToSeason:        q.Season,
		ReferenceSeason: q.Season,
	}
}

// prepare loads and fits one cohort. A zero deadline means no budget.
func (s *Service) prepare(ctx context.Context, key model.CohortKey, deadline time.Time) (*engine.Prepared, error) {
	loadCtx, cancel := context.WithTimeout(ctx, s.cfg.LoadTimeout)
	defer cancel()

	start := time.Now()
	rows, err := s.source.Rows(loadCtx, repository.CohortQuery{
		Position:   key.Position,
		FromSeason: key.FromSeason,
		ToSeason:   key.ToSeason,
	})
	metrics.RecordLoaderLatency(time.Since(start).Seconds())

	partial := false
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded) && len(rows) > 0 && ctx.Err() == nil:
			partial = true
			metrics.RecordLoaderError("partial")
			s.logger.Warn(ctx, "cohort load hit its deadline, continuing on partial rows",
				logger.String("cohort", key.String()),
				logger.Int("rows", len(rows)))
		case errors.Is(err, context.DeadlineExceeded):
			metrics.RecordLoaderError("timeout")
			return nil, fmt.Errorf("%w: %s: %w", ErrTimeout, key, err)
		default:
			metrics.RecordLoaderError("source")
			return nil, fmt.Errorf("load cohort %s: %w", key, err)
		}
	}

	p, err := s.engine.Prepare(ctx, engine.Input{Key: key, Rows: rows, Partial: partial, Deadline: deadline})
	if err != nil {
		return nil, fmt.Errorf("prepare cohort %s: %w", key, err)
	}
	metrics.RecordCohortSize(string(key.Position), string(key.Scope), p.Size())
	s.logger.Debug(ctx, "cohort prepared",
		logger.String("cohort", key.String()),
		logger.Int("size", p.Size()),
		logger.String("phase", string(p.Phase())),
		logger.Int("dropped", len(p.Dropped)))
	return p, nil
}

// Warm prepares key into the cohort cache. It is a no-op when cached.
func (s *Service) Warm(ctx context.Context, key model.CohortKey) error {
	if s.cohorts.contains(key) {
		return nil
	}
	_, _, err := s.cohorts.get(ctx, key, func(bctx context.Context) (*engine.Prepared, error) {
		return s.prepare(bctx, key, time.Time{})
	})
	return err
}

func (s *Service) cachedResult(ctx context.Context, key string) (model.Response, bool) {
	if s.results == nil {
		return model.Response{}, false
	}
	resp, ok, err := s.results.Get(ctx, key)
	if err != nil {
		s.logger.Warn(ctx, "result cache read failed", logger.Error(err))
		return model.Response{}, false
	}
	if !ok {
		metrics.RecordCacheMiss(tierResult)
		return model.Response{}, false
	}
	metrics.RecordCacheHit(tierResult)
	return resp, true
}

func (s *Service) storeResult(ctx context.Context, key string, resp model.Response) {
	if s.results == nil {
		return
	}
	if err := s.results.Set(ctx, key, resp, s.cfg.ResultTTL); err != nil {
		s.logger.Warn(ctx, "result cache write failed", logger.Error(err))
	}
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cached := s.cohorts.len()
	metrics.UpdateCachedCohorts(cached)
	stats := map[string]any{
		"started":        s.started,
		"cachedCohorts":  cached,
		"cacheSize":      s.cfg.CacheSize,
		"warmCohorts":    len(s.cfg.WarmCohorts),
		"resultCache":    s.results != nil,
		"currentSeason":  s.cfg.CurrentSeason,
		"reductionFloor": s.cfg.MinCohortForReduction,
	}
	if b, ok := s.source.(interface{ State() string }); ok {
		stats["breaker"] = b.State()
	}
	if s.started && s.pool != nil {
		stats["warmQueueLength"] = s.warmQueue.Len(context.Background())
		stats["warmWorkers"] = s.pool.Size()
	}
	return stats
}
