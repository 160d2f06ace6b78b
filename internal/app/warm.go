package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/playersim/internal/adapters/mq/queue"
	"github.com/okian/playersim/internal/adapters/mq/worker"
	"github.com/okian/playersim/internal/domain/model"
	"github.com/okian/playersim/pkg/logger"
)

const stopTimeout = 10 * time.Second

// ParseWarmCohort parses "POSITION:scope" into the key a default query
// for that pair would use.
func (s *Service) ParseWarmCohort(entry string) (model.CohortKey, error) {
	pos, scope, ok := strings.Cut(strings.TrimSpace(entry), ":")
	if !ok {
		return model.CohortKey{}, fmt.Errorf("%w: warm cohort %q, want POSITION:scope", ErrInvalidQuery, entry)
	}
	q, err := s.normalize(model.Query{
		PlayerID: "warm",
		Position: model.Position(strings.ToUpper(pos)),
		Scope:    model.Scope(strings.ToLower(scope)),
	})
	if err != nil {
		return model.CohortKey{}, err
	}
	return s.cohortKey(q), nil
}

// Start launches the cohort warmer when warm cohorts are configured.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	keys := make([]model.CohortKey, 0, len(s.cfg.WarmCohorts))
	for _, entry := range s.cfg.WarmCohorts {
		key, err := s.ParseWarmCohort(entry)
		if err != nil {
			return err
		}
		keys = append(keys, key)
	}

	s.started = true
	if len(keys) == 0 {
		s.logger.Info(ctx, "similarity service started", logger.String("warmer", "off"))
		return nil
	}

	s.warmQueue = queue.NewInMemoryQueue(queue.WithCapacity(s.cfg.QueueSize))
	s.pool = worker.NewPool(s.cfg.WorkerCount, s.warmQueue, s, worker.WithLogger(s.logger.Named("warmer")))
	s.pool.Start(ctx)

	wctx, cancel := context.WithCancel(ctx)
	s.stopWarm = cancel
	s.warmDone = make(chan struct{})
	go s.schedule(wctx, keys)

	s.logger.Info(ctx, "similarity service started",
		logger.Int("warm_cohorts", len(keys)),
		logger.Int("workers", s.pool.Size()),
		logger.String("interval", s.cfg.WarmInterval.String()))
	return nil
}

// schedule enqueues every key now and again on each interval tick.
func (s *Service) schedule(ctx context.Context, keys []model.CohortKey) {
	defer close(s.warmDone)
	enqueue := func() {
		for _, k := range keys {
			if !s.warmQueue.Enqueue(ctx, queue.Job{Key: k}) {
				s.logger.Debug(ctx, "warm job dropped", logger.String("cohort", k.String()))
			}
		}
	}
	enqueue()
	if s.cfg.WarmInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.WarmInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			enqueue()
		}
	}
}

// Stop halts the warmer and waits for in-flight warm-ups.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	if s.stopWarm != nil {
		s.stopWarm()
		<-s.warmDone
	}
	if s.pool != nil {
		ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		if err := s.pool.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "warm pool shutdown", logger.Error(err))
		}
	}
	s.started = false
	s.logger.Info(context.Background(), "similarity service stopped")
}
