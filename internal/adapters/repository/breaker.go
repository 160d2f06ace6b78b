package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/playersim/internal/domain/model"
	"github.com/okian/playersim/pkg/logger"
	"github.com/okian/playersim/pkg/metrics"
	gobreaker "github.com/sony/gobreaker/v2"
)

// BreakerSource guards a RowSource with a circuit breaker. Caller errors
// (bad ranges, cancellation) do not count as failures. Nothing is retried.
type BreakerSource struct {
	next RowSource
	cb   *gobreaker.CircuitBreaker[[]model.PlayerGameRow]
}

// NewBreakerSource wraps next.
func NewBreakerSource(next RowSource, opts ...BreakerOption) *BreakerSource {
	cfg := breakerConfig{
		name:     defaultBreakerName,
		failures: defaultBreakerFailures,
		timeout:  defaultBreakerTimeout,
		interval: defaultBreakerInterval,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	settings := gobreaker.Settings{
		Name:        cfg.name,
		MaxRequests: defaultBreakerHalfOpen,
		Interval:    cfg.interval,
		Timeout:     cfg.timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrInvalidRange) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.UpdateBreakerState(name, int(to))
			if cfg.logger != nil {
				cfg.logger.Warn(context.Background(), "row source breaker changed state",
					logger.String("breaker", name),
					logger.String("from", from.String()),
					logger.String("to", to.String()))
			}
		},
	}
	metrics.UpdateBreakerState(cfg.name, int(gobreaker.StateClosed))
	return &BreakerSource{next: next, cb: gobreaker.NewCircuitBreaker[[]model.PlayerGameRow](settings)}
}

// Rows loads through the breaker. An open breaker yields ErrUnavailable.
func (b *BreakerSource) Rows(ctx context.Context, q CohortQuery) ([]model.PlayerGameRow, error) {
	rows, err := b.cb.Execute(func() ([]model.PlayerGameRow, error) {
		return b.next.Rows(ctx, q)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.RecordLoaderError("breaker_open")
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return rows, err
}

// State returns the breaker state name.
func (b *BreakerSource) State() string {
	return b.cb.State().String()
}
