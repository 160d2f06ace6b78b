package repository

import (
	"time"

	"github.com/okian/playersim/pkg/logger"
)

// Default breaker configuration constants.
const (
	defaultBreakerName     = "row-source"
	defaultBreakerFailures = 5
	defaultBreakerTimeout  = 30 * time.Second
	defaultBreakerInterval = time.Minute
	defaultBreakerHalfOpen = 1
	defaultPostgresTable   = "player_games"
)

// PostgresOption applies a configuration option to the PostgresStore.
type PostgresOption func(*PostgresStore)

// WithTable sets the table rows are read from.
func WithTable(name string) PostgresOption {
	return func(s *PostgresStore) {
		if name != "" {
			s.table = name
		}
	}
}

// BreakerOption applies a configuration option to the BreakerSource.
type BreakerOption func(*breakerConfig)

type breakerConfig struct {
	name     string
	failures uint32
	timeout  time.Duration
	interval time.Duration
	logger   logger.Logger
}

// WithBreakerName names the breaker in logs and metrics.
func WithBreakerName(name string) BreakerOption {
	return func(c *breakerConfig) {
		if name != "" {
			c.name = name
		}
	}
}

// WithFailureThreshold sets the consecutive failures that open the breaker.
func WithFailureThreshold(n int) BreakerOption {
	return func(c *breakerConfig) {
		if n > 0 {
			c.failures = uint32(n) //nolint:gosec // bounded by the check above
		}
	}
}

// WithOpenTimeout sets how long the breaker stays open before probing.
func WithOpenTimeout(d time.Duration) BreakerOption {
	return func(c *breakerConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithBreakerLogger sets the logger for state changes.
func WithBreakerLogger(l logger.Logger) BreakerOption {
	return func(c *breakerConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
