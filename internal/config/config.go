// Package config defines the service configuration and how it is loaded.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr is the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DBDriver selects the row store: sqlite or postgres.
	DBDriver string `koanf:"db_driver"`
	DBPath   string `koanf:"db_path"`
	DBURL    string `koanf:"db_url"`

	// RedisURL enables the ranked-result cache when set.
	RedisURL string `koanf:"redis_url"`

	// CacheSize and CacheTTL bound the prepared-cohort cache.
	CacheSize int           `koanf:"cache_size"`
	CacheTTL  time.Duration `koanf:"cache_ttl"`
	ResultTTL time.Duration `koanf:"result_ttl"`

	// LoadTimeout bounds cohort loading; QueryBudget bounds the whole query.
	LoadTimeout time.Duration `koanf:"load_timeout"`
	QueryBudget time.Duration `koanf:"query_budget"`

	WorkerCount int   `koanf:"worker_count"`
	QueueSize   int   `koanf:"queue_size"`
	Seed        int64 `koanf:"seed"`

	BlendPhase2       float64 `koanf:"blend_phase2"`
	BlendPhase1       float64 `koanf:"blend_phase1"`
	ClusterBonus      float64 `koanf:"cluster_bonus"`
	VarianceThreshold float64 `koanf:"variance_threshold"`
	MaxComponents     int     `koanf:"max_components"`

	// MinCohortForReduction is the smallest cohort that gets PCA and clustering.
	MinCohortForReduction int `koanf:"min_cohort_for_reduction"`
	MaxClustersSeason     int `koanf:"max_clusters_season"`
	MaxClustersCareer     int `koanf:"max_clusters_career"`
	ClusterRestarts       int `koanf:"cluster_restarts"`

	HistoryStart  int `koanf:"history_start"`
	CurrentSeason int `koanf:"current_season"`

	MinSeasonPoints  float64 `koanf:"min_season_points"`
	MinCareerPoints  float64 `koanf:"min_career_points"`
	MinCareerSeasons int     `koanf:"min_career_seasons"`

	DefaultLimit int `koanf:"default_limit"`
	MaxLimit     int `koanf:"max_limit"`

	// WarmCohorts lists "POSITION:scope" pairs prepared in the background.
	WarmCohorts  []string      `koanf:"warm_cohorts"`
	WarmInterval time.Duration `koanf:"warm_interval"`

	BreakerFailures int           `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`

	AllowedOrigins []string `koanf:"allowed_origins"`

	// Metrics naming; empty values keep the built-in names.
	MetricsNamespace string    `koanf:"metrics_namespace"`
	MetricsSubsystem string    `koanf:"metrics_subsystem"`
	MetricsBuckets   []float64 `koanf:"metrics_buckets"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":9080",
		DBDriver:              "sqlite",
		DBPath:                "playersim.db",
		CacheSize:             20,
		CacheTTL:              5 * time.Minute,
		ResultTTL:             5 * time.Minute,
		LoadTimeout:           5 * time.Second,
		QueryBudget:           2 * time.Second,
		WorkerCount:           runtime.NumCPU(),
		QueueSize:             64,
		Seed:                  42,
		BlendPhase2:           0.6,
		BlendPhase1:           0.4,
		ClusterBonus:          10,
		VarianceThreshold:     0.90,
		MaxComponents:         15,
		MinCohortForReduction: 11,
		MaxClustersSeason:     6,
		MaxClustersCareer:     8,
		ClusterRestarts:       10,
		HistoryStart:          1999,
		CurrentSeason:         2024,
		MinSeasonPoints:       10,
		MinCareerPoints:       50,
		MinCareerSeasons:      2,
		DefaultLimit:          10,
		MaxLimit:              50,
		WarmInterval:          10 * time.Minute,
		BreakerFailures:       5,
		BreakerTimeout:        30 * time.Second,
		AllowedOrigins:        []string{"*"},
		MetricsNamespace:      "playersim",
		MetricsSubsystem:      "similarity",
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DBDriver != "sqlite" && c.DBDriver != "postgres":
		return fmt.Errorf("%w: db_driver %q", ErrInvalidConfig, c.DBDriver)
	case c.DBDriver == "postgres" && c.DBURL == "":
		return fmt.Errorf("%w: db_url required for postgres", ErrInvalidConfig)
	case c.DBDriver == "sqlite" && c.DBPath == "":
		return fmt.Errorf("%w: db_path required for sqlite", ErrInvalidConfig)
	case c.CacheSize <= 0 || c.CacheTTL <= 0:
		return fmt.Errorf("%w: cache_size and cache_ttl must be positive", ErrInvalidConfig)
	case c.LoadTimeout <= 0 || c.QueryBudget <= 0:
		return fmt.Errorf("%w: load_timeout and query_budget must be positive", ErrInvalidConfig)
	case c.WorkerCount <= 0 || c.QueueSize <= 0:
		return fmt.Errorf("%w: worker_count and queue_size must be positive", ErrInvalidConfig)
	case c.BlendPhase1 < 0 || c.BlendPhase2 < 0 || c.BlendPhase1+c.BlendPhase2 == 0:
		return fmt.Errorf("%w: blend weights", ErrInvalidConfig)
	case c.VarianceThreshold <= 0 || c.VarianceThreshold > 1:
		return fmt.Errorf("%w: variance_threshold must be in (0,1]", ErrInvalidConfig)
	case c.MaxComponents < 1 || c.MinCohortForReduction < 3:
		return fmt.Errorf("%w: reduction bounds", ErrInvalidConfig)
	case c.ClusterRestarts < 1:
		return fmt.Errorf("%w: cluster_restarts must be positive", ErrInvalidConfig)
	case c.HistoryStart <= 0 || c.CurrentSeason < c.HistoryStart:
		return fmt.Errorf("%w: seasons %d-%d", ErrInvalidConfig, c.HistoryStart, c.CurrentSeason)
	case c.DefaultLimit < 1 || c.MaxLimit < c.DefaultLimit:
		return fmt.Errorf("%w: limits", ErrInvalidConfig)
	}
	for i := 1; i < len(c.MetricsBuckets); i++ {
		if c.MetricsBuckets[i] <= c.MetricsBuckets[i-1] {
			return fmt.Errorf("%w: metrics_buckets must increase", ErrInvalidConfig)
		}
	}
	if _, err := LogLevelValid(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// LogLevelValid normalizes a log level name.
func LogLevelValid(level string) (string, error) {
	l := strings.ToLower(strings.TrimSpace(level))
	switch l {
	case "", "debug", "info", "warn", "warning", "error":
		return l, nil
	}
	return "", fmt.Errorf("%w: log_level %q", ErrInvalidConfig, level)
}
