package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/playersim/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config", t, func() {
		cfg := config.New()

		convey.Convey("Then the similarity defaults are in place", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.BlendPhase2, convey.ShouldEqual, 0.6)
			convey.So(cfg.BlendPhase1, convey.ShouldEqual, 0.4)
			convey.So(cfg.ClusterBonus, convey.ShouldEqual, 10)
			convey.So(cfg.VarianceThreshold, convey.ShouldEqual, 0.90)
			convey.So(cfg.MaxComponents, convey.ShouldEqual, 15)
			convey.So(cfg.MinCohortForReduction, convey.ShouldEqual, 11)
			convey.So(cfg.MaxClustersSeason, convey.ShouldEqual, 6)
			convey.So(cfg.MaxClustersCareer, convey.ShouldEqual, 8)
			convey.So(cfg.ClusterRestarts, convey.ShouldEqual, 10)
			convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "playersim")
			convey.So(cfg.MetricsBuckets, convey.ShouldBeEmpty)
			convey.So(cfg.Seed, convey.ShouldEqual, 42)
			convey.So(cfg.CacheSize, convey.ShouldEqual, 20)
			convey.So(cfg.CacheTTL, convey.ShouldEqual, 5*time.Minute)
			convey.So(cfg.HistoryStart, convey.ShouldEqual, 1999)
			convey.So(cfg.DefaultLimit, convey.ShouldEqual, 10)
			convey.So(cfg.MaxLimit, convey.ShouldEqual, 50)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid settings", t, func() {
		cases := map[string]func(*config.Config){
			"unknown driver":     func(c *config.Config) { c.DBDriver = "mysql" },
			"postgres no url":    func(c *config.Config) { c.DBDriver = "postgres" },
			"zero blend":         func(c *config.Config) { c.BlendPhase1, c.BlendPhase2 = 0, 0 },
			"variance above one": func(c *config.Config) { c.VarianceThreshold = 1.5 },
			"inverted seasons":   func(c *config.Config) { c.CurrentSeason = 1990 },
			"limit above max":    func(c *config.Config) { c.DefaultLimit = 60 },
			"bad log level":      func(c *config.Config) { c.LogLevel = "chatty" },
			"zero budget":        func(c *config.Config) { c.QueryBudget = 0 },
			"no restarts":        func(c *config.Config) { c.ClusterRestarts = 0 },
			"unsorted buckets":   func(c *config.Config) { c.MetricsBuckets = []float64{0.5, 0.1} },
		}
		for name, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			_ = name
		}
	})
}
