package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/playersim/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"PLAYERSIM_CONFIG",
	"PLAYERSIM_ADDR",
	"PLAYERSIM_QUERY_BUDGET",
	"PLAYERSIM_SEED",
	"PLAYERSIM_BLEND_PHASE2",
	"PLAYERSIM_BREAKER_FAILURES",
	"PLAYERSIM_DB_DRIVER",
}

func clearConfigEnvVars() {
	for _, v := range configEnvVars {
		_ = os.Unsetenv(v)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	f, err := os.CreateTemp(t.TempDir(), "playersim-*.yaml")
	if err != nil {
		t.Fatalf("create temp config: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	_ = f.Close()
	return f.Name()
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then the defaults come back", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.QueryBudget, convey.ShouldEqual, 2*time.Second)
			})
		})

		convey.Convey("When env vars are set", func() {
			_ = os.Setenv("PLAYERSIM_ADDR", ":8080")
			_ = os.Setenv("PLAYERSIM_QUERY_BUDGET", "750ms")
			_ = os.Setenv("PLAYERSIM_SEED", "7")
			_ = os.Setenv("PLAYERSIM_BREAKER_FAILURES", "3")

			cfg, err := config.Load(ctx)

			convey.Convey("Then they override the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueryBudget, convey.ShouldEqual, 750*time.Millisecond)
				convey.So(cfg.Seed, convey.ShouldEqual, 7)
				convey.So(cfg.BreakerFailures, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When a YAML file and env vars are both present", func() {
			path := createTempConfigFile(t, `
addr: ":9090"
blend_phase2: 0.7
blend_phase1: 0.3
warm_cohorts:
  - WR:career
  - QB:season
allowed_origins:
  - https://a.example
  - https://b.example
cache_ttl: 1m
cluster_restarts: 4
metrics_namespace: league
metrics_buckets: [0.01, 0.1, 1]
`)
			_ = os.Setenv("PLAYERSIM_CONFIG", path)
			_ = os.Setenv("PLAYERSIM_ADDR", ":7070")

			cfg, err := config.Load(ctx)

			convey.Convey("Then env wins over the file and the file wins over defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.BlendPhase2, convey.ShouldEqual, 0.7)
				convey.So(cfg.BlendPhase1, convey.ShouldEqual, 0.3)
				convey.So(cfg.WarmCohorts, convey.ShouldResemble, []string{"WR:career", "QB:season"})
				convey.So(cfg.AllowedOrigins, convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
				convey.So(cfg.CacheTTL, convey.ShouldEqual, time.Minute)
				convey.So(cfg.ClusterRestarts, convey.ShouldEqual, 4)
				convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "league")
				convey.So(cfg.MetricsSubsystem, convey.ShouldEqual, "similarity")
				convey.So(cfg.MetricsBuckets, convey.ShouldResemble, []float64{0.01, 0.1, 1})
			})
		})

		convey.Convey("When the YAML is malformed", func() {
			_ = os.Setenv("PLAYERSIM_CONFIG", createTempConfigFile(t, `invalid: yaml: content: [`))
			cfg, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When the file does not exist", func() {
			_ = os.Setenv("PLAYERSIM_CONFIG", "/non/existent/file.yaml")
			cfg, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When the result fails validation", func() {
			_ = os.Setenv("PLAYERSIM_DB_DRIVER", "postgres")
			cfg, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}
