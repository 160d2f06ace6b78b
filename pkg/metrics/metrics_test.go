package metrics

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with custom options on a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("sim"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then metrics are registered under the namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.queriesTotal.WithLabelValues("season", "ok").Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var names []string
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_sim_queries_total")
			})
		})

		Convey("When empty options are given", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "playersim")
				So(manager.subsystem, ShouldEqual, "similarity")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When a query is recorded", func() {
			before := testutil.ToFloat64(globalManager.queriesTotal.WithLabelValues("career", "ok"))
			RecordQuery("career", "ok", 0.25)

			Convey("Then the counter moves by one", func() {
				after := testutil.ToFloat64(globalManager.queriesTotal.WithLabelValues("career", "ok"))
				So(after-before, ShouldEqual, 1)
			})
		})

		Convey("When cache lookups are recorded", func() {
			hits := testutil.ToFloat64(globalManager.cacheRequests.WithLabelValues("cohort", "hit"))
			misses := testutil.ToFloat64(globalManager.cacheRequests.WithLabelValues("cohort", "miss"))
			RecordCacheHit("cohort")
			RecordCacheMiss("cohort")
			RecordCacheMiss("cohort")

			Convey("Then hits and misses are split by label", func() {
				So(testutil.ToFloat64(globalManager.cacheRequests.WithLabelValues("cohort", "hit"))-hits, ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.cacheRequests.WithLabelValues("cohort", "miss"))-misses, ShouldEqual, 2)
			})
		})

		Convey("When gauges are updated", func() {
			UpdateCachedCohorts(7)
			UpdateBreakerState("rows", 2)
			UpdateQueueSize(3)

			Convey("Then they hold the last value", func() {
				So(testutil.ToFloat64(globalManager.cachedCohorts), ShouldEqual, 7)
				So(testutil.ToFloat64(globalManager.breakerState.WithLabelValues("rows")), ShouldEqual, 2)
				So(testutil.ToFloat64(globalManager.queueSize), ShouldEqual, 3)
			})
		})

		Convey("When every helper is called", func() {
			So(func() {
				RecordStageLatency("reduce", 0.01)
				RecordCohortSize("WR", "season", 120)
				RecordDegraded("insufficient_cohort")
				RecordLoaderLatency(0.2)
				RecordLoaderError("timeout")
				RecordHTTPRequest("/v1/players/similar", "GET", "200")
				RecordHTTPRequestDuration("/v1/players/similar", "GET", "200", 0.05)
				UpdateQueueCapacity(100)
				UpdateQueueUtilization(0.5)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
				UpdateWorkerCount(4)
				UpdateWorkerActiveCount(1)
				RecordWorkerProcessingLatency(1.5)
				RecordWorkerError()
				RecordErrorByComponent("loader", "timeout")
				RecordErrorByType("not_found", "warning")
				RecordErrorByEndpoint("/v1/players/similar", "GET", "not_found")
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})

		Convey("Then the registry is exposed", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent recorders", t, func() {
		before := testutil.ToFloat64(globalManager.degradedTotal.WithLabelValues("budget_exceeded"))
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 50; j++ {
					RecordDegraded("budget_exceeded")
				}
			}()
		}
		wg.Wait()

		Convey("Then no increments are lost", func() {
			after := testutil.ToFloat64(globalManager.degradedTotal.WithLabelValues("budget_exceeded"))
			So(after-before, ShouldEqual, 1000)
		})
	})
}

func TestConfigure(t *testing.T) {
	Convey("Given the global manager is reconfigured at startup", t, func() {
		prevManager, prevRegistry := globalManager, customRegistry
		defer func() { globalManager, customRegistry = prevManager, prevRegistry }()

		Configure(
			WithNamespace("league"),
			WithSubsystem("sim"),
			WithHistogramBuckets([]float64{0.5, 1}),
		)
		RecordQuery("season", "ok", 0.2)

		Convey("Then metrics are exposed under the new names and buckets", func() {
			So(GetRegistry(), ShouldNotEqual, prevRegistry)
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			var found bool
			for _, f := range families {
				if f.GetName() != "league_sim_query_duration_seconds" {
					continue
				}
				found = true
				So(f.GetMetric()[0].GetHistogram().GetBucket(), ShouldHaveLength, 2)
			}
			So(found, ShouldBeTrue)
		})
	})
}
