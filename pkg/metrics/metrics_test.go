package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "eventfacets")
			})
		})

		Convey("When creating with a custom namespace", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithNamespace("league"), WithPrometheusRegistry(registry))
			So(manager.RecordSeasonLoad("Upcoming", OutcomeFetched), ShouldBeNil)

			Convey("Then series are exported under it", func() {
				So(manager.namespace, ShouldEqual, "league")
				n, err := testutil.GatherAndCount(registry, "league_engine_season_loads_total")
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1)
			})
		})

		Convey("When an empty namespace or nil registry is given", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry), WithNamespace(""), WithPrometheusRegistry(nil))

			Convey("Then the defaults stay in place", func() {
				So(manager.namespace, ShouldEqual, "eventfacets")
				So(manager.registry, ShouldEqual, registry)
			})
		})
	})
}

func TestSeasonLoadMetrics(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When recording known outcomes", func() {
			So(manager.RecordSeasonLoad("Upcoming", OutcomeEmbedded), ShouldBeNil)
			So(manager.RecordSeasonLoad("Upcoming", OutcomeCacheHit), ShouldBeNil)
			So(manager.RecordSeasonLoad("Upcoming", OutcomeCacheHit), ShouldBeNil)

			Convey("Then counters track each outcome", func() {
				So(testutil.ToFloat64(manager.seasonLoads.WithLabelValues("Upcoming", OutcomeEmbedded)), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.seasonLoads.WithLabelValues("Upcoming", OutcomeCacheHit)), ShouldEqual, 2)
			})
		})

		Convey("When recording an unknown outcome", func() {
			err := manager.RecordSeasonLoad("Upcoming", "teleported")
			So(errors.Is(err, ErrUnknownOutcome), ShouldBeTrue)
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Then recorders do not panic", func() {
			So(func() {
				_ = RecordSeasonLoad("Season 2025", OutcomeFetched)
				RecordFetchLatency("Season 2025", 12)
				UpdateCachedSeasons(2)
				UpdateFacetValues("Format", 5)
				UpdateDisplayedEvents(40)
				UpdateVisibleEvents(12)
				RecordSelectionChange("Format", "select")
				RecordBackendQuery("future_events", 3)
				UpdateBackendEvents(100)
				RecordHTTPRequest("events", "GET", "200")
				RecordHTTPRequestDuration("events", "GET", "200", 4)
				RecordErrorByComponent("engine", "fetch")
				RecordErrorByType("server_error", "high")
				RecordErrorByEndpoint("events", "GET", "server_error")
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(8)
				RecordSystemGCPauseTime(0.4)
			}, ShouldNotPanic)
		})

		Convey("Then the gauges are exported on the custom registry", func() {
			UpdateFacetValues("Region", 7)
			So(testutil.ToFloat64(globalManager.facetValues.WithLabelValues("Region")), ShouldEqual, 7)
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}
