// Package metrics provides Prometheus metrics for the event filter service.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Season load outcomes.
const (
	OutcomeEmbedded = "embedded"
	OutcomeCacheHit = "cache_hit"
	OutcomeFetched  = "fetched"
	OutcomeError    = "error"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace string
	registry  prometheus.Registerer

	// Engine metrics
	seasonLoads      *prometheus.CounterVec
	fetchLatency     *prometheus.HistogramVec
	cachedSeasons    prometheus.Gauge
	facetValues      *prometheus.GaugeVec
	displayedEvents  prometheus.Gauge
	visibleEvents    prometheus.Gauge
	selectionChanges *prometheus.CounterVec

	// Backend metrics
	backendQueries      *prometheus.CounterVec
	backendQueryLatency prometheus.Histogram
	backendEventsTotal  prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "eventfacets",
		registry:  prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	latencyBuckets := []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}

	m.seasonLoads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "engine",
		Name:      "season_loads_total",
		Help:      "Season loads by season and outcome (embedded, cache_hit, fetched, error)",
	}, []string{"season", "outcome"})

	m.fetchLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "engine",
		Name:      "season_fetch_latency_milliseconds",
		Help:      "Latency of remote season fetches in milliseconds",
		Buckets:   latencyBuckets,
	}, []string{"season"})

	m.cachedSeasons = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "engine",
		Name:      "cached_seasons",
		Help:      "Number of seasons held in the process cache",
	})

	m.facetValues = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "engine",
		Name:      "facet_values",
		Help:      "Number of distinct values discovered per facet",
	}, []string{"facet"})

	m.displayedEvents = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "engine",
		Name:      "displayed_events",
		Help:      "Events in the currently displayed season",
	})

	m.visibleEvents = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "engine",
		Name:      "visible_events",
		Help:      "Displayed events passing every facet at last render",
	})

	m.selectionChanges = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "engine",
		Name:      "selection_changes_total",
		Help:      "Facet selection changes by facet and action (select, deselect, clear, reset)",
	}, []string{"facet", "action"})

	m.backendQueries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "backend",
		Name:      "queries_total",
		Help:      "Season backend store queries by endpoint",
	}, []string{"endpoint"})

	m.backendQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "backend",
		Name:      "query_latency_milliseconds",
		Help:      "Season backend store query latency in milliseconds",
		Buckets:   latencyBuckets,
	})

	m.backendEventsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "backend",
		Name:      "events_total",
		Help:      "Events held by the season backend store",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   latencyBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "errors",
		Name:      "by_component_total",
		Help:      "Errors by component and error type",
	}, []string{"component", "error_type"})

	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "errors",
		Name:      "by_type_total",
		Help:      "Errors by type and severity",
	}, []string{"error_type", "severity"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "errors",
		Name:      "by_endpoint_total",
		Help:      "Errors by HTTP endpoint, method and error type",
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_usage_bytes",
		Help:      "Current heap allocation in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutine_count",
		Help:      "Current number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "gc_pause_milliseconds",
		Help:      "Average GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordSeasonLoad counts one season load with the given outcome.
func (m *Manager) RecordSeasonLoad(season, outcome string) error {
	switch outcome {
	case OutcomeEmbedded, OutcomeCacheHit, OutcomeFetched, OutcomeError:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownOutcome, outcome)
	}
	m.seasonLoads.WithLabelValues(season, outcome).Inc()
	return nil
}

// RecordSeasonLoad counts one season load on the global manager.
func RecordSeasonLoad(season, outcome string) error {
	return globalManager.RecordSeasonLoad(season, outcome)
}

// RecordFetchLatency records a remote fetch duration in milliseconds.
func RecordFetchLatency(season string, latencyMs float64) {
	globalManager.fetchLatency.WithLabelValues(season).Observe(latencyMs)
}

// UpdateCachedSeasons sets the number of cached seasons.
func UpdateCachedSeasons(count int) {
	globalManager.cachedSeasons.Set(float64(count))
}

// UpdateFacetValues sets the number of discovered values for a facet.
func UpdateFacetValues(facet string, count int) {
	globalManager.facetValues.WithLabelValues(facet).Set(float64(count))
}

// UpdateDisplayedEvents sets the size of the displayed list.
func UpdateDisplayedEvents(count int) {
	globalManager.displayedEvents.Set(float64(count))
}

// UpdateVisibleEvents sets the number of visible events.
func UpdateVisibleEvents(count int) {
	globalManager.visibleEvents.Set(float64(count))
}

// RecordSelectionChange counts a facet selection change.
func RecordSelectionChange(facet, action string) {
	globalManager.selectionChanges.WithLabelValues(facet, action).Inc()
}

// RecordBackendQuery counts a backend store query and its latency.
func RecordBackendQuery(endpoint string, latencyMs float64) {
	globalManager.backendQueries.WithLabelValues(endpoint).Inc()
	globalManager.backendQueryLatency.Observe(latencyMs)
}

// UpdateBackendEvents sets the number of events in the backend store.
func UpdateBackendEvents(count int) {
	globalManager.backendEventsTotal.Set(float64(count))
}

// RecordHTTPRequest increments the HTTP requests counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records errors by component and type.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records errors by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records errors by HTTP endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the current memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the current goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom registry the global manager registers on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
