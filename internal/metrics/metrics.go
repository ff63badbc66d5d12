// Package metrics provides the centralized Prometheus metrics registry for
// the results service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	EventsIngestedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "splitsight",
		Name:      "events_ingested_total",
		Help:      "Total number of events ingested",
	})
	EventRefreshesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "splitsight",
		Name:      "event_refreshes_total",
		Help:      "Total number of live-event refreshes",
	})
	ChartDataRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "splitsight",
		Name:      "chart_data_requests_total",
		Help:      "Total number of chart data requests by chart type",
	}, []string{"chart_type"})
	ResultCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "splitsight",
		Name:      "result_cache_hits_total",
		Help:      "Total number of computed-result cache hits",
	})
	ResultCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "splitsight",
		Name:      "result_cache_misses_total",
		Help:      "Total number of computed-result cache misses",
	})
	IngestionFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "splitsight",
		Name:      "ingestion_failures_total",
		Help:      "Total number of ingestion failures by source",
	}, []string{"source"})
)

// Gauge metrics
var (
	CompetitorsLoaded = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "splitsight",
		Name:      "competitors_loaded",
		Help:      "Number of competitors loaded per event",
	}, []string{"event_id"})
	WebsocketSubscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "splitsight",
		Name:      "websocket_subscribers",
		Help:      "Number of connected live-update subscribers",
	})
	LiveEvents = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "splitsight",
		Name:      "live_events",
		Help:      "Number of events currently being refreshed",
	})
)

// Histogram metrics
var (
	ChartDataDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "splitsight",
		Name:      "chart_data_duration_seconds",
		Help:      "Duration of chart data computation in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	IngestionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "splitsight",
		Name:      "ingestion_duration_seconds",
		Help:      "Duration of event ingestion in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(EventsIngestedTotal)
		registry.MustRegister(EventRefreshesTotal)
		registry.MustRegister(ChartDataRequestsTotal)
		registry.MustRegister(ResultCacheHitsTotal)
		registry.MustRegister(ResultCacheMissesTotal)
		registry.MustRegister(IngestionFailuresTotal)

		registry.MustRegister(CompetitorsLoaded)
		registry.MustRegister(WebsocketSubscribers)
		registry.MustRegister(LiveEvents)

		registry.MustRegister(ChartDataDuration)
		registry.MustRegister(IngestionDuration)
	})
	return registry
}

// Handler returns an HTTP handler serving the registry
func Handler() http.Handler {
	return promhttp.HandlerFor(InitRegistry(), promhttp.HandlerOpts{})
}
