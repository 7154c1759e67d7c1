package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard service.
type Metrics struct {
	Fetches        *prometheus.CounterVec // labels: trigger={search,location,unit,retry}, outcome={success,error,stale}
	FetchDuration  prometheus.Histogram
	SnapshotLoaded prometheus.Gauge
	PublishErrors  prometheus.Counter

	// Upstream (Open-Meteo) metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: endpoint={geocode,forecast}, outcome={success,error,empty}
	UpstreamDuration *prometheus.HistogramVec // labels: endpoint={geocode,forecast}
	GeocodeCache     *prometheus.CounterVec   // labels: result={hit,miss}
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.Fetches,
		m.FetchDuration,
		m.SnapshotLoaded,
		m.PublishErrors,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.GeocodeCache,
	)

	return m
}

// NewUnregisteredMetrics creates Metrics that are never exported, for
// one-shot commands that have no /metrics endpoint.
func NewUnregisteredMetrics() *Metrics {
	return newMetrics()
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard",
			Name:      "fetches_total",
			Help:      "Forecast fetch flows by trigger and outcome.",
		}, []string{"trigger", "outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dashboard",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a complete resolve-fetch-normalize flow.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SnapshotLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dashboard",
			Name:      "snapshot_loaded",
			Help:      "1 once a forecast snapshot is held, 0 before the first successful fetch.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dashboard",
			Name:      "snapshot_publish_errors_total",
			Help:      "Snapshots that could not be published to the sink topic.",
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard",
			Name:      "upstream_requests_total",
			Help:      "Open-Meteo API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dashboard",
			Name:      "upstream_duration_seconds",
			Help:      "Open-Meteo API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"endpoint"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
	}
}
