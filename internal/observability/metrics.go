package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the snapshot pipeline.
type Metrics struct {
	Searches       prometheus.Counter
	SearchFailures prometheus.Counter
	Routes         prometheus.Counter
	RouteFailures  prometheus.Counter

	ProviderRequests *prometheus.CounterVec   // labels: provider, op, outcome={success,error}
	ProviderDuration *prometheus.HistogramVec // labels: provider, op
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Searches,
		m.SearchFailures,
		m.Routes,
		m.RouteFailures,
		m.ProviderRequests,
		m.ProviderDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Searches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "geo_dashboard",
			Name:      "searches_total",
			Help:      "Total completed search snapshots.",
		}),
		SearchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "geo_dashboard",
			Name:      "search_failures_total",
			Help:      "Total searches aborted by an error.",
		}),
		Routes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "geo_dashboard",
			Name:      "routes_total",
			Help:      "Total computed routes.",
		}),
		RouteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "geo_dashboard",
			Name:      "route_failures_total",
			Help:      "Total route computations aborted by an error.",
		}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geo_dashboard",
			Name:      "provider_requests_total",
			Help:      "Outbound provider requests by provider, operation, and outcome.",
		}, []string{"provider", "op", "outcome"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "geo_dashboard",
			Name:      "provider_request_duration_seconds",
			Help:      "Outbound provider request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}, []string{"provider", "op"}),
	}
}

// ObserveProvider records one outbound provider request. Safe on a nil
// receiver so components without metrics wiring skip recording.
func (m *Metrics) ObserveProvider(provider, op string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.ProviderRequests.WithLabelValues(provider, op, outcome).Inc()
	m.ProviderDuration.WithLabelValues(provider, op).Observe(elapsed.Seconds())
}

// IncSearch records a search outcome. Safe on a nil receiver.
func (m *Metrics) IncSearch(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.SearchFailures.Inc()
		return
	}
	m.Searches.Inc()
}

// IncRoute records a route outcome. Safe on a nil receiver.
func (m *Metrics) IncRoute(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.RouteFailures.Inc()
		return
	}
	m.Routes.Inc()
}
