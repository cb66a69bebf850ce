package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors exported by the feature API.
type Metrics struct {
	registry          *prometheus.Registry
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	transformDuration *prometheus.HistogramVec
	transformErrors   *prometheus.CounterVec
	buildingsTotal    *prometheus.CounterVec
}

// New creates a Metrics instance backed by its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		transformDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "feature_transform_duration_seconds",
			Help:    "Time spent decoding, transforming and encoding a payload.",
			Buckets: prometheus.DefBuckets,
		}, []string{"transform"}),
		transformErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feature_transform_errors_total",
			Help: "Transform requests that failed, by transform and error kind.",
		}, []string{"transform", "kind"}),
		buildingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feature_buildings_processed_total",
			Help: "Buildings transformed, by transform.",
		}, []string{"transform"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpDuration,
		m.transformDuration,
		m.transformErrors,
		m.buildingsTotal,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one handled HTTP request.
func (m *Metrics) ObserveRequest(route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

// ObserveTransform records a successful transform over buildings.
func (m *Metrics) ObserveTransform(transform string, buildings int, d time.Duration) {
	m.transformDuration.WithLabelValues(transform).Observe(d.Seconds())
	m.buildingsTotal.WithLabelValues(transform).Add(float64(buildings))
}

// TransformFailed counts a failed transform by error kind.
func (m *Metrics) TransformFailed(transform, kind string) {
	m.transformErrors.WithLabelValues(transform, kind).Inc()
}
