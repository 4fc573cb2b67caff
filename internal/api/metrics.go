package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsRegistry holds all Prometheus metrics for the API
// ⭐ SSOT: 프로메테우스 지표는 여기서만 등록
type MetricsRegistry struct {
	registry *prometheus.Registry

	RequestDuration *prometheus.HistogramVec
	RequestTotal    *prometheus.CounterVec
	RateLimited     prometheus.Counter
	GateRuns        *prometheus.CounterVec
	BatchAssets     prometheus.Histogram
}

// NewMetricsRegistry creates a registry with all riskval metrics
func NewMetricsRegistry() *MetricsRegistry {
	m := &MetricsRegistry{
		registry: prometheus.NewRegistry(),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "riskval_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
			[]string{"path", "method"},
		),

		RequestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskval_http_requests_total",
				Help: "Total number of HTTP requests by path and status",
			},
			[]string{"path", "method", "status"},
		),

		RateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "riskval_http_rate_limited_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
		),

		GateRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskval_gate_runs_total",
				Help: "Total number of quality gate runs by outcome",
			},
			[]string{"outcome"},
		),

		BatchAssets: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "riskval_batch_assets",
				Help:    "Number of assets per metrics batch",
				Buckets: []float64{1, 5, 10, 50, 100, 500, 1000},
			},
		),
	}

	m.registry.MustRegister(
		m.RequestDuration,
		m.RequestTotal,
		m.RateLimited,
		m.GateRuns,
		m.BatchAssets,
	)

	return m
}

// Handler returns the /metrics scrape handler.
func (m *MetricsRegistry) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
