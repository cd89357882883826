package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webdbassistant_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webdbassistant_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	modelRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webdbassistant_model_requests_total",
			Help: "Chat-completion calls by outcome.",
		},
		[]string{"outcome"},
	)

	sqlStatementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webdbassistant_sql_statements_total",
			Help: "Statements executed by origin and outcome.",
		},
		[]string{"origin", "outcome"},
	)

	extractionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webdbassistant_extractions_total",
			Help: "SQL extraction attempts on model replies by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDurationSeconds,
		modelRequestsTotal,
		sqlStatementsTotal,
		extractionsTotal,
	)
}

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Recorder receives domain events from the turn handlers.
type Recorder interface {
	ModelRequest(outcome string)
	Statement(origin, outcome string)
	Extraction(found bool)
}

// PrometheusRecorder records domain events into the default registry.
type PrometheusRecorder struct{}

func (PrometheusRecorder) ModelRequest(outcome string) {
	modelRequestsTotal.WithLabelValues(outcome).Inc()
}

func (PrometheusRecorder) Statement(origin, outcome string) {
	sqlStatementsTotal.WithLabelValues(origin, outcome).Inc()
}

func (PrometheusRecorder) Extraction(found bool) {
	result := "none"
	if found {
		result = "found"
	}
	extractionsTotal.WithLabelValues(result).Inc()
}

// NopRecorder discards all events.
type NopRecorder struct{}

func (NopRecorder) ModelRequest(string)      {}
func (NopRecorder) Statement(string, string) {}
func (NopRecorder) Extraction(bool)          {}

// MetricsHandler serves the default registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
