package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outbound backend-call Prometheus metrics. One "backend" label value per
// remote collaborator: embedding, completion, index_query, index_upload.
var (
	BackendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopdex",
			Name:      "backend_requests_total",
			Help:      "Total number of outbound backend requests",
		},
		[]string{"backend", "model", "status"},
	)

	BackendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shopdex",
			Name:      "backend_request_duration_seconds",
			Help:      "Outbound backend request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"backend", "model"},
	)

	BackendTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopdex",
			Name:      "backend_tokens_total",
			Help:      "Total tokens consumed by embedding and completion calls",
		},
		[]string{"backend", "model", "type"},
	)

	RetrievalResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopdex",
			Name:      "retrieval_results_total",
			Help:      "Retrieval outcomes by strategy",
		},
		[]string{"strategy", "outcome"}, // "hit" / "empty" / "error"
	)
)

var backendMetricsRegistered bool

// RegisterBackendMetrics registers backend Prometheus metrics. Must be called once from main.
func RegisterBackendMetrics() {
	if backendMetricsRegistered {
		return
	}
	prometheus.MustRegister(BackendRequestsTotal)
	prometheus.MustRegister(BackendRequestDuration)
	prometheus.MustRegister(BackendTokensTotal)
	prometheus.MustRegister(RetrievalResultsTotal)
	backendMetricsRegistered = true
}
