package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const prefix = "imobcrm"

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Sequential job metrics
	JobsRunning = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_jobs_running",
			Help: "Whether a sequential job of the given kind is running (0 or 1)",
		},
		[]string{"kind"},
	)

	JobItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_job_items_total",
			Help: "Items processed by sequential jobs",
		},
		[]string{"kind", "result"},
	)

	JobsFinishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_jobs_finished_total",
			Help: "Sequential jobs by terminal state",
		},
		[]string{"kind", "state"},
	)

	// WhatsApp gateway metrics
	GatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_whatsapp_gateway_requests_total",
			Help: "Requests against the WhatsApp gateway",
		},
		[]string{"operation", "outcome"},
	)

	// Dashboard cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_dashboard_cache_hits_total",
			Help: "Dashboard summary cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_dashboard_cache_misses_total",
			Help: "Dashboard summary cache misses",
		},
	)
)

// RecordJobItem registra o resultado de um item de job (succeeded|failed|skipped)
func RecordJobItem(kind, result string) {
	JobItemsTotal.WithLabelValues(kind, result).Inc()
}

// RecordGatewayRequest registra uma chamada ao gateway (outcome: ok|error)
func RecordGatewayRequest(operation, outcome string) {
	GatewayRequestsTotal.WithLabelValues(operation, outcome).Inc()
}
