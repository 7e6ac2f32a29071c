package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "backdrop",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "backdrop",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	// Removal outcomes per strategy
	RemovalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "backdrop",
			Subsystem: "removal",
			Name:      "total",
			Help:      "Background removal attempts by strategy and outcome",
		},
		[]string{"strategy", "status"},
	)

	RemovalDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "backdrop",
			Subsystem: "removal",
			Name:      "duration_seconds",
			Help:      "Time spent inside a removal strategy",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 15, 60},
		},
		[]string{"strategy"},
	)

	UploadBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "backdrop",
			Subsystem: "api",
			Name:      "upload_bytes_total",
			Help:      "Total bytes accepted for processing",
		},
		[]string{"kind"},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "backdrop",
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Audit events handed to the broker",
		},
		[]string{"status"},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

func RecordRemoval(strategy, status string, durationSec float64) {
	RemovalsTotal.WithLabelValues(strategy, status).Inc()
	RemovalDuration.WithLabelValues(strategy).Observe(durationSec)
}

func RecordUpload(kind string, bytes int64) {
	UploadBytesTotal.WithLabelValues(kind).Add(float64(bytes))
}

func RecordEvent(status string) {
	EventsPublishedTotal.WithLabelValues(status).Inc()
}
