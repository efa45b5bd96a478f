package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path", "status"},
	)

	requestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_errors_total",
			Help: "Total number of requests rejected with a domain error",
		},
		[]string{"method", "path", "code"},
	)

	notificationsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_dispatched_total",
			Help: "Total number of in-app notifications written to the store",
		},
		[]string{"template"},
	)

	emailDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "email_deliveries_total",
			Help: "Total number of notification email delivery attempts",
		},
		[]string{"status"},
	)
)

// RecordRequest observes a completed HTTP request.
func RecordRequest(method, path string, status int, duration time.Duration) {
	httpRequestDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

// RecordError counts a request rejected with a domain error code.
func RecordError(method, path, code string) {
	requestErrors.WithLabelValues(method, path, code).Inc()
}

// RecordNotification counts a dispatched notification by template key.
func RecordNotification(template string) {
	notificationsDispatched.WithLabelValues(template).Inc()
}

// RecordEmail counts an email delivery attempt; status is "sent" or "failed".
func RecordEmail(status string) {
	emailDeliveries.WithLabelValues(status).Inc()
}
