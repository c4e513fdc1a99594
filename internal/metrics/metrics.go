// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// workflowTransitionsTotal counts successful status changes per content kind
	workflowTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burst_workflow_transitions_total",
			Help: "Total number of content status transitions",
		},
		[]string{"kind", "from", "to"},
	)

	// workflowRejectedTotal counts transition attempts refused by the engine
	workflowRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burst_workflow_rejected_total",
			Help: "Total number of refused transition attempts",
		},
		[]string{"kind", "reason"}, // reason: invalid_transition|permission_denied|validation_error|concurrent_update
	)

	notificationsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "burst_notifications_created_total",
			Help: "Total number of in-app notifications created",
		},
	)

	emailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burst_emails_total",
			Help: "Total number of emails handled",
		},
		[]string{"status"}, // status: queued|sent|failed|dropped|dead_lettered
	)

	emailSendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "burst_email_send_duration_seconds",
			Help:    "Email send duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30},
		},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burst_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "burst_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordTransition records a completed status change
func RecordTransition(kind, from, to string) {
	workflowTransitionsTotal.WithLabelValues(kind, from, to).Inc()
}

// RecordTransitionRejected records a refused status change
func RecordTransitionRejected(kind, reason string) {
	workflowRejectedTotal.WithLabelValues(kind, reason).Inc()
}

// RecordNotificationCreated records an in-app notification
func RecordNotificationCreated() {
	notificationsCreatedTotal.Inc()
}

// RecordEmail records an email outcome
func RecordEmail(status string) {
	emailsTotal.WithLabelValues(status).Inc()
}

// RecordEmailSent records a delivered email and how long the send took
func RecordEmailSent(duration time.Duration) {
	emailsTotal.WithLabelValues("sent").Inc()
	emailSendDuration.Observe(duration.Seconds())
}

// RecordHTTPRequest records a served HTTP request
func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
