// Package metrics holds the Prometheus collectors of the server. They are registered with the default registry
// and exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_book_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "social_book_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Account metrics
	RegistrationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "social_book_registrations_total",
			Help: "Total number of registered users",
		},
	)

	ActivationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_book_activations_total",
			Help: "Total number of activation attempts by result",
		},
		[]string{"result"},
	)

	SessionsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "social_book_sessions_created_total",
			Help: "Total number of sessions created from a bearer credential",
		},
	)

	NotificationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_book_notification_failures_total",
			Help: "Total number of mails that could not be delivered by kind",
		},
		[]string{"kind"},
	)

	// Content metrics
	UploadedBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "social_book_uploaded_bytes_total",
			Help: "Total number of bytes stored for uploaded files",
		},
	)

	DownloadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "social_book_downloads_total",
			Help: "Total number of file downloads",
		},
	)
)
