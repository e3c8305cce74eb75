package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	PostMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_post_mutations_total",
			Help: "Blog post creates, updates and deletes.",
		},
		[]string{"op"},
	)

	PostCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_post_cache_lookups_total",
			Help: "Post cache lookups by result.",
		},
		[]string{"result"},
	)

	ContactMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_messages_total",
			Help: "Contact form submissions by outcome.",
		},
		[]string{"outcome"},
	)

	ImageUploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "image_upload_bytes",
			Help:    "Size of stored blog images after processing.",
			Buckets: prometheus.ExponentialBuckets(16*1024, 4, 7),
		},
	)
)
