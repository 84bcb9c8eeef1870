// Package observability provides metrics and tracing for the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studenthub_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// RateLimitRejections counts requests rejected by the rate limiter.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studenthub_rate_limit_rejections_total",
		Help: "Total number of requests rejected by the rate limiter",
	}, []string{"resource"})

	// MediaUploads counts attachment uploads to the media host by outcome.
	MediaUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studenthub_media_uploads_total",
		Help: "Total number of media uploads by outcome",
	}, []string{"outcome"})

	// MediaUploadLatency records upload latency against the media host.
	MediaUploadLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "studenthub_media_upload_latency_seconds",
		Help:    "Media host upload latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// EmailsSent counts outbound emails by outcome.
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studenthub_emails_sent_total",
		Help: "Total number of outbound emails by outcome",
	}, []string{"outcome"})
)
