package retry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	retryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docgen_retry_attempts_total",
			Help: "Total number of attempts made by the retrier",
		},
		[]string{"operation", "status"},
	)

	retryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docgen_retry_duration_seconds",
			Help:    "Time spent in an operation including all retries",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		},
		[]string{"operation", "status"},
	)

	retryBackoff = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docgen_retry_backoff_seconds",
			Help:    "Backoff delay before the next attempt",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2},
		},
		[]string{"operation"},
	)
)
