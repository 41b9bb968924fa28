// Package metrics provides Prometheus metrics for feed-hub.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PublishTotal counts accepted publish operations by kind (publish or
	// edit).
	PublishTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "feedhub",
			Name:      "publish_total",
			Help:      "Total number of accepted publish operations",
		},
		[]string{"feed", "kind"},
	)

	// RetractTotal counts retract operations by status.
	RetractTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "feedhub",
			Name:      "retract_total",
			Help:      "Total number of retract operations",
		},
		[]string{"feed", "status"},
	)

	// EvictionsTotal counts items evicted from bounded feeds.
	EvictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "feedhub",
			Name:      "evictions_total",
			Help:      "Total number of items evicted to enforce feed bounds",
		},
		[]string{"feed"},
	)

	// TxRetriesTotal counts transaction attempts aborted by a concurrent
	// writer and retried.
	TxRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "feedhub",
			Name:      "tx_retries_total",
			Help:      "Total number of optimistic transaction retries",
		},
		[]string{"operation"},
	)

	// OperationDuration measures publish/retract durations.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "feedhub",
			Name:      "operation_duration_seconds",
			Help:      "Duration of feed operations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"feed", "operation"},
	)

	// RedisConnectionStatus tracks Redis connection status.
	RedisConnectionStatus = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "feedhub",
			Name:      "redis_connection_status",
			Help:      "Redis connection status (1 = connected, 0 = disconnected)",
		},
	)
)

// RecordPublish records an accepted publish with its classification and the
// number of evictions it caused.
func RecordPublish(feed, kind string, evicted int, duration float64) {
	PublishTotal.WithLabelValues(feed, kind).Inc()
	OperationDuration.WithLabelValues(feed, "publish").Observe(duration)
	if evicted > 0 {
		EvictionsTotal.WithLabelValues(feed).Add(float64(evicted))
	}
}

// RecordRetract records a retract operation.
func RecordRetract(feed, status string, duration float64) {
	RetractTotal.WithLabelValues(feed, status).Inc()
	OperationDuration.WithLabelValues(feed, "retract").Observe(duration)
}

// RecordTxRetry records an aborted transaction attempt.
func RecordTxRetry(operation string) {
	TxRetriesTotal.WithLabelValues(operation).Inc()
}

// SetRedisConnected sets Redis connection status to connected.
func SetRedisConnected() {
	RedisConnectionStatus.Set(1)
}

// SetRedisDisconnected sets Redis connection status to disconnected.
func SetRedisDisconnected() {
	RedisConnectionStatus.Set(0)
}
