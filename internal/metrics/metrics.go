// Package metrics declares the Prometheus collectors exported by the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "life"

var (
	// RepositoryOperations counts repository calls by collection, operation and result.
	RepositoryOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "repository",
		Name:      "operations_total",
		Help:      "Repository operations by collection, operation and result.",
	}, []string{"collection", "operation", "result"})

	// RepositoryLatency observes repository call durations.
	RepositoryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "repository",
		Name:      "operation_seconds",
		Help:      "Repository operation latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"collection", "operation"})

	// ChangesPublished counts change-feed messages by result.
	ChangesPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "changefeed",
		Name:      "published_total",
		Help:      "Change feed messages published, by result.",
	}, []string{"result"})
)
