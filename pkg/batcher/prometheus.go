package batcher

import "github.com/prometheus/client_golang/prometheus"

// Metrics used in monitoring service.
var (
	batchesSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of confirmed transaction batches",
			Name:      "batches_submitted",
			Namespace: "collectionmanager",
		},
	)

	batchesFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of rejected transaction batches",
			Name:      "batches_failed",
			Namespace: "collectionmanager",
		},
	)

	actionsSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of actions inside confirmed batches",
			Name:      "actions_submitted",
			Namespace: "collectionmanager",
		},
	)
)

func init() {
	prometheus.MustRegister(
		batchesSubmitted,
		batchesFailed,
		actionsSubmitted,
	)
}
