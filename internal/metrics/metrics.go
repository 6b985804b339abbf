// Package metrics exposes ambient, non-consensus-gating observability for
// the node: block-connect latency, rejected-transaction counts by error
// kind, and the pending-bundle gauge. Nothing in this package is read by
// internal/connector or internal/validator; it is purely additive.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BlockConnectDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "duskchain",
		Subsystem: "connector",
		Name:      "block_connect_duration_seconds",
		Help:      "Time taken to apply one block inside a single write transaction.",
		Buckets:   prometheus.DefBuckets,
	})

	RejectedTransactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "duskchain",
		Subsystem: "validator",
		Name:      "rejected_transactions_total",
		Help:      "Count of transactions rejected, labeled by error kind.",
	}, []string{"kind"})

	PendingBundle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "duskchain",
		Subsystem: "bundler",
		Name:      "pending_withdrawal_bundle",
		Help:      "1 if a withdrawal bundle is currently awaiting a parent-chain verdict, else 0.",
	})

	TipHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "duskchain",
		Subsystem: "ledger",
		Name:      "tip_height",
		Help:      "Height of the current sidechain tip.",
	})
)
