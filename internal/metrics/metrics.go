// Package metrics exposes Prometheus collectors for the live data pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "f1live"

var (
	// PollCycles counts poll loop iterations by outcome: live, idle, skipped
	PollCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "poller",
		Name:      "cycles_total",
		Help:      "Poll loop iterations by outcome.",
	}, []string{"outcome"})

	// ProviderErrors counts failed provider fetches
	ProviderErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "poller",
		Name:      "provider_errors_total",
		Help:      "Provider fetches that failed and were skipped.",
	})

	// DroppedCompetitors counts competitors skipped during transform
	DroppedCompetitors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "transform",
		Name:      "dropped_competitors_total",
		Help:      "Malformed competitor records skipped during normalization.",
	})

	// CacheReads counts facade cache lookups by category and result (hit/miss)
	CacheReads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "reads_total",
		Help:      "Snapshot cache reads by category and result.",
	}, []string{"category", "result"})

	// HistoricalFallbacks counts facade reads answered by the historical store
	HistoricalFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "facade",
		Name:      "historical_fallbacks_total",
		Help:      "Reads served from historical storage instead of the live cache.",
	}, []string{"category"})

	// ConnectedClients tracks active websocket subscribers
	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "ws",
		Name:      "connected_clients",
		Help:      "Currently connected websocket clients.",
	})
)
