// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesAnswered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_answers_total",
			Help: "Total number of questions answered, by response kind",
		},
		[]string{"kind"},
	)

	QueriesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_failures_total",
			Help: "Total number of questions rejected, by error code",
		},
		[]string{"error_code"},
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "query_duration_seconds",
			Help: "End-to-end duration of one interpret-and-answer cycle",
		},
		[]string{"kind"},
	)

	GeneratorFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generator_fallbacks_total",
			Help: "Times the deterministic template replaced the generator output",
		},
		[]string{"reason"},
	)

	LedgerCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_cache_requests_total",
			Help: "Aggregate cache lookups, by outcome",
		},
		[]string{"outcome"},
	)
)
