// Package metrics exposes Prometheus instrumentation for the matching
// pipeline. Collectors are registered on the default registry and served by
// promhttp at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MatchRequests counts matching invocations by outcome: ok, not_found,
	// validation_error, fetch_error, cache_hit, error.
	MatchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matching",
		Name:      "requests_total",
		Help:      "Preference match requests by outcome.",
	}, []string{"outcome"})

	// MatchCandidates observes how many eligible candidates the hard filter
	// admits per request.
	MatchCandidates = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "matching",
		Name:      "candidates",
		Help:      "Eligible candidates per match request.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})

	// MatchDuration observes the end-to-end matching latency.
	MatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "matching",
		Name:      "duration_seconds",
		Help:      "End-to-end match request duration.",
		Buckets:   prometheus.DefBuckets,
	})
)

// ObserveMatch records one completed match request. The candidate histogram
// is fed by the engine, which is the only place the pre-ranking candidate
// count is known.
func ObserveMatch(outcome string, elapsed time.Duration) {
	MatchRequests.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		MatchDuration.Observe(elapsed.Seconds())
	}
}

// ObserveCandidates records how many eligible candidates one fetch admitted.
func ObserveCandidates(n int) {
	MatchCandidates.Observe(float64(n))
}
