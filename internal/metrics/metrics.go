// Package metrics provides a Prometheus-backed acmatch.Observer.
//
// # Metrics
//
//   - <ns>_matches_total{result}: top-level Match calls (matched, no_match)
//   - <ns>_candidate_trials_total{operator,result}: AC candidates tried
//   - <ns>_rollbacks_total: bindings discarded by failed branches
//   - <ns>_match_duration_seconds: top-level Match latency
//
// # Thread Safety
//
// All operations are thread-safe via Prometheus's internal locking, so one
// Collector can observe a MatchBatch.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gitrdm/acmatch/pkg/acmatch"
)

// Collector records matcher events.
type Collector struct {
	// MatchesTotal counts top-level matches.
	// Labels: result (matched, no_match)
	MatchesTotal *prometheus.CounterVec

	// TrialsTotal counts AC candidate trials.
	// Labels: operator (Add, Sub, Mul, Div), result (hit, miss)
	TrialsTotal *prometheus.CounterVec

	// RollbacksTotal counts bindings discarded on failure.
	RollbacksTotal prometheus.Counter

	// MatchDuration measures top-level Match latency.
	MatchDuration prometheus.Histogram
}

var _ acmatch.Observer = (*Collector)(nil)

// New registers the collector's metrics with reg under namespace. Passing
// prometheus.DefaultRegisterer exposes them on the global registry.
func New(reg prometheus.Registerer, namespace string) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		MatchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_total",
			Help:      "Top-level pattern matches by result",
		}, []string{"result"}),
		TrialsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidate_trials_total",
			Help:      "Multiset candidates tried against AC sub-patterns",
		}, []string{"operator", "result"}),
		RollbacksTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rollbacks_total",
			Help:      "Substitution bindings discarded by failed branches",
		}),
		MatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_duration_seconds",
			Help:      "Top-level match duration",
			Buckets:   []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01, 0.1},
		}),
	}
}

// ObserveMatch implements acmatch.Observer.
func (c *Collector) ObserveMatch(matched bool, elapsed time.Duration) {
	result := "no_match"
	if matched {
		result = "matched"
	}
	c.MatchesTotal.WithLabelValues(result).Inc()
	c.MatchDuration.Observe(elapsed.Seconds())
}

// ObserveTrial implements acmatch.Observer.
func (c *Collector) ObserveTrial(op acmatch.Operator, matched bool) {
	result := "miss"
	if matched {
		result = "hit"
	}
	c.TrialsTotal.WithLabelValues(op.String(), result).Inc()
}

// ObserveRollback implements acmatch.Observer.
func (c *Collector) ObserveRollback(discarded int) {
	c.RollbacksTotal.Add(float64(discarded))
}
