package acmatch

import "time"

// Observer receives matcher events. Implementations used with MatchBatch
// must be safe for concurrent use.
type Observer interface {
	// ObserveMatch is called once per top-level Match call.
	ObserveMatch(matched bool, elapsed time.Duration)

	// ObserveTrial is called for every candidate tried against an AC
	// sub-pattern.
	ObserveTrial(op Operator, matched bool)

	// ObserveRollback is called when a failed branch discards bindings.
	ObserveRollback(discarded int)
}

type noopObserver struct{}

func (noopObserver) ObserveMatch(bool, time.Duration) {}
func (noopObserver) ObserveTrial(Operator, bool)      {}
func (noopObserver) ObserveRollback(int)              {}
