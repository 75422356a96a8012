package acmatch

import (
	"fmt"
	"io"
	"log/slog"
)

// Strategy selects how the AC search treats earlier commitments.
type Strategy int

const (
	// Greedy commits to the first candidate that matches each sub-pattern and
	// never revisits that choice. A pattern can therefore be reported as not
	// matching even though a different assignment of earlier sub-patterns
	// would have succeeded. This is the default.
	Greedy Strategy = iota

	// Exhaustive backtracks into earlier sub-patterns when a later one finds
	// no candidate, so it succeeds whenever some injective assignment exists.
	// The search is exponential in the worst case.
	Exhaustive
)

func (s Strategy) String() string {
	switch s {
	case Greedy:
		return "greedy"
	case Exhaustive:
		return "exhaustive"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy maps "greedy" or "exhaustive" to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "greedy", "":
		return Greedy, nil
	case "exhaustive":
		return Exhaustive, nil
	}
	return Greedy, fmt.Errorf("acmatch: unknown strategy %q", s)
}

// CandidateOrder is the order in which multiset elements are tried against an
// AC sub-pattern. Multisets have no canonical order, so the matcher fixes one
// to keep results reproducible.
type CandidateOrder int

const (
	// Ascending tries lower handles first. This is the default.
	Ascending CandidateOrder = iota
	// Descending tries higher handles first.
	Descending
)

func (o CandidateOrder) String() string {
	switch o {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	default:
		return fmt.Sprintf("CandidateOrder(%d)", int(o))
	}
}

// ParseCandidateOrder maps "ascending" or "descending" to a CandidateOrder.
func ParseCandidateOrder(s string) (CandidateOrder, error) {
	switch s {
	case "ascending", "":
		return Ascending, nil
	case "descending":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("acmatch: unknown candidate order %q", s)
}

// PatternOrder is the order in which the sub-patterns of an AC pattern are
// processed.
type PatternOrder int

const (
	// AsWritten processes sub-patterns left to right. This is the default.
	AsWritten PatternOrder = iota
	// ByGenerality processes literals first, then operator patterns, then
	// variables. The rest binder stays last. Ties keep their written order.
	ByGenerality
)

func (o PatternOrder) String() string {
	switch o {
	case AsWritten:
		return "as_written"
	case ByGenerality:
		return "generality"
	default:
		return fmt.Sprintf("PatternOrder(%d)", int(o))
	}
}

// ParsePatternOrder maps "as_written" or "generality" to a PatternOrder.
func ParsePatternOrder(s string) (PatternOrder, error) {
	switch s {
	case "as_written", "":
		return AsWritten, nil
	case "generality":
		return ByGenerality, nil
	}
	return AsWritten, fmt.Errorf("acmatch: unknown pattern order %q", s)
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithStrategy sets the AC search strategy.
func WithStrategy(s Strategy) Option {
	return func(m *Matcher) { m.strategy = s }
}

// WithCandidateOrder sets the candidate enumeration order.
func WithCandidateOrder(o CandidateOrder) Option {
	return func(m *Matcher) { m.candidateOrder = o }
}

// WithPatternOrder sets the sub-pattern processing order.
func WithPatternOrder(o PatternOrder) Option {
	return func(m *Matcher) { m.patternOrder = o }
}

// WithLogger sets the logger used for debug tracing. A nil logger discards.
func WithLogger(l *slog.Logger) Option {
	return func(m *Matcher) {
		if l == nil {
			l = discardLogger()
		}
		m.logger = l
	}
}

// WithObserver installs an event hook. A nil observer disables hooks.
func WithObserver(o Observer) Option {
	return func(m *Matcher) {
		if o == nil {
			o = noopObserver{}
		}
		m.observer = o
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
