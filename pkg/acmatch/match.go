package acmatch

import (
	"log/slog"
	"time"

	"golang.org/x/exp/slices"
)

// Matcher matches patterns against arena expressions. A Matcher holds only
// configuration, so one value can serve any number of goroutines as long as
// each call gets its own Substitution.
type Matcher struct {
	strategy       Strategy
	candidateOrder CandidateOrder
	patternOrder   PatternOrder
	logger         *slog.Logger
	observer       Observer
}

// NewMatcher creates a matcher. Without options it is greedy, tries
// candidates in ascending handle order, keeps sub-patterns as written, logs
// nothing and observes nothing.
func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{
		strategy:       Greedy,
		candidateOrder: Ascending,
		patternOrder:   AsWritten,
		logger:         discardLogger(),
		observer:       noopObserver{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Strategy returns the configured AC search strategy.
func (m *Matcher) Strategy() Strategy { return m.strategy }

var defaultMatcher = NewMatcher()

// Match runs the default matcher. See (*Matcher).Match.
func Match(arena *Arena, expr Id, p Pattern, s *Substitution) bool {
	return defaultMatcher.Match(arena, expr, p, s)
}

// Match reports whether p matches the expression at expr, extending s with
// the bindings the match implies.
//
// Semantics, by pattern and node shape:
//   - ConstPattern vs Const: equal values
//   - VarPattern vs anything: binds on first sight, afterwards requires the
//     same handle (structural equality is not enough)
//   - OpPattern vs Op with the same operator: exactly two sub-patterns,
//     matched positionally, never swapped
//   - OpPattern vs OpAC with the same operator: multiset search, see below
//   - anything else: no match
//
// For an AC node the sub-patterns are processed in order against a working
// copy of the multiset. A rest binder takes whatever is left. Any other
// sub-pattern takes the first remaining element, in candidate order, that it
// matches; that element is removed. Elements left over when the list ends
// without a rest binder are ignored. With the Greedy strategy a sub-pattern
// that finds no candidate fails the whole AC match without reconsidering
// earlier choices.
//
// Match is transactional: on false, s holds exactly the bindings it held
// before the call.
//
// A MultisetPattern given as p, or met anywhere other than the end of an AC
// sub-pattern list, panics with a *ContractViolation, as do an out-of-range
// handle and a binary pattern without exactly two sub-patterns.
func (m *Matcher) Match(arena *Arena, expr Id, p Pattern, s *Substitution) bool {
	if _, ok := p.(MultisetPattern); ok {
		violate("Match", "top level multiset pattern %s not allowed", p)
	}
	start := time.Now()
	mark := s.snapshot()
	ok := m.match(arena, expr, p, s)
	if !ok {
		m.rollback(s, mark)
	}
	m.observer.ObserveMatch(ok, time.Since(start))
	return ok
}

func (m *Matcher) match(arena *Arena, expr Id, p Pattern, s *Substitution) bool {
	n := arena.Lookup(expr)
	switch p := p.(type) {
	case ConstPattern:
		c, ok := n.(Const)
		return ok && c.Value == p.Value
	case VarPattern:
		return s.bind(p.Name, Atom(expr))
	case OpPattern:
		switch n := n.(type) {
		case Op:
			if n.Operator != p.Operator {
				return false
			}
			return m.matchBinary(arena, n, p, s)
		case OpAC:
			if n.Operator != p.Operator {
				return false
			}
			return m.matchAC(arena, n, p, s)
		}
		return false
	case MultisetPattern:
		violate("Match", "multiset pattern %s outside an AC sub-pattern list", p)
	default:
		violate("Match", "unsupported pattern %T", p)
	}
	return false
}

func (m *Matcher) matchBinary(arena *Arena, n Op, p OpPattern, s *Substitution) bool {
	if len(p.Subs) != 2 {
		violate("Match", "binary pattern %s needs exactly 2 sub-patterns, got %d", p, len(p.Subs))
	}
	mark := s.snapshot()
	if m.match(arena, n.Args[0], p.Subs[0], s) && m.match(arena, n.Args[1], p.Subs[1], s) {
		return true
	}
	m.rollback(s, mark)
	return false
}

func (m *Matcher) matchAC(arena *Arena, n OpAC, p OpPattern, s *Substitution) bool {
	for _, sub := range p.Subs[:max(len(p.Subs)-1, 0)] {
		if rest, ok := sub.(MultisetPattern); ok {
			violate("Match", "multiset pattern %s must be the last sub-pattern", rest)
		}
	}
	mark := s.snapshot()
	if m.assign(arena, n.Operator, m.orderPatterns(p.Subs), n.Operands.Clone(), s) {
		return true
	}
	m.rollback(s, mark)
	return false
}

// assign matches subs against the remaining multiset, removing one occurrence
// per committed candidate.
func (m *Matcher) assign(arena *Arena, op Operator, subs []Pattern, remaining Multiset, s *Substitution) bool {
	if len(subs) == 0 {
		return true
	}
	if rest, ok := subs[0].(MultisetPattern); ok {
		if len(subs) > 1 {
			violate("Match", "multiset pattern %s must be the last sub-pattern", rest)
		}
		return s.bind(rest.Name, MultisetOf(remaining))
	}

	for _, id := range m.candidates(remaining) {
		mark := s.snapshot()
		ok := m.match(arena, id, subs[0], s)
		m.observer.ObserveTrial(op, ok)
		if !ok {
			m.rollback(s, mark)
			continue
		}

		remaining.Remove(id)
		m.logger.Debug("acmatch: committed candidate",
			slog.String("operator", op.String()),
			slog.String("pattern", subs[0].String()),
			slog.Int("candidate", int(id)))
		if m.assign(arena, op, subs[1:], remaining, s) {
			return true
		}
		remaining.Add(id)
		m.rollback(s, mark)

		if m.strategy == Greedy {
			return false
		}
	}
	return false
}

func (m *Matcher) candidates(remaining Multiset) []Id {
	keys := remaining.Keys()
	if m.candidateOrder == Descending {
		for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
			keys[i], keys[j] = keys[j], keys[i]
		}
	}
	return keys
}

func (m *Matcher) orderPatterns(subs []Pattern) []Pattern {
	if m.patternOrder != ByGenerality {
		return subs
	}
	ordered := slices.Clone(subs)
	slices.SortStableFunc(ordered, func(a, b Pattern) int {
		return generality(a) - generality(b)
	})
	return ordered
}

func (m *Matcher) rollback(s *Substitution, mark int) {
	if n := s.undo(mark); n > 0 {
		m.observer.ObserveRollback(n)
		m.logger.Debug("acmatch: rolled back bindings", slog.Int("discarded", n))
	}
}
