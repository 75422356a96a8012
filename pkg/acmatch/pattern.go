package acmatch

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Pattern describes what a Matcher may match. The set of implementations is
// closed: ConstPattern, VarPattern, MultisetPattern and OpPattern.
type Pattern interface {
	String() string
	pattern()
}

// ConstPattern matches only a Const node with the same value.
type ConstPattern struct {
	Value int64
}

// VarPattern is a pattern variable. It matches any single expression on first
// sight and binds it; once bound, it only matches the very same handle.
type VarPattern struct {
	Name string
}

// MultisetPattern binds whatever is left of an AC multiset once the
// preceding sub-patterns of the enclosing OpPattern have been matched.
// It is only legal as the last sub-pattern of an OpPattern.
type MultisetPattern struct {
	Name string
}

// OpPattern matches an Op node positionally (exactly two sub-patterns) or an
// OpAC node through a search over its multiset.
type OpPattern struct {
	Operator Operator
	Subs     []Pattern
}

func (ConstPattern) pattern()    {}
func (VarPattern) pattern()      {}
func (MultisetPattern) pattern() {}
func (OpPattern) pattern()       {}

func (p ConstPattern) String() string    { return fmt.Sprintf("%d", p.Value) }
func (p VarPattern) String() string      { return "?" + p.Name }
func (p MultisetPattern) String() string { return "?" + p.Name + "..." }

func (p OpPattern) String() string {
	parts := make([]string, len(p.Subs))
	for i, s := range p.Subs {
		parts[i] = s.String()
	}
	return fmt.Sprintf("%s(%s)", p.Operator, strings.Join(parts, ", "))
}

// PConst returns a literal pattern.
func PConst(v int64) Pattern { return ConstPattern{Value: v} }

// PVar returns a pattern variable.
func PVar(name string) Pattern { return VarPattern{Name: name} }

// PRest returns a rest binder for use as the last argument of POp.
func PRest(name string) Pattern { return MultisetPattern{Name: name} }

// POp returns an operator pattern. The sub-pattern list is checked once here:
// a rest binder anywhere but in last position, or a malformed nested pattern,
// panics with a *ContractViolation.
//
// Example:
//
//	// 0 + x + rest
//	POp(Add, PConst(0), PVar("x"), PRest("xs"))
func POp(op Operator, subs ...Pattern) Pattern {
	p := OpPattern{Operator: op, Subs: subs}
	if err := validateOp(p); err != nil {
		violate("POp", "%v", err)
	}
	return p
}

// Validate checks a pattern built by hand. It rejects a top-level rest binder,
// a rest binder that is not the last sub-pattern, and empty names. Every
// returned error wraps ErrInvalidPattern.
func Validate(p Pattern) error {
	if _, ok := p.(MultisetPattern); ok {
		return ErrTopLevelRest
	}
	return validate(p)
}

func validate(p Pattern) error {
	switch p := p.(type) {
	case ConstPattern:
		return nil
	case VarPattern:
		if p.Name == "" {
			return ErrEmptyName
		}
		return nil
	case MultisetPattern:
		if p.Name == "" {
			return ErrEmptyName
		}
		return nil
	case OpPattern:
		return validateOp(p)
	case nil:
		return fmt.Errorf("%w: nil pattern", ErrInvalidPattern)
	default:
		return fmt.Errorf("%w: unsupported pattern %T", ErrInvalidPattern, p)
	}
}

func validateOp(p OpPattern) error {
	for i, sub := range p.Subs {
		if _, ok := sub.(MultisetPattern); ok && i != len(p.Subs)-1 {
			return fmt.Errorf("%w (position %d of %d in %s)", ErrRestNotLast, i, len(p.Subs), p)
		}
		if err := validate(sub); err != nil {
			return err
		}
	}
	return nil
}

// IsValid is a convenience wrapper around Validate.
func IsValid(p Pattern) bool {
	return Validate(p) == nil
}

// Variables returns the distinct variable and rest-binder names occurring in
// p, sorted.
func Variables(p Pattern) []string {
	seen := make(map[string]struct{})
	collectVariables(p, seen)
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

func collectVariables(p Pattern, seen map[string]struct{}) {
	switch p := p.(type) {
	case VarPattern:
		seen[p.Name] = struct{}{}
	case MultisetPattern:
		seen[p.Name] = struct{}{}
	case OpPattern:
		for _, s := range p.Subs {
			collectVariables(s, seen)
		}
	}
}

// generality ranks sub-patterns from most to least specific for the
// ByGenerality pattern order. Rest binders always sort last.
func generality(p Pattern) int {
	switch p.(type) {
	case ConstPattern:
		return 0
	case OpPattern:
		return 1
	case VarPattern:
		return 2
	default:
		return 3
	}
}
