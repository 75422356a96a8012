package acmatch

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/slices"
)

// BindingKind tells which field of a Binding is meaningful.
type BindingKind int

const (
	// AtomBinding binds a pattern variable to a single expression handle.
	AtomBinding BindingKind = iota
	// MultisetBinding binds a rest binder to a sub-multiset.
	MultisetBinding
)

// Binding is the value a pattern variable is bound to.
type Binding struct {
	Kind BindingKind
	Atom Id
	Set  Multiset
}

// Atom returns a single-handle binding.
func Atom(id Id) Binding {
	return Binding{Kind: AtomBinding, Atom: id}
}

// MultisetOf returns a sub-multiset binding. The multiset is copied.
func MultisetOf(m Multiset) Binding {
	return Binding{Kind: MultisetBinding, Set: m.Clone()}
}

// Equal compares two bindings by kind and value.
func (b Binding) Equal(other Binding) bool {
	if b.Kind != other.Kind {
		return false
	}
	if b.Kind == AtomBinding {
		return b.Atom == other.Atom
	}
	return b.Set.Equal(other.Set)
}

func (b Binding) String() string {
	if b.Kind == AtomBinding {
		return fmt.Sprintf("Atom(%s)", b.Atom)
	}
	return fmt.Sprintf("Multiset(%s)", b.Set)
}

// Substitution maps pattern-variable names to bindings. Names are unique;
// binding a name twice never overwrites, it checks equality instead.
//
// Speculative extension uses an undo trail: snapshot records the trail length
// and undo unbinds everything added after it, so a failed branch leaves no
// bindings behind.
//
// A Substitution is not safe for concurrent use.
type Substitution struct {
	bindings map[string]Binding
	trail    []string // names in binding order
}

// NewSubstitution creates an empty substitution.
func NewSubstitution() *Substitution {
	return &Substitution{
		bindings: make(map[string]Binding),
		trail:    make([]string, 0, 8),
	}
}

// Lookup returns the binding for name, if any.
func (s *Substitution) Lookup(name string) (Binding, bool) {
	b, ok := s.bindings[name]
	return b, ok
}

// Len returns the number of bound names.
func (s *Substitution) Len() int {
	return len(s.bindings)
}

// Names returns the bound names in sorted order.
func (s *Substitution) Names() []string {
	names := make([]string, 0, len(s.bindings))
	for n := range s.bindings {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Clone creates a deep copy of the substitution, trail included.
func (s *Substitution) Clone() *Substitution {
	c := &Substitution{
		bindings: make(map[string]Binding, len(s.bindings)),
		trail:    slices.Clone(s.trail),
	}
	for k, v := range s.bindings {
		if v.Kind == MultisetBinding {
			v.Set = v.Set.Clone()
		}
		c.bindings[k] = v
	}
	return c
}

// Equal reports whether both substitutions bind the same names to equal
// values. Binding order is ignored.
func (s *Substitution) Equal(other *Substitution) bool {
	if len(s.bindings) != len(other.bindings) {
		return false
	}
	for k, v := range s.bindings {
		ov, ok := other.bindings[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// bind adds name -> b, or checks consistency when name is already bound.
func (s *Substitution) bind(name string, b Binding) bool {
	if existing, ok := s.bindings[name]; ok {
		return existing.Equal(b)
	}
	s.bindings[name] = b
	s.trail = append(s.trail, name)
	return true
}

// snapshot returns the current trail length for backtracking.
func (s *Substitution) snapshot() int { return len(s.trail) }

// undo unbinds every name added after the snapshot and reports how many were
// removed.
func (s *Substitution) undo(to int) int {
	n := 0
	for i := len(s.trail) - 1; i >= to; i-- {
		delete(s.bindings, s.trail[i])
		s.trail = s.trail[:i]
		n++
	}
	return n
}

// String returns {name=binding, ...} with names sorted.
func (s *Substitution) String() string {
	if len(s.bindings) == 0 {
		return "{}"
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, name := range s.Names() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%s", name, s.bindings[name])
	}
	b.WriteByte('}')
	return b.String()
}

// Display writes one line per binding, names sorted, resolving handles
// through the arena. Multiset bindings are expanded by multiplicity:
//
//	x |-> Var("x")
//	xs |-> { Var("y") Const(1) }
func (s *Substitution) Display(w io.Writer, arena *Arena) error {
	for _, name := range s.Names() {
		b := s.bindings[name]
		var line string
		if b.Kind == AtomBinding {
			line = fmt.Sprintf("%s |-> %s\n", name, arena.Lookup(b.Atom))
		} else {
			var sb strings.Builder
			sb.WriteString(name)
			sb.WriteString(" |-> {")
			for _, id := range b.Set.Keys() {
				for i := 0; i < b.Set[id]; i++ {
					sb.WriteByte(' ')
					sb.WriteString(arena.Lookup(id).String())
				}
			}
			sb.WriteString(" }\n")
			line = sb.String()
		}
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}
