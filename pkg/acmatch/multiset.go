package acmatch

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Multiset maps an operand handle to its positive multiplicity. Keys are
// handles, so two structurally equal subexpressions inserted separately are
// distinct elements.
type Multiset map[Id]int

// NewMultiset builds a multiset from a list of handles, counting repeats.
func NewMultiset(ids ...Id) Multiset {
	m := make(Multiset, len(ids))
	for _, id := range ids {
		m[id]++
	}
	return m
}

// Clone returns an independent copy.
func (m Multiset) Clone() Multiset {
	if m == nil {
		return Multiset{}
	}
	return maps.Clone(m)
}

// Count returns the multiplicity of id, zero when absent.
func (m Multiset) Count(id Id) int {
	return m[id]
}

// Size returns the total number of occurrences.
func (m Multiset) Size() int {
	n := 0
	for _, c := range m {
		n += c
	}
	return n
}

// Keys returns the distinct handles in ascending order.
func (m Multiset) Keys() []Id {
	keys := make([]Id, 0, len(m))
	for id := range m {
		keys = append(keys, id)
	}
	slices.Sort(keys)
	return keys
}

// Add inserts one occurrence of id.
func (m Multiset) Add(id Id) {
	m[id]++
}

// Remove deletes one occurrence of id and reports whether it was present.
// The key disappears when its multiplicity reaches zero.
func (m Multiset) Remove(id Id) bool {
	c, ok := m[id]
	if !ok {
		return false
	}
	if c <= 1 {
		delete(m, id)
	} else {
		m[id] = c - 1
	}
	return true
}

// Equal reports whether both multisets hold the same handles with the same
// multiplicities.
func (m Multiset) Equal(other Multiset) bool {
	return maps.Equal(m, other)
}

// String renders the multiset as {#0:1, #3:2} in ascending handle order.
func (m Multiset) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, id := range m.Keys() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s:%d", id, m[id])
	}
	b.WriteByte('}')
	return b.String()
}
