// Package acmatch provides structural pattern matching over symbolic
// expression trees that contain associative-commutative (AC) operators.
//
// AC operators such as addition and multiplication are not stored as ordered
// binary trees. Their operands live in a Multiset, so a+b+c and c+a+b share a
// single representation. A Pattern may bind single subexpressions, fixed-arity
// operator shapes, or "the rest" of an AC multiset.
//
// The package is organised around four pieces:
//   - Arena: append-only owner of every expression node, addressed by Id
//   - Node and Pattern: sealed sum types for expressions and patterns
//   - Substitution: variable bindings with an undo trail for speculation
//   - Matcher: recursive matcher with a backtracking search over multisets
//
// Typical usage:
//
//	arena := acmatch.NewArena()
//	x := arena.Var("x")
//	zero := arena.Const(0)
//	sum := arena.OpAC(acmatch.Add, x, zero)
//
//	pat := acmatch.POp(acmatch.Add, acmatch.PConst(0), acmatch.PRest("xs"))
//	subst := acmatch.NewSubstitution()
//	if acmatch.Match(arena, sum, pat, subst) {
//	    subst.Display(os.Stdout, arena)
//	}
package acmatch

import (
	"fmt"
	"io"
)

// Id is an opaque handle to a node stored in an Arena. Handles are stable for
// the lifetime of the Arena and are never reused.
type Id int

// String returns the handle in #n form.
func (id Id) String() string {
	return fmt.Sprintf("#%d", int(id))
}

// Arena owns all expression nodes. Nodes are only ever appended, so building
// expressions bottom-up guarantees every referenced handle already exists.
//
// Thread Safety: concurrent Lookup calls are safe as long as nobody calls
// Insert at the same time.
type Arena struct {
	nodes []Node
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{nodes: make([]Node, 0, 64)}
}

// Insert appends a node and returns its handle, which equals the arena length
// before the call. Inserting a node that references a handle not yet in the
// arena, or an AC node with a non-positive multiplicity, is a contract
// violation and panics.
func (a *Arena) Insert(n Node) Id {
	switch node := n.(type) {
	case Const, Var:
	case Op:
		for _, arg := range node.Args {
			a.checkRef("Arena.Insert", arg)
		}
	case OpAC:
		for id, count := range node.Operands {
			a.checkRef("Arena.Insert", id)
			if count <= 0 {
				violate("Arena.Insert", "operand %s has multiplicity %d", id, count)
			}
		}
		// The arena owns its copy; later edits to the caller's map are not seen.
		node.Operands = node.Operands.Clone()
		n = node
	default:
		violate("Arena.Insert", "unsupported node %T", n)
	}
	id := Id(len(a.nodes))
	a.nodes = append(a.nodes, n)
	return id
}

// Lookup returns the node stored under id. An out-of-range handle is a caller
// bug and panics with a *ContractViolation.
func (a *Arena) Lookup(id Id) Node {
	a.checkRef("Arena.Lookup", id)
	return a.nodes[id]
}

// Len returns the number of nodes in the arena.
func (a *Arena) Len() int {
	return len(a.nodes)
}

func (a *Arena) checkRef(op string, id Id) {
	if id < 0 || int(id) >= len(a.nodes) {
		violate(op, "handle %s out of range [0, %d)", id, len(a.nodes))
	}
}

// Const inserts a literal.
func (a *Arena) Const(v int64) Id {
	return a.Insert(Const{Value: v})
}

// Var inserts a symbolic variable of the expression language.
func (a *Arena) Var(name string) Id {
	return a.Insert(Var{Name: name})
}

// Op inserts an ordered binary operator application.
func (a *Arena) Op(op Operator, lhs, rhs Id) Id {
	return a.Insert(Op{Operator: op, Args: [2]Id{lhs, rhs}})
}

// OpAC inserts an AC operator application over the given operands.
// Repeated handles raise the multiplicity.
func (a *Arena) OpAC(op Operator, operands ...Id) Id {
	return a.Insert(OpAC{Operator: op, Operands: NewMultiset(operands...)})
}

// Display writes one "handle: node" line per node in insertion order.
// The format is meant for people, not for parsing.
func (a *Arena) Display(w io.Writer) error {
	for i, n := range a.nodes {
		if _, err := fmt.Fprintf(w, "%d: %s\n", i, n); err != nil {
			return err
		}
	}
	return nil
}
