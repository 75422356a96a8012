package acmatch

import (
	"fmt"
	"strings"
)

// Operator names an arithmetic operator. Whether an application is ordered
// or AC is decided by the node shape (Op or OpAC), not by the operator.
type Operator int

const (
	Add Operator = iota
	Sub
	Mul
	Div
)

// String returns the operator name.
func (o Operator) String() string {
	switch o {
	case Add:
		return "Add"
	case Sub:
		return "Sub"
	case Mul:
		return "Mul"
	case Div:
		return "Div"
	default:
		return fmt.Sprintf("Operator(%d)", int(o))
	}
}

// Node is an expression stored in an Arena. The set of implementations is
// closed: Const, Var, Op and OpAC.
type Node interface {
	String() string
	node()
}

// Const is an integer literal.
type Const struct {
	Value int64
}

// Var is a named leaf of the expression language. It is not a pattern
// variable.
type Var struct {
	Name string
}

// Op is a strictly binary, order-sensitive operator application.
type Op struct {
	Operator Operator
	Args     [2]Id
}

// OpAC is an associative-commutative operator application over a multiset
// of operands.
type OpAC struct {
	Operator Operator
	Operands Multiset
}

func (Const) node() {}
func (Var) node()   {}
func (Op) node()    {}
func (OpAC) node()  {}

func (c Const) String() string { return fmt.Sprintf("Const(%d)", c.Value) }
func (v Var) String() string   { return fmt.Sprintf("Var(%q)", v.Name) }

func (o Op) String() string {
	return fmt.Sprintf("Op(%s, [%s, %s])", o.Operator, o.Args[0], o.Args[1])
}

func (o OpAC) String() string {
	var b strings.Builder
	b.WriteString("OpAC(")
	b.WriteString(o.Operator.String())
	b.WriteString(", ")
	b.WriteString(o.Operands.String())
	b.WriteString(")")
	return b.String()
}
