package main

import (
	"errors"

	"github.com/gitrdm/acmatch/pkg/acmatch"
)

// scenario builds one expression and one pattern into an arena.
type scenario struct {
	Name        string
	Description string
	Build       func(a *acmatch.Arena) (acmatch.Id, acmatch.Pattern)
}

func sumOf(op acmatch.Operator) func(a *acmatch.Arena) acmatch.Id {
	return func(a *acmatch.Arena) acmatch.Id {
		x := a.Var("x")
		y := a.Var("y")
		zero := a.Const(0)
		one := a.Const(1)
		return a.OpAC(op, x, y, zero, one)
	}
}

var scenarios = []scenario{
	{
		Name:        "add-zero",
		Description: "0 + x + rest against x + y + 0 + 1",
		Build: func(a *acmatch.Arena) (acmatch.Id, acmatch.Pattern) {
			return sumOf(acmatch.Add)(a), acmatch.POp(acmatch.Add, acmatch.PConst(0), acmatch.PVar("x"), acmatch.PRest("xs"))
		},
	},
	{
		Name:        "mul-zero",
		Description: "0 * rest against x * y * 0 * 1",
		Build: func(a *acmatch.Arena) (acmatch.Id, acmatch.Pattern) {
			return sumOf(acmatch.Mul)(a), acmatch.POp(acmatch.Mul, acmatch.PConst(0), acmatch.PRest("xs"))
		},
	},
	{
		Name:        "top-level-rest",
		Description: "a bare rest binder is rejected",
		Build: func(a *acmatch.Arena) (acmatch.Id, acmatch.Pattern) {
			return sumOf(acmatch.Add)(a), acmatch.PRest("xs")
		},
	},
	{
		Name:        "const-mismatch",
		Description: "literal 0 against literal 5",
		Build: func(a *acmatch.Arena) (acmatch.Id, acmatch.Pattern) {
			return a.Const(5), acmatch.PConst(0)
		},
	},
	{
		Name:        "greedy-split",
		Description: "x + 1 against 1 + y; greedy gives 1 to x first",
		Build: func(a *acmatch.Arena) (acmatch.Id, acmatch.Pattern) {
			one := a.Const(1)
			y := a.Var("y")
			return a.OpAC(acmatch.Add, one, y), acmatch.POp(acmatch.Add, acmatch.PVar("x"), acmatch.PConst(1))
		},
	},
	{
		Name:        "binary-rollback",
		Description: "v - 5 against x - 7; the binding of v is discarded",
		Build: func(a *acmatch.Arena) (acmatch.Id, acmatch.Pattern) {
			x := a.Var("x")
			return a.Op(acmatch.Sub, x, a.Const(7)), acmatch.POp(acmatch.Sub, acmatch.PVar("v"), acmatch.PConst(5))
		},
	},
}

// safeMatch runs m.Match and turns a contract violation into an error.
func safeMatch(m *acmatch.Matcher, a *acmatch.Arena, expr acmatch.Id, p acmatch.Pattern, s *acmatch.Substitution) (matched bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			var cv *acmatch.ContractViolation
			if e, ok := r.(error); ok && errors.As(e, &cv) {
				err = cv
				return
			}
			panic(r)
		}
	}()
	return m.Match(a, expr, p, s), nil
}
