package acmatch

import (
	"errors"
	"fmt"
)

// ErrContractViolation marks caller bugs: out-of-range handles, a top-level
// rest binder, a binary pattern without exactly two sub-patterns. These are
// raised as panics carrying a *ContractViolation, never reported as "no match".
var ErrContractViolation = errors.New("acmatch: contract violation")

// ErrInvalidPattern is wrapped by every error returned from Validate.
var ErrInvalidPattern = errors.New("acmatch: invalid pattern")

var (
	// ErrTopLevelRest is returned when a rest binder is the whole pattern.
	ErrTopLevelRest = fmt.Errorf("%w: multiset pattern at top level", ErrInvalidPattern)

	// ErrRestNotLast is returned when a rest binder is followed by other
	// sub-patterns.
	ErrRestNotLast = fmt.Errorf("%w: multiset pattern must be the last sub-pattern", ErrInvalidPattern)

	// ErrEmptyName is returned for a variable or rest binder without a name.
	ErrEmptyName = fmt.Errorf("%w: empty variable name", ErrInvalidPattern)
)

// ContractViolation is the panic value used for misuse of the API.
type ContractViolation struct {
	Op  string // operation that detected the violation
	Msg string
}

func (c *ContractViolation) Error() string {
	return fmt.Sprintf("%s: %s", c.Op, c.Msg)
}

// Unwrap lets errors.Is match ErrContractViolation.
func (c *ContractViolation) Unwrap() error {
	return ErrContractViolation
}

func violate(op, format string, args ...interface{}) {
	panic(&ContractViolation{Op: op, Msg: fmt.Sprintf(format, args...)})
}

// recoverViolation converts a recovered *ContractViolation into an error and
// re-panics anything else.
func recoverViolation(r interface{}) error {
	if cv, ok := r.(*ContractViolation); ok {
		return cv
	}
	panic(r)
}
