// Package errs implements the error taxonomy of SPEC_FULL.md §7: structured,
// typed errors the Simulation Driver inspects with errors.As to decide
// retry vs. surface vs. abort. Nothing here is swallowed silently.
package errs

import (
	"errors"
	"fmt"
)

// Kind is one of the six error classes of spec.md §7.
type Kind string

const (
	KindInvalidConfig         Kind = "InvalidConfig"
	KindConnectionError       Kind = "ConnectionError"
	KindSchemaDrift           Kind = "SchemaDrift"
	KindNoCandidates          Kind = "NoCandidates"
	KindConstraintViolation   Kind = "ConstraintViolation"
	KindCancellationRequested Kind = "CancellationRequested"
)

// ExitCode maps a Kind to the process exit code in spec.md §6.
func (k Kind) ExitCode() int {
	switch k {
	case KindInvalidConfig:
		return 1
	case KindConnectionError:
		return 2
	case KindSchemaDrift:
		return 3
	case KindCancellationRequested:
		return 4
	default:
		return 1
	}
}

// SimError wraps an underlying error with its taxonomy Kind and the
// simulated week at which it occurred, so a fatal exit can print exactly
// what spec.md §7 asks for: "the error kind, the simulated week at which it
// occurred, and the last successfully committed week".
type SimError struct {
	Kind Kind
	Week int
	Err  error
}

func (e *SimError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s at week %d", e.Kind, e.Week)
	}
	return fmt.Sprintf("%s at week %d: %v", e.Kind, e.Week, e.Err)
}

func (e *SimError) Unwrap() error { return e.Err }

// New constructs a SimError of the given kind.
func New(kind Kind, week int, err error) *SimError {
	return &SimError{Kind: kind, Week: week, Err: err}
}

// IsKind reports whether err (or any error it wraps) is a SimError of kind.
func IsKind(err error, kind Kind) bool {
	var se *SimError
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}
