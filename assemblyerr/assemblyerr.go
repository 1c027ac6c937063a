// Package assemblyerr defines the domain error kinds that flow through
// Compose, the collision gate and the restraint gate. They are distinct
// from I/O boundary errors (which wrap with github.com/grailbio/base/errors
// instead) because every one of them is a per-candidate, expected outcome
// that the folder discards and counts as a statistic rather than
// surfaces to the user.
package assemblyerr

import (
	"errors"
	"fmt"
)

// Kind identifies which internal rejection reason occurred.
type Kind int

const (
	_ Kind = iota
	DegenerateInput
	IncompatibleOverlap
	DuplicatePlacement
	CollisionLimitExceeded
	ConstraintViolation
	UnreachableSubunits
	NoAssembly
	Timeout
)

func (k Kind) String() string {
	switch k {
	case DegenerateInput:
		return "DegenerateInput"
	case IncompatibleOverlap:
		return "IncompatibleOverlap"
	case DuplicatePlacement:
		return "DuplicatePlacement"
	case CollisionLimitExceeded:
		return "CollisionLimitExceeded"
	case ConstraintViolation:
		return "ConstraintViolation"
	case UnreachableSubunits:
		return "UnreachableSubunits"
	case NoAssembly:
		return "NoAssembly"
	case Timeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// Error is a Kind-tagged error carrying a human-readable message.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// New builds an *Error of the given kind.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Is reports whether err is an *Error of the given kind, unwrapping as
// needed via errors.As (Kind equality, not message equality, is what
// matters here).
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
