// Copyright (c) 2021 Silvano DAL ZILIO
//
// GNU Affero GPL v3

package nets

import "fmt"

// Kind classifies the errors raised by the net mutation API so callers
// can distinguish error classes with errors.Is.
type Kind int

const (
	// CyclicPriorities is returned by UpdatePriorities when the priority
	// relation on transitions is not acyclic.
	CyclicPriorities Kind = iota
	// InvalidTimeRange marks a TimeRange whose start is after its end.
	InvalidTimeRange
	// UnsupportedArc marks an arc kind the target net flavour rejects
	// (e.g. a Test arc on a basic net).
	UnsupportedArc
	// InvalidTransition marks a TransitionId with no live transition.
	InvalidTransition
	// InvalidPlace marks a PlaceId with no live place.
	InvalidPlace
	// DuplicatedName marks a rename to a name already held by another
	// live node.
	DuplicatedName
	// UnknownIdentifier marks a name with no bound node.
	UnknownIdentifier
	// InvalidArc marks structurally malformed arc data.
	InvalidArc
)

func (k Kind) String() string {
	switch k {
	case CyclicPriorities:
		return "CyclicPriorities"
	case InvalidTimeRange:
		return "InvalidTimeRange"
	case UnsupportedArc:
		return "UnsupportedArc"
	case InvalidTransition:
		return "InvalidTransition"
	case InvalidPlace:
		return "InvalidPlace"
	case DuplicatedName:
		return "DuplicatedName"
	case UnknownIdentifier:
		return "UnknownIdentifier"
	case InvalidArc:
		return "InvalidArc"
	default:
		return "UnknownError"
	}
}

// Error is the concrete error type returned by this package. It always
// carries a Kind so callers can switch on the error class.
type Error struct {
	K   Kind
	Msg string
	Err error
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.K.String()
	}
	return fmt.Sprintf("%s: %s", e.K, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, SomeKind) work by comparing Kind values, since
// Kind is not itself an error.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.K == other.K
}

func newError(k Kind, format string, args ...interface{}) *Error {
	return &Error{K: k, Msg: fmt.Sprintf(format, args...)}
}

// Sentinel returns a comparison target for errors.Is(err, Sentinel(Kind)).
func Sentinel(k Kind) error { return &Error{K: k} }
