// Copyright (c) 2021 Silvano DAL ZILIO
//
// GNU Affero GPL v3

package tina

import "fmt"

// ErrKind classifies the parser-level errors this package raises; each
// variant carries a position so the caller can report exact line/column.
type ErrKind int

const (
	// Utf8Error marks a byte sequence that is not valid UTF-8.
	Utf8Error ErrKind = iota
	// InvalidChar marks an unexpected character where a specific one was
	// expected.
	InvalidChar
	// UnexpectedToken marks a token that does not fit the current
	// grammar position.
	UnexpectedToken
	// UnexpectedIdentifier marks an identifier used where the grammar
	// requires something else (or vice versa).
	UnexpectedIdentifier
	// UnexpectedArc marks an arc marker used in a position the grammar
	// forbids (e.g. a read arc after the arrow of a transition).
	UnexpectedArc
	// UnsupportedArc marks an arc kind this parser recognises
	// lexically but will never accept (StopWatch variants).
	UnsupportedArc
)

func (k ErrKind) String() string {
	switch k {
	case Utf8Error:
		return "Utf8Error"
	case InvalidChar:
		return "InvalidChar"
	case UnexpectedToken:
		return "UnexpectedToken"
	case UnexpectedIdentifier:
		return "UnexpectedIdentifier"
	case UnexpectedArc:
		return "UnexpectedArc"
	case UnsupportedArc:
		return "UnsupportedArc"
	default:
		return "UnknownError"
	}
}

// ParseError is the concrete error type returned by Parse. It always
// carries the Kind and the position at which the scanner or parser gave
// up, plus a human-readable detail message.
type ParseError struct {
	K      ErrKind
	Pos    Pos
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d: %s", e.K, e.Pos.Line, e.Pos.Col, e.Detail)
}

func newParseError(k ErrKind, pos Pos, format string, args ...interface{}) *ParseError {
	return &ParseError{K: k, Pos: pos, Detail: fmt.Sprintf(format, args...)}
}
