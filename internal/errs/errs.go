// Package errs defines the typed errors returned by the gitlet engine.
//
// Engine packages declare their failures as package-level sentinels built
// with New, so callers can match them with errors.Is and classify them with
// KindOf. Anything that is not an *Error (I/O failures, corrupted objects)
// is treated as Fatal.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the command layer.
type Kind int

const (
	// Fatal marks corruption or I/O failures that must not be swallowed.
	Fatal Kind = iota
	// Usage marks malformed invocations (wrong operand count or shape).
	Usage
	// Precondition marks a refused operation; no state was mutated.
	Precondition
	// Conflict marks a recoverable merge conflict.
	Conflict
)

func (k Kind) String() string {
	switch k {
	case Usage:
		return "usage"
	case Precondition:
		return "precondition"
	case Conflict:
		return "conflict"
	default:
		return "fatal"
	}
}

// Error is a classified engine error. Message is the single line shown to
// the user.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Fatalf wraps cause as a Fatal error with a formatted message.
func Fatalf(cause error, format string, args ...any) *Error {
	return &Error{Kind: Fatal, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Fatal
}

// Message returns the user-facing line for err: the Message of the first
// *Error in the chain, or err.Error() for untyped errors.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
