package resilience

import (
	"errors"
	"fmt"
)

// Class partitions failures by how the executor and its callers react to
// them. Transient and Timeout outcomes are retried and counted by the
// circuit breaker; Permanent and Unparsable pass through untouched;
// CircuitOpen is produced by the breaker itself without invoking the
// operation.
type Class int

const (
	ClassTransient Class = iota
	ClassTimeout
	ClassPermanent
	ClassUnparsable
	ClassCircuitOpen
)

// String returns a short label for logging.
func (c Class) String() string {
	switch c {
	case ClassTransient:
		return "transient"
	case ClassTimeout:
		return "timeout"
	case ClassPermanent:
		return "permanent"
	case ClassUnparsable:
		return "unparsable"
	case ClassCircuitOpen:
		return "circuit_open"
	default:
		return "unknown"
	}
}

// Error is a classified failure. Code optionally carries an
// upstream-specific detail (an HTTP status, a boundary error code).
type Error struct {
	Class   Class
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Transient marks a retryable failure: connection errors and 5xx-class
// responses.
func Transient(message string, cause error) *Error {
	return &Error{Class: ClassTransient, Message: message, cause: cause}
}

// Timeout marks a single attempt that exceeded its time budget.
func Timeout(message string, cause error) *Error {
	return &Error{Class: ClassTimeout, Message: message, cause: cause}
}

// Permanent marks a failure that must not be retried: 4xx-class responses
// and malformed input.
func Permanent(code, message string, cause error) *Error {
	return &Error{Class: ClassPermanent, Code: code, Message: message, cause: cause}
}

// Unparsable marks an empty or undecodable response body, surfaced
// distinctly from network failure.
func Unparsable(message string, cause error) *Error {
	return &Error{Class: ClassUnparsable, Message: message, cause: cause}
}

func circuitOpen(upstream string) *Error {
	return &Error{Class: ClassCircuitOpen, Message: fmt.Sprintf("circuit breaker open for %s", upstream)}
}

// ClassOf returns the class of err. Unclassified errors are treated as
// transient so that unexpected faults take the retry path rather than
// being silently terminal.
func ClassOf(err error) Class {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Class
	}
	return ClassTransient
}

// IsRetryable reports whether err qualifies for retry and breaker
// accounting.
func IsRetryable(err error) bool {
	c := ClassOf(err)
	return c == ClassTransient || c == ClassTimeout
}

// IsCircuitOpen reports whether err is a breaker rejection.
func IsCircuitOpen(err error) bool {
	return err != nil && ClassOf(err) == ClassCircuitOpen
}
