package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. Every error that leaves the repository layer
// carries exactly one Kind; the HTTP layer maps it to a status and body in a
// single switch.
type Kind int

const (
	// KindTransport is the HTTP layer failing to produce a response. It is
	// also the classification of any error that was never tagged.
	KindTransport Kind = iota
	// KindNotFound means the requested entity does not exist.
	KindNotFound
	// KindInvalidInput means the request could not be parsed into a DTO.
	KindInvalidInput
	// KindStore means the underlying store call failed.
	KindStore
)

// String returns the lowercase name of the kind, used in logs.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidInput:
		return "invalid_input"
	case KindStore:
		return "store_error"
	case KindTransport:
		return "transport_error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a classified failure. Message is the caller-facing text for
// NotFound and InvalidInput; for Store and Transport it is internal detail
// and Err holds the cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		if e.Message == "" {
			return e.Err.Error()
		}
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.Err }

// NotFound builds a KindNotFound error with a caller-facing message.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// InvalidInput builds a KindInvalidInput error with a caller-facing message.
func InvalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

// StoreError wraps a failed store call. op names the operation for logs.
func StoreError(op string, err error) *Error {
	return &Error{Kind: KindStore, Message: op, Err: err}
}

// TransportError wraps a failure of the HTTP layer itself.
func TransportError(err error) *Error {
	return &Error{Kind: KindTransport, Message: "transport", Err: err}
}

// KindOf returns the classification of err. Untagged errors are reported as
// KindTransport so nothing leaks to the caller unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransport
}

// IsNotFound reports whether err is classified as KindNotFound.
func IsNotFound(err error) bool { return err != nil && KindOf(err) == KindNotFound }
