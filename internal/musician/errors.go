package musician

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a store failure.
type ErrorKind string

const (
	KindNotFound    ErrorKind = "not_found"
	KindInvalid     ErrorKind = "invalid"
	KindConflict    ErrorKind = "conflict"
	KindUnavailable ErrorKind = "unavailable"
	KindInternal    ErrorKind = "internal"
)

// Error is the error type every Store returns.
//
// Error() is safe to show to clients: it never contains the driver error,
// which stays reachable through Unwrap for logging.
type Error struct {
	Kind ErrorKind
	Op   string
	ID   string

	// Message overrides the generated text when set.
	Message string

	Err error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}

	subject := "musician"
	if e.ID != "" {
		subject = fmt.Sprintf("musician %s", e.ID)
	}

	switch e.Kind {
	case KindNotFound:
		return subject + " not found"
	case KindConflict:
		return subject + " already exists"
	case KindInvalid:
		return subject + " is invalid"
	case KindUnavailable:
		return "musician store unavailable"
	default:
		if e.Op != "" {
			return fmt.Sprintf("failed to %s %s", e.Op, subject)
		}
		return "musician store error"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an *Error for op on id.
func NewError(kind ErrorKind, op, id string, err error) *Error {
	return &Error{Kind: kind, Op: op, ID: id, Err: err}
}

// NotFound is shorthand for a KindNotFound error.
func NotFound(op, id string) *Error {
	return NewError(KindNotFound, op, id, nil)
}

// KindOf reports the kind of err, or KindInternal when err is not an *Error.
// A nil error has no kind.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var merr *Error
	if errors.As(err, &merr) {
		return merr.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is a KindNotFound store error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
