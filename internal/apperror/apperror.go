// Package apperror defines the error taxonomy shared by the booking
// engine and its HTTP adapter.  Every failure surfaced to a caller is an
// *Error carrying one of three kinds so handlers can map it to a status
// code without string matching.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an Error.
type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindNotFound   Kind = "not_found"
)

// Sentinels usable with errors.Is.  An *Error matches the sentinel of its
// kind.
var (
	ErrValidation = errors.New("validation")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not_found")
)

// Error is a classified failure.  Message is safe to show to the owner;
// Err optionally carries the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrConflict) and friends work for *Error.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrConflict:
		return e.Kind == KindConflict
	case ErrNotFound:
		return e.Kind == KindNotFound
	}
	return false
}

// StatusCode returns the HTTP status for the kind.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Validation returns a validation error with a formatted message.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Conflict returns a conflict error with a formatted message.
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// NotFound returns a not-found error with a formatted message.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches cause to a new error of the given kind.
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// As extracts an *Error from err.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
