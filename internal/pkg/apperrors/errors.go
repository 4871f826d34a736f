// internal/pkg/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an externally observable failure. Every kind maps to
// exactly one HTTP status in the interface layer.
type Kind string

const (
	KindValidation             Kind = "validation_error"
	KindPermissionDenied       Kind = "permission_denied"
	KindNotFound               Kind = "not_found"
	KindInvalidStateTransition Kind = "invalid_state_transition"
	KindInsufficientStock      Kind = "insufficient_stock"
	KindConflict               Kind = "conflict"
)

// Error is the typed failure surfaced by the workflow engine. All engine
// failures are terminal; retry policy belongs to the caller.
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

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match any *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Validation reports malformed, missing or out-of-range input.
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// PermissionDenied reports a failed role or scope check.
func PermissionDenied(format string, args ...interface{}) *Error {
	return &Error{Kind: KindPermissionDenied, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports an absent entity. Scope violations are reported through
// this constructor too, so callers cannot probe for existence.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// InvalidStateTransition reports a lifecycle guard failure.
func InvalidStateTransition(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidStateTransition, Message: fmt.Sprintf(format, args...)}
}

// InsufficientStock reports a ledger guard failure.
func InsufficientStock(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInsufficientStock, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports a concurrent-mutation guard failure (lost update).
func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches an underlying cause to a typed error.
func Wrap(e *Error, err error) *Error {
	e.Err = err
	return e
}

// KindOf returns the kind of err if it is a typed engine error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
