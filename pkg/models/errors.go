package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure taxonomy. Callers classify failures with
// errors.Is rather than by inspecting message text.
var (
	// ErrValidation indicates caller-supplied data violates a constraint.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates the referenced task does not exist in the store.
	ErrNotFound = errors.New("task not found")
	// ErrTransport indicates a network or channel failure, expected to be
	// transient and retryable.
	ErrTransport = errors.New("transport failure")
)

// TaskError wraps a sentinel with detail about the failing operation.
type TaskError struct {
	Kind error
	Msg  string
}

func (e *TaskError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *TaskError) Unwrap() error { return e.Kind }

// Validationf builds a validation error with a formatted detail message.
func Validationf(format string, args ...any) error {
	return &TaskError{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a not-found error with a formatted detail message.
func NotFoundf(format string, args ...any) error {
	return &TaskError{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Transportf builds a transport error with a formatted detail message.
func Transportf(format string, args ...any) error {
	return &TaskError{Kind: ErrTransport, Msg: fmt.Sprintf(format, args...)}
}
