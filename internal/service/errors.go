package service

import "fmt"

// Error taxonomy. Validation and not-found errors are raised before any
// mutation; conflict errors come out of the stock guards; anything else
// is an infrastructure failure and surfaces as a wrapped error that the
// HTTP layer reports generically.

// ValidationError reports malformed or missing client input.
type ValidationError struct {
	msg string
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string { return e.msg }

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	msg string
}

func NewNotFoundError(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{msg: fmt.Sprintf(format, args...)}
}

func (e *NotFoundError) Error() string { return e.msg }

// ConflictError reports a request rejected by a stock guard.
type ConflictError struct {
	msg string
}

func NewConflictError(format string, args ...interface{}) *ConflictError {
	return &ConflictError{msg: fmt.Sprintf(format, args...)}
}

func (e *ConflictError) Error() string { return e.msg }
