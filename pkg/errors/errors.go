package errors

import (
	stderrors "errors"
	"fmt"
)

// Standard error codes shared across packages.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeInternal        = "INTERNAL"
	CodeTimeout         = "TIMEOUT"
	CodeUnavailable     = "UNAVAILABLE"
)

// AppError is the structured error type used throughout the system. It
// carries a stable code (for programmatic branching and HTTP/gRPC status
// mapping), a human-readable message, and an optional underlying cause.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause so errors.Is/errors.As can see through it.
func (e *AppError) Unwrap() error { return e.Cause }

// New constructs an AppError with an explicit code.
func New(code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// Wrap annotates err with message, preserving its code if it is already an
// AppError, otherwise classifying it as internal.
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	var ae *AppError
	if stderrors.As(err, &ae) {
		return &AppError{Code: ae.Code, Message: message + ": " + ae.Message, Cause: ae.Cause}
	}
	return &AppError{Code: CodeInternal, Message: message, Cause: err}
}

// NotFound constructs a CodeNotFound AppError.
func NotFound(message string, cause error) *AppError { return New(CodeNotFound, message, cause) }

// Conflict constructs a CodeConflict AppError.
func Conflict(message string, cause error) *AppError { return New(CodeConflict, message, cause) }

// InvalidArgument constructs a CodeInvalidArgument AppError.
func InvalidArgument(message string, cause error) *AppError {
	return New(CodeInvalidArgument, message, cause)
}

// Internal constructs a CodeInternal AppError.
func Internal(message string, cause error) *AppError { return New(CodeInternal, message, cause) }

// Timeout constructs a CodeTimeout AppError.
func Timeout(message string, cause error) *AppError { return New(CodeTimeout, message, cause) }

// Unavailable constructs a CodeUnavailable AppError.
func Unavailable(message string, cause error) *AppError {
	return New(CodeUnavailable, message, cause)
}

// Is re-exports the standard library's errors.Is so callers depend only on
// this package.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As re-exports the standard library's errors.As so callers depend only on
// this package.
func As(err error, target interface{}) bool { return stderrors.As(err, target) }
