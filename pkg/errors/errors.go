// Package errors provides structured error types for rwpspread.
//
// Every failure surfaced to the user belongs to one of a small set of
// categories:
//   - INVALID_*: bad flags, paths, monitor or diagonal definitions
//   - MISSING_MONITOR: a DPI definition names a monitor that is not connected
//   - OUT_OF_BOUNDS: a planned crop leaves the source image (solver/planner bug)
//   - IO_ERROR: reading the source, writing artifacts, creating directories
//   - BACKEND_ERROR, NOT_INSTALLED: wallpaper daemon and locker collaborators
//   - INTERNAL_ERROR: anything else that should not happen
//
// None of these are retried by the orchestrator. A run that returns an error
// is aborted as a whole and, in daemon mode, terminates the process.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingMonitor, "missing monitor definitions: %s", name)
//	if errors.Is(err, errors.ErrCodeMissingMonitor) {
//	    // Handle input error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidPath    Code = "INVALID_PATH"
	ErrCodeInvalidMonitor Code = "INVALID_MONITOR"
	ErrCodeMissingMonitor Code = "MISSING_MONITOR"

	// Solver/planner invariant violations
	ErrCodeOutOfBounds Code = "OUT_OF_BOUNDS"

	// I/O errors
	ErrCodeIO Code = "IO_ERROR"

	// Collaborator errors
	ErrCodeBackend      Code = "BACKEND_ERROR"
	ErrCodeNotInstalled Code = "NOT_INSTALLED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a single-line message for the error without the code prefix.
// Context added by fmt.Errorf wrapping above the *Error is dropped; the cause
// below it is kept.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + e.Cause.Error()
		}
		return e.Message
	}
	return err.Error()
}

// As is errors.As from the standard library, re-exported so callers need a
// single errors import.
func As(err error, target any) bool {
	return errors.As(err, target)
}
