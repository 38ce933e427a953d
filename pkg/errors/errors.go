// Package errors provides structured error types for masonry.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine, CLI and HTTP server
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Configuration and input validation failures
//   - *_NOT_FOUND: Host elements or files that could not be resolved
//   - ITEM_TOO_WIDE: An item that can never fit the current column count
//   - RENDER_FAILED / INTERNAL_*: Output and unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "cell width must be positive, got %v", w)
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidScene, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Configuration and input validation errors
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidItem   Code = "INVALID_ITEM"
	ErrCodeInvalidScene  Code = "INVALID_SCENE"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resolution errors
	ErrCodeContainerNotFound Code = "CONTAINER_NOT_FOUND"
	ErrCodeFileNotFound      Code = "FILE_NOT_FOUND"

	// Packing errors
	ErrCodeItemTooWide Code = "ITEM_TOO_WIDE"

	// Output and internal errors
	ErrCodeRenderFailed Code = "RENDER_FAILED"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
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

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ItemTooWideError carries the dimensions of an item that cannot be placed
// because its width exceeds the grid's column count.
type ItemTooWideError struct {
	ID      int // Item identifier
	Width   int // Item width in cells
	Columns int // Column count of the grid
}

// Error implements the error interface.
func (e *ItemTooWideError) Error() string {
	return fmt.Sprintf("item %d is %d cells wide but the grid has %d columns", e.ID, e.Width, e.Columns)
}

// Code returns the error code for this error type.
func (e *ItemTooWideError) Code() Code {
	return ErrCodeItemTooWide
}

// TooWide wraps an ItemTooWideError in an *Error so callers can match it
// with [Is] and still recover the dimensions with errors.As.
func TooWide(id, width, columns int) *Error {
	cause := &ItemTooWideError{ID: id, Width: width, Columns: columns}
	return &Error{Code: ErrCodeItemTooWide, Message: cause.Error(), Cause: cause}
}
