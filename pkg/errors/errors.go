// Package errors provides structured error types for act-datamodel.
//
// Error codes let the CLI and the pipeline tell apart failures that end a run
// (a catalog fetch that did not return 200, an unreadable payload) from
// anomalies that are only reported (a malformed catalog entry).
//
// # Error Codes
//
// Codes follow a hierarchical naming convention:
//   - INVALID_*: configuration or payload validation failures
//   - FETCH_FAILED, NETWORK_ERROR: the ACT catalog could not be retrieved
//   - RENDER_FAILED, UPLOAD_FAILED, SNAPSHOT_ERROR: sink failures
//   - INTERNAL_ERROR: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeFetchFailed, "object types: status %d", code)
//	if errors.Is(err, errors.ErrCodeFetchFailed) {
//	    // Handle fetch failure
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "GET %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidPayload Code = "INVALID_PAYLOAD"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"

	// Catalog retrieval errors
	ErrCodeFetchFailed Code = "FETCH_FAILED"
	ErrCodeNetwork     Code = "NETWORK_ERROR"

	// Reported, never fatal
	ErrCodeMalformedEntry Code = "MALFORMED_ENTRY"

	// Sink errors
	ErrCodeSnapshot     Code = "SNAPSHOT_ERROR"
	ErrCodeRenderFailed Code = "RENDER_FAILED"
	ErrCodeUploadFailed Code = "UPLOAD_FAILED"

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

// StatusError reports a catalog call that answered with an unexpected HTTP status.
type StatusError struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.StatusCode)
}

// Code returns the error code for this error type.
func (e *StatusError) Code() Code {
	return ErrCodeFetchFailed
}
