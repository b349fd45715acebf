// Package errors provides structured error types for drawkit.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP server and actions
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages that actions place on document state
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes are grouped by the subsystem that raises them:
//   - NETWORK_ERROR, HTTP_STATUS, INVALID_RESPONSE: upload transport
//   - EXPORT_UNAVAILABLE, NOT_A_BLOB, EMPTY_CANVAS, DECODE_FAILED: export and stylize
//   - CLIPBOARD_*: clipboard interop
//   - *_ACTION: action registry
//   - INVALID_*, NOT_FOUND, INTERNAL_ERROR: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeExportUnavailable, "no drawing surface attached")
//	if errors.Is(err, errors.ErrCodeExportUnavailable) {
//	    // Handle missing surface
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "POST %s", url)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Upload transport errors. Network and HTTP status failures are retryable.
	ErrCodeNetwork         Code = "NETWORK_ERROR"
	ErrCodeHTTPStatus      Code = "HTTP_STATUS"
	ErrCodeInvalidResponse Code = "INVALID_RESPONSE"

	// Export and style transfer errors
	ErrCodeExportUnavailable Code = "EXPORT_UNAVAILABLE"
	ErrCodeNotABlob          Code = "NOT_A_BLOB"
	ErrCodeEmptyCanvas       Code = "EMPTY_CANVAS"
	ErrCodeDecode            Code = "DECODE_FAILED"

	// Clipboard errors
	ErrCodeClipboardAborted          Code = "CLIPBOARD_PERMISSION_ABORTED"
	ErrCodeClipboardRead             Code = "CLIPBOARD_READ"
	ErrCodeClipboardWrite            Code = "CLIPBOARD_WRITE"
	ErrCodeClipboardWriteUnsupported Code = "CLIPBOARD_WRITE_UNSUPPORTED"
	ErrCodeClipboardParse            Code = "CLIPBOARD_PARSE"

	// Action registry errors
	ErrCodeDuplicateAction Code = "DUPLICATE_ACTION"
	ErrCodeInvalidAction   Code = "INVALID_ACTION"
	ErrCodeUnknownAction   Code = "UNKNOWN_ACTION"

	// Input and configuration errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeNotFound      Code = "NOT_FOUND"

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
// Only the outermost *Error in the chain is inspected.
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
// For *Error types, returns the message without the code prefix; transport,
// decode and clipboard write failures append their cause after a colon.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause == nil || !showsCause(e.Code) {
		return e.Message
	}
	// Skip wrappers that repeat the same code.
	root := e.Cause
	for {
		inner, ok := root.(*Error)
		if !ok || inner.Code != e.Code || inner.Cause == nil {
			break
		}
		root = inner.Cause
	}
	cause := UserMessage(root)
	if e.Message == "" {
		return cause
	}
	return strings.TrimRight(e.Message, ".") + ": " + cause
}

func showsCause(code Code) bool {
	switch code {
	case ErrCodeNetwork, ErrCodeHTTPStatus, ErrCodeInvalidResponse,
		ErrCodeDecode, ErrCodeClipboardWrite:
		return true
	}
	return false
}

// IsRetryable reports whether the code marks a transient upload failure.
func IsRetryable(code Code) bool {
	return code == ErrCodeNetwork || code == ErrCodeHTTPStatus
}

// HTTPStatusError carries the status and body of a non-2xx response.
// It is always wrapped in an *Error with ErrCodeHTTPStatus.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d, message: %s", e.StatusCode, e.Body)
}
