// Package errors provides structured error types for stackprov.
//
// Every failure that crosses a package boundary carries a [Code]. The
// resolution core never aborts on these errors: it classifies them with
// [Classify], records them as diagnostics and keeps going with whatever
// data it already has.
//
// # Error Codes
//
// Codes fall into a small set of groups:
//   - INVALID_*: input validation failures
//   - NOT_FOUND, UNREACHABLE: absence and transport failures of a source
//   - MALFORMED_DOCUMENT, AMBIGUOUS_TAG_MATCH: data-quality signals
//   - INTERNAL_ERROR, UNSUPPORTED: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidPackage, "invalid maven coordinate: %s", name)
//	if errors.Is(err, errors.ErrCodeInvalidPackage) {
//	    // handle validation error
//	}
//
//	err := errors.Wrap(errors.ErrCodeUnreachable, origErr, "fetch %s", url)
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
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidEcosystem Code = "INVALID_ECOSYSTEM"
	ErrCodeInvalidPackage   Code = "INVALID_PACKAGE"
	ErrCodeInvalidVersion   Code = "INVALID_VERSION"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"

	// Source outcomes. These never abort a resolution.
	ErrCodeNotFound          Code = "NOT_FOUND"
	ErrCodeUnreachable       Code = "UNREACHABLE"
	ErrCodeMalformedDocument Code = "MALFORMED_DOCUMENT"
	ErrCodeAmbiguousTagMatch Code = "AMBIGUOUS_TAG_MATCH"

	// Network errors
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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
	var rl *RateLimitedError
	if errors.As(err, &rl) {
		return rl.Code()
	}
	return ""
}

// Classify maps any error onto the source-outcome codes used in diagnostics.
// Coded errors keep their code. Timeouts, rate limits, context cancellation
// and uncoded errors are all transport failures.
func Classify(err error) Code {
	if err == nil {
		return ""
	}
	switch code := GetCode(err); code {
	case "", ErrCodeTimeout, ErrCodeRateLimited:
		return ErrCodeUnreachable
	default:
		return code
	}
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

// RateLimitedError provides additional information for rate-limited responses.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
