// Package apperr defines the typed error taxonomy shared by every domain
// operation. The action boundary classifies every error into one of these
// codes before it reaches a caller; raw error text never leaves the core.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// Code classifies an action failure.
type Code string

const (
	CodeValidation     Code = "VALIDATION_ERROR"
	CodeNotFound       Code = "NOT_FOUND"
	CodeConflict       Code = "CONFLICT"
	CodeUnauthorized   Code = "UNAUTHORIZED"
	CodeForbidden      Code = "FORBIDDEN"
	CodeAccountBanned  Code = "ACCOUNT_BANNED"
	CodeSessionExpired Code = "SESSION_EXPIRED"
	CodeRateLimited    Code = "RATE_LIMIT_EXCEEDED"
	CodeUnknown        Code = "UNKNOWN_ERROR"
)

// Error is a code-bearing error raised by domain operations.
type Error struct {
	Code       Code
	Message    string
	RetryAfter int // seconds; only set for RATE_LIMIT_EXCEEDED
	cause      error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New returns a typed error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// RateLimited returns a RATE_LIMIT_EXCEEDED error carrying retryAfter.
func RateLimited(retryAfterSeconds int) *Error {
	return &Error{
		Code:       CodeRateLimited,
		Message:    "rate limit exceeded",
		RetryAfter: retryAfterSeconds,
	}
}

// Classify maps any error to a typed Error. Untyped errors become
// UNKNOWN_ERROR with a generic message so internal detail is never forwarded.
func Classify(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Wrap(err, CodeNotFound, "resource not found")
	}
	return Wrap(err, CodeUnknown, "internal error")
}

// HTTPStatus maps a code to the status the boundary responds with.
func HTTPStatus(code Code) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized, CodeSessionExpired:
		return http.StatusUnauthorized
	case CodeForbidden, CodeAccountBanned:
		return http.StatusForbidden
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
