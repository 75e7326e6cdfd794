// Package apperror defines the error taxonomy surfaced to API callers.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeBadRequest              Code = "BAD_REQUEST"
	CodeValidation              Code = "VALIDATION_ERROR"
	CodeUnauthorized            Code = "UNAUTHORIZED"
	CodeForbidden               Code = "FORBIDDEN"
	CodeInsufficientPermissions Code = "INSUFFICIENT_PERMISSIONS"
	CodeNotFound                Code = "NOT_FOUND"
	CodeConflict                Code = "CONFLICT"
	CodeRateLimited             Code = "RATE_LIMITED"
	CodeUnavailable             Code = "SERVICE_UNAVAILABLE"
	CodeInternal                Code = "INTERNAL_SERVER_ERROR"
)

// Error is an error with a stable code that handlers can render directly.
type Error struct {
	Code    Code
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code Code, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

func Unauthorized(message string) *Error {
	return New(CodeUnauthorized, http.StatusUnauthorized, message)
}

// Forbidden is raised when the caller's role lacks the requested action.
func Forbidden(message string) *Error {
	return New(CodeInsufficientPermissions, http.StatusForbidden, message)
}

func NotFound(message string) *Error {
	return New(CodeNotFound, http.StatusNotFound, message)
}

func Validation(message string, err error) *Error {
	return &Error{Code: CodeValidation, Status: http.StatusBadRequest, Message: message, Err: err}
}

func BadRequest(message string) *Error {
	return New(CodeBadRequest, http.StatusBadRequest, message)
}

func Conflict(message string) *Error {
	return New(CodeConflict, http.StatusConflict, message)
}

func RateLimited(message string) *Error {
	return New(CodeRateLimited, http.StatusTooManyRequests, message)
}

// Unavailable is raised when an optional backend is not configured or unreachable.
func Unavailable(message string) *Error {
	return New(CodeUnavailable, http.StatusServiceUnavailable, message)
}

func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Status: http.StatusInternalServerError, Message: "Internal server error", Err: err}
}

// As extracts an *Error from err, if any.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of err, or CodeInternal for unclassified errors.
func CodeOf(err error) Code {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return CodeInternal
}
