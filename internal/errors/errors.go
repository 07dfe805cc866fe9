// Package errors provides the domain error taxonomy for the catalog server.
//
// Services return *Error values; the API layer maps them to HTTP responses:
//
//	if exists {
//	    return errors.Conflict("Item already in saved list")
//	}
//
//	var domainErr *errors.Error
//	if errors.As(err, &domainErr) {
//	    status := domainErr.HTTPStatus()
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is = errors.Is
	As = errors.As
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeValidation         Code = "VALIDATION"
	CodeConflict           Code = "CONFLICT"
	CodeInternal           Code = "INTERNAL"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeTooManyRequests    Code = "TOO_MANY_REQUESTS"
)

// HTTPStatus returns the HTTP status code for an error code.
// Uniqueness violations are reported as 400, clients treat them as a rejected input.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation, CodeAlreadyExists, CodeConflict:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// FieldErrors maps a JSON field name to a human-readable problem with it.
type FieldErrors map[string]string

// ConflictDetails identifies the record that caused a uniqueness conflict.
type ConflictDetails struct {
	ExistingID string `json:"existingId"`
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// FieldErrors returns the per-field messages attached to a validation error, or nil.
func (e *Error) FieldErrors() FieldErrors {
	fe, _ := e.Details.(FieldErrors)
	return fe
}

// WithCause returns a copy of the error wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound           = &Error{Code: CodeNotFound, Message: "not found"}
	ErrUnauthorized       = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrForbidden          = &Error{Code: CodeForbidden, Message: "forbidden"}
	ErrValidation         = &Error{Code: CodeValidation, Message: "validation error"}
	ErrConflict           = &Error{Code: CodeConflict, Message: "conflict"}
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials, Message: "invalid credentials"}
	ErrTooManyRequests    = &Error{Code: CodeTooManyRequests, Message: "too many requests"}
)

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// Unauthorized creates an unauthorized error.
func Unauthorized(msg string) *Error {
	return &Error{Code: CodeUnauthorized, Message: msg}
}

// Forbidden creates a forbidden error.
func Forbidden(msg string) *Error {
	return &Error{Code: CodeForbidden, Message: msg}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// ValidationFields creates the standard "Validation failed" error for per-field problems.
func ValidationFields(fields FieldErrors) *Error {
	return &Error{Code: CodeValidation, Message: "Validation failed", Details: fields}
}

// ValidationField is ValidationFields for a single field.
func ValidationField(field, msg string) *Error {
	return ValidationFields(FieldErrors{field: msg})
}

// Conflict creates a conflict error.
func Conflict(msg string) *Error {
	return &Error{Code: CodeConflict, Message: msg}
}

// ConflictWithExisting creates a conflict error pointing at the record already holding the slot.
func ConflictWithExisting(msg, existingID string) *Error {
	return &Error{Code: CodeConflict, Message: msg, Details: ConflictDetails{ExistingID: existingID}}
}

// InvalidCredentials creates an invalid credentials error.
func InvalidCredentials(msg string) *Error {
	return &Error{Code: CodeInvalidCredentials, Message: msg}
}

// TooManyRequests creates a rate limit error.
func TooManyRequests(msg string) *Error {
	return &Error{Code: CodeTooManyRequests, Message: msg}
}

// FieldErrorsOf returns the field errors carried anywhere in err's chain, or nil.
func FieldErrorsOf(err error) FieldErrors {
	var e *Error
	if errors.As(err, &e) {
		return e.FieldErrors()
	}
	return nil
}
