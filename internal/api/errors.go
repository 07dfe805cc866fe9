package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5/middleware"

	domainerrors "github.com/listenupapp/catalog-server/internal/errors"
	"github.com/listenupapp/catalog-server/internal/store"
)

// Messages produced by the API layer itself.
const (
	msgInternalError   = "Internal server error"
	msgValidation      = "Validation failed"
	msgInvalidID       = "Invalid id format"
	msgInvalidUserID   = "Invalid user ID"
	msgTooManyRequests = "Too many requests. Please try again later."
)

// APIError is the body of every error response.
// It implements huma.StatusError so handlers and guards share one shape.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status      int
	Message     string            `json:"error" doc:"Human-readable error message"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty" doc:"Per-field validation messages keyed by JSON field name"`
	ExistingID  string            `json:"existingId,omitempty" doc:"ID of the record that caused a conflict"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

func newAPIError(status int, message string) *APIError {
	if status >= http.StatusInternalServerError {
		message = msgInternalError
	}
	return &APIError{status: status, Message: message}
}

// fromDomainError converts a domain error into its response form.
func fromDomainError(err *domainerrors.Error) *APIError {
	apiErr := newAPIError(err.HTTPStatus(), err.Message)
	if fields := err.FieldErrors(); len(fields) > 0 {
		apiErr.FieldErrors = fields
	}
	if conflict, ok := err.Details.(domainerrors.ConflictDetails); ok {
		apiErr.ExistingID = conflict.ExistingID
	}
	return apiErr
}

// RegisterErrorHandler configures huma to emit APIError for every error it produces.
// Schema validation failures (422) are reshaped into 400 field errors.
// Call this after creating the huma.API but before registering routes.
func RegisterErrorHandler() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		fields := make(map[string]string)

		for _, err := range errs {
			var domainErr *domainerrors.Error
			if errors.As(err, &domainErr) {
				return fromDomainError(domainErr)
			}

			var storeErr *store.Error
			if errors.As(err, &storeErr) && storeErr.HTTPCode() == http.StatusNotFound {
				return newAPIError(http.StatusNotFound, "Not found")
			}

			var detailer huma.ErrorDetailer
			if errors.As(err, &detailer) {
				detail := detailer.ErrorDetail()
				key := fieldKey(detail.Location)
				if _, seen := fields[key]; !seen {
					fields[key] = detail.Message
				}
			}
		}

		if status == http.StatusUnprocessableEntity {
			status = http.StatusBadRequest
			message = msgValidation
		}

		apiErr := newAPIError(status, message)
		if len(fields) > 0 && status == http.StatusBadRequest {
			apiErr.Message = msgValidation
			apiErr.FieldErrors = fields
		}
		return apiErr
	}
}

// fieldKey turns a huma error location such as "body.title" or "query.year"
// into the bare field name.
func fieldKey(location string) string {
	for _, prefix := range []string{"body.", "query.", "path.", "header.", "cookie."} {
		if rest, ok := strings.CutPrefix(location, prefix); ok {
			return rest
		}
	}
	if location == "" {
		return "body"
	}
	return location
}

// toAPIError converts a service error into a response.
// Anything that is not a client-facing domain error is logged and reported as a generic 500.
func (s *Server) toAPIError(ctx context.Context, err error) error {
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) && domainErr.HTTPStatus() < http.StatusInternalServerError {
		return fromDomainError(domainErr)
	}

	s.logger.Error("request failed",
		"error", err,
		"request_id", middleware.GetReqID(ctx),
	)
	return newAPIError(http.StatusInternalServerError, msgInternalError)
}
