// Package response provides consistent JSON response helpers for HTTP
// handlers, including the mapping from domain errors to status codes.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/parishdesk/parishdesk/internal/domain"
	"github.com/parishdesk/parishdesk/internal/schedule"
)

// ErrorResponse is the standard error envelope for all non-2xx responses.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code, a human-readable message and
// optional per-field details.
type ErrorDetail struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

// internalErrorJSON is pre-marshaled so we can always respond even when
// encoding the real payload fails.
const internalErrorJSON = `{"error":{"code":"INTERNAL_ERROR","message":"failed to encode response","details":[]}}`

// OK writes a 200 response with the given JSON payload.
func OK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, data)
}

// Created writes a 201 response with the given JSON payload.
func Created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, data)
}

// NoContent writes an empty 204 response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// BadRequest writes a 400 error response.
func BadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, "BAD_REQUEST", message, nil)
}

// NotFound writes a 404 error response.
func NotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, "NOT_FOUND", message, nil)
}

// InternalError writes a 500 error response without leaking internals.
func InternalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
}

// FromDomainError maps a domain error to the appropriate HTTP error response.
// Unknown errors become 500 with a generic message; the real error is logged
// with the request context but never sent to the client.
func FromDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *schedule.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, "VALIDATION_FAILED",
			"request validation failed", validationErr.Messages)
		return
	}

	var conflictErr *schedule.ConflictError
	if errors.As(err, &conflictErr) {
		// The message is the conflict protocol string; clients parse it.
		writeError(w, http.StatusConflict, "SESSION_CONFLICT", conflictErr.Error(), conflictErr.Items)
		return
	}

	switch {
	case errors.Is(err, domain.ErrOccasionNotFound),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, domain.ErrVersionConflict):
		writeError(w, http.StatusConflict, "VERSION_CONFLICT", err.Error(), nil)
	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrNameRequired),
		errors.Is(err, domain.ErrNameTooLong),
		errors.Is(err, domain.ErrInvalidFrequency),
		errors.Is(err, domain.ErrInvalidInterval),
		errors.Is(err, domain.ErrWeekdaysRequireWeekly),
		errors.Is(err, domain.ErrMissingStartDate),
		errors.Is(err, domain.ErrInvalidSessionTimes):
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error(), nil)
	default:
		slog.ErrorContext(r.Context(), "unhandled error in HTTP response", "error", err)
		InternalError(w)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	// Marshal before writing headers so an encoding failure can still
	// produce a well-formed 500.
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(internalErrorJSON))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string, details []string) {
	if details == nil {
		details = []string{}
	}
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{
		Code:    code,
		Message: message,
		Details: details,
	}})
}
