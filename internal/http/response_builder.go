// Package http provides the JSON API server and handler
// implementations.
//
// This file implements a builder for constructing JSON responses with
// consistent envelopes and status-code mapping for domain errors.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"financeflow/internal/core"
	"financeflow/internal/storage"
)

// JSONResponseBuilder provides a fluent API for building JSON
// responses.
type JSONResponseBuilder struct {
	statusCode int
	body       any
	headers    map[string]string
}

// NewJSONResponse creates a new response builder with default 200
// status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

// Body sets the value to be JSON-encoded as the response body.
func (b *JSONResponseBuilder) Body(v any) *JSONResponseBuilder {
	b.body = v
	return b
}

// Header adds a custom header to the response.
func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}

	if b.body == nil {
		w.WriteHeader(b.statusCode)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	if err := json.NewEncoder(w).Encode(b.body); err != nil {
		slog.Error("Failed encoding response body", "error", err)
	}
}

// errorEnvelope is the JSON shape of every error response.
type errorEnvelope struct {
	Error string `json:"error"`
}

// ErrorResponse creates a standard error response.
func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(statusCode).Body(errorEnvelope{Error: message})
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// UnprocessableEntityError creates a 422 Unprocessable Entity error
// response.
func UnprocessableEntityError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

// NotFoundError creates a 404 Not Found error response.
func NotFoundError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

// ConflictError creates a 409 Conflict error response.
func ConflictError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusConflict, message)
}

// InternalServerError creates a 500 Internal Server Error response.
func InternalServerError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

// validationErrs are domain errors that indicate an invalid request
// rather than a server fault.
var validationErrs = []error{
	core.ErrInvalidAmount,
	core.ErrEmptyDescription,
	core.ErrDescriptionTooLong,
	core.ErrInvalidCategory,
	core.ErrInvalidType,
	core.ErrDateOutOfRange,
	core.ErrInvalidName,
	core.ErrInvalidColor,
	core.ErrColorTooLight,
	core.ErrInvalidIcon,
	core.ErrInvalidPeriod,
	core.ErrPeriodOutOfRange,
	core.ErrBudgetTooLarge,
	storage.ErrDefaultCategory,
}

// statusForError maps domain errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrDuplicateCategory),
		errors.Is(err, storage.ErrCategoryInUse):
		return http.StatusConflict
	}
	for _, sentinel := range validationErrs {
		if errors.Is(err, sentinel) {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}

// writeDomainError renders err with the appropriate status code.
// Internal faults hide the underlying error from the client.
func writeDomainError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "error", err)
		message = "internal server error"
	}
	ErrorResponse(status, message).Write(w)
}
