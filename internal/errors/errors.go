// Package errors provides the API error types shared by the HTTP
// transport layer. Errors render as a consistent JSON envelope via
// go-chi/render.
package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int    `json:"-"`
	ErrorCode  string `json:"code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}

// Render implements the render.Renderer interface for chi
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details any) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined errors for common scenarios
var (
	ErrInvalidRequest = New(http.StatusBadRequest, "INVALID_REQUEST", "The request is invalid")
	ErrNotFound       = New(http.StatusNotFound, "NOT_FOUND", "The requested resource was not found")
	ErrNoDataAvailable = New(http.StatusNotFound, "NO_DATA_AVAILABLE",
		"No records match the requested filters")
	ErrInternalServer = New(http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
)

// ErrValidation creates a validation error for a specific field
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(
		http.StatusBadRequest,
		"VALIDATION_ERROR",
		"Validation failed",
		map[string]string{field: message},
	)
}

// ErrorResponse is the JSON envelope written for every API error
type ErrorResponse struct {
	Error   *APIError `json:"error"`
	TraceID string    `json:"trace_id,omitempty"`
}

// Render implements the render.Renderer interface
func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.Error.StatusCode)
	return nil
}

// WriteError writes an APIError as a JSON response with the envelope.
// Non-API errors are wrapped as internal server errors so internals
// never leak to clients.
func WriteError(w http.ResponseWriter, r *http.Request, err error, traceID string) {
	apiErr, ok := err.(*APIError)
	if !ok {
		apiErr = ErrInternalServer
	}

	render.Render(w, r, &ErrorResponse{
		Error:   apiErr,
		TraceID: traceID,
	})
}
