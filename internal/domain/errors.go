package domain

import "fmt"

// APIError represents a standardized API error with HTTP status code
type APIError struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// Common error types for RFC 7807 Problem Details
const (
	ErrorTypeValidation   = "validation_error"
	ErrorTypeNotFound     = "not_found"
	ErrorTypeBadRequest   = "bad_request"
	ErrorTypeConflict     = "conflict"
	ErrorTypeUnauthorized = "unauthorized"
	ErrorTypeForbidden    = "forbidden"
	ErrorTypeInternal     = "internal_error"
	ErrorTypeBusy         = "busy"
)

// ReferentialConflictError is returned when a delete is blocked because
// dependent rows still reference the target. The message names the dependent
// entity type; the operation is never retried and never cascades.
type ReferentialConflictError struct {
	Entity    string
	Dependent string
}

func (e *ReferentialConflictError) Error() string {
	return fmt.Sprintf("não é possível excluir: existem %s vinculados a este %s", e.Dependent, e.Entity)
}

// WriteFailureError wraps a store write error with a localized prefix
// describing the attempted operation, intended for direct display.
type WriteFailureError struct {
	Operation string
	Err       error
}

func (e *WriteFailureError) Error() string {
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

func (e *WriteFailureError) Unwrap() error {
	return e.Err
}
