package model

import "errors"

// ErrNotFound is returned by stores when a record does not exist.
var ErrNotFound = errors.New("record not found")

// APIError is an error that carries the HTTP status to surface and,
// optionally, a structured detail payload. Details is decided at the
// construction site; the HTTP layer never infers structure from the
// message text.
type APIError struct {
	Status  int
	Message string
	Details any
}

func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates an APIError with a plain message.
func NewAPIError(message string, status int) *APIError {
	return &APIError{Status: status, Message: message}
}

// NewAPIErrorWithDetails creates an APIError whose response body is the
// given structured payload instead of the message string.
func NewAPIErrorWithDetails(message string, status int, details any) *APIError {
	return &APIError{Status: status, Message: message, Details: details}
}
