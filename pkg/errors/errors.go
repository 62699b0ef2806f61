package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError represents a missing or invalid required field
type ValidationError struct {
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}

// HTTPStatus returns the HTTP status code for this error
func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// HTTPStatus returns the HTTP status code for this error
func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

// ConflictError represents a state conflict such as a duplicate email or a
// book that is already lent out. Conflicts surface as 400 rather than 409,
// matching the documented API contract.
type ConflictError struct {
	Message string
}

// NewConflictError creates a new conflict error
func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// HTTPStatus returns the HTTP status code for this error
func (e *ConflictError) HTTPStatus() int {
	return http.StatusBadRequest
}

// ForbiddenError represents an operation attempted by the wrong user
type ForbiddenError struct {
	Message string
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

// Error implements the error interface
func (e *ForbiddenError) Error() string {
	return e.Message
}

// HTTPStatus returns the HTTP status code for this error
func (e *ForbiddenError) HTTPStatus() int {
	return http.StatusForbidden
}

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code for this error
func (e *InternalError) HTTPStatus() int {
	return http.StatusInternalServerError
}

// HTTPStatuser interface for errors that carry an HTTP status code
type HTTPStatuser interface {
	HTTPStatus() int
}

// Status resolves the HTTP status code for err, defaulting to 500 for errors
// outside the taxonomy.
func Status(err error) int {
	var st HTTPStatuser
	if errors.As(err, &st) {
		return st.HTTPStatus()
	}
	return http.StatusInternalServerError
}
