// Package apierror defines the errors that are reported to API clients
// together with the HTTP status they map to.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a failure with a client-facing message.
type APIError struct {
	Status  int
	Message string
}

// Error returns the client-facing message.
func (e *APIError) Error() string {
	return e.Message
}

// New creates an APIError.
func New(status int, message string) *APIError {
	return &APIError{Status: status, Message: message}
}

// As returns the APIError in err's chain, if any.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// NewErrBadRequest creates a 400 error with message.
func NewErrBadRequest(message string) *APIError {
	return New(http.StatusBadRequest, message)
}

// NewErrInternal is the generic 500 shown for unexpected failures.
func NewErrInternal() *APIError {
	return New(http.StatusInternalServerError, "Internal server error")
}

// NewErrRouteNotFound is returned for unmatched routes.
func NewErrRouteNotFound() *APIError {
	return New(http.StatusNotFound, "Route not found")
}

// NewErrMissingFields lists the fields an employee must have.
func NewErrMissingFields(fields []string) *APIError {
	return NewErrBadRequest("All fields are required: " + strings.Join(fields, ", "))
}

// NewErrInvalidEmployeeID is returned when the id is not a UUID.
func NewErrInvalidEmployeeID() *APIError {
	return NewErrBadRequest("Invalid employee ID")
}

// NewErrEmployeeNotFound is returned when no employee has the id.
func NewErrEmployeeNotFound() *APIError {
	return New(http.StatusNotFound, "Employee not found")
}

// NewErrEmployeeExists is returned when the email belongs to another employee.
func NewErrEmployeeExists() *APIError {
	return New(http.StatusConflict, "Employee already exists with this email")
}

// NewErrMissingSearchParams is returned when a search has no criteria.
func NewErrMissingSearchParams() *APIError {
	return NewErrBadRequest("Please provide department or position to search")
}

// NewErrUserExists is returned when the email or username is taken.
func NewErrUserExists() *APIError {
	return New(http.StatusConflict, "User already exists with this email or username")
}

// NewErrInvalidCredentials is returned for an unknown login or a wrong password.
func NewErrInvalidCredentials() *APIError {
	return New(http.StatusUnauthorized, "Invalid email or password")
}

// NewErrMissingAuthorizationToken is returned when no bearer token is sent.
func NewErrMissingAuthorizationToken() *APIError {
	return New(http.StatusUnauthorized, "Not authorized, no token")
}

// NewErrInvalidAuthorizationToken is returned when the token fails verification.
func NewErrInvalidAuthorizationToken() *APIError {
	return New(http.StatusUnauthorized, "Not authorized, token failed")
}

// NewErrUserNotFound is returned when the token names a user that no longer exists.
func NewErrUserNotFound() *APIError {
	return New(http.StatusUnauthorized, "Not authorized, user not found")
}

// NewErrFileTooLarge reports the upload limit in whole megabytes.
func NewErrFileTooLarge(limit int64) *APIError {
	return NewErrBadRequest(fmt.Sprintf("File size too large. Maximum size is %dMB", limit/(1<<20)))
}

// NewErrBodyTooLarge is returned when a request without uploads exceeds the
// body limit.
func NewErrBodyTooLarge() *APIError {
	return New(http.StatusRequestEntityTooLarge, "Request body too large")
}

// NewErrUnsupportedFileType is returned for files that are not images.
func NewErrUnsupportedFileType() *APIError {
	return NewErrBadRequest("Only image files are allowed (jpeg, jpg, png, gif, webp)")
}

// NewErrFileNotFound is returned when no stored file has the name.
func NewErrFileNotFound() *APIError {
	return New(http.StatusNotFound, "File not found")
}
