package models

import "errors"

var (
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned when a unique value (e.g. an e-mail) is already taken.
	ErrConflict = errors.New("resource already exists")

	// ErrInvalidCredentials is returned by login for an unknown e-mail or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrForbidden is returned when a user touches a route that belongs to someone else.
	ErrForbidden = errors.New("access to this resource is not allowed")

	// ErrInvalidDates is returned by bookings whose check-out is not after check-in.
	ErrInvalidDates = errors.New("check-out must be after check-in")

	// ErrEmailDisabled is returned when no e-mail sender is configured.
	ErrEmailDisabled = errors.New("email delivery is not configured")
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string `json:"message"`
}

// ValidationErrorResponse carries per-field messages.
type ValidationErrorResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}
