package themo

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the Themo client.
// All errors are defined here for easy discovery and consistent organization.
var (
	// Credential validation errors
	ErrEmptyUsername = errors.New("themo: username cannot be empty")
	ErrEmptyPassword = errors.New("themo: password cannot be empty")

	// Session errors
	ErrNotAuthenticated = errors.New("themo: client is not authenticated (call Authenticate first)")
	ErrUnauthorized     = errors.New("themo: unauthorized (invalid or expired token)")

	// Resource errors
	ErrNotFound = errors.New("themo: resource not found")

	// Identifier validation errors
	ErrEmptyEnvironmentID = errors.New("themo: environment ID cannot be empty")
	ErrEmptyDeviceID      = errors.New("themo: device ID cannot be empty")
	ErrEmptyScheduleID    = errors.New("themo: schedule ID cannot be empty")
	ErrEmptyScheduleName  = errors.New("themo: schedule name cannot be empty")

	// Command validation errors
	ErrInvalidMode     = errors.New("themo: invalid device mode")
	ErrUnknownSchedule = errors.New("themo: unknown schedule name")
)

// APIError represents a non-2xx response from the Themo API that is not an
// authentication failure.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("themo: API error %d: %s", e.StatusCode, strings.TrimSpace(e.Message))
}

// AuthError represents a rejected login or a login response without a token.
// It carries the raw response status and body for diagnostics.
type AuthError struct {
	StatusCode int
	Body       string
	Reason     string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("themo: authentication failed: %s (status code: %d)", e.Reason, e.StatusCode)
	}
	return fmt.Sprintf("themo: authentication failed (status code: %d): %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// ConnectionError represents a network or timeout level failure, not
// attributable to the server's business logic.
type ConnectionError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("themo: connection error during %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// IsAuthError returns true if the error indicates an authentication failure.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNotAuthenticated) {
		return true
	}
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// IsConnectionError returns true if the error is a network-level failure.
func IsConnectionError(err error) bool {
	var connErr *ConnectionError
	return errors.As(err, &connErr)
}

// IsNotFound returns true if the error indicates the resource was not found.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsValidation returns true if the error is a caller-input validation failure
// (an out-of-enum mode or an unknown schedule name).
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidMode) || errors.Is(err, ErrUnknownSchedule)
}

// IsTimeout returns true if the error indicates a timeout.
func IsTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
