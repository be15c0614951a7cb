package tracking

import (
	"errors"
	"fmt"
)

// TrackerError represents an error from a tracking carrier.
type TrackerError struct {
	Carrier    string
	Code       string
	Message    string
	StatusCode int
	Cause      error
}

// Error implements the error interface.
func (e *TrackerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error (%s): %s: %v", e.Carrier, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error (%s): %s", e.Carrier, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *TrackerError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for TrackerError.
func (e *TrackerError) Is(target error) bool {
	t, ok := target.(*TrackerError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewTrackerError creates a new TrackerError.
func NewTrackerError(carrier, code, message string) *TrackerError {
	return &TrackerError{
		Carrier: carrier,
		Code:    code,
		Message: message,
	}
}

// WithCause adds a cause to the error.
func (e *TrackerError) WithCause(err error) *TrackerError {
	e.Cause = err
	return e
}

// WithStatusCode adds an HTTP status code to the error.
func (e *TrackerError) WithStatusCode(code int) *TrackerError {
	e.StatusCode = code
	return e
}

// Sentinel errors for common tracking scenarios.
var (
	// ErrTrackingNotFound indicates the carrier has no record of the tracking code.
	ErrTrackingNotFound = errors.New("tracking code not found")

	// ErrInvalidCode indicates the tracking code is malformed.
	ErrInvalidCode = errors.New("invalid tracking code")

	// ErrServiceUnavailable indicates the carrier service is temporarily unavailable.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrAuthenticationFailed indicates carrier authentication failed.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrCarrierNotFound indicates the requested carrier is not registered.
	ErrCarrierNotFound = errors.New("carrier not found")
)
