package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents a request the engine could not carry out.
//
// Runtime errors include:
//   - Invalid credentials: Login did not match a seed user
//   - Unknown device: an injected reading names no device
//   - Unknown alert: a manual dispatch names no alert
//   - Stopped: the Run loop is no longer accepting events
//
// Ordinary no-op commands (unknown IDs passed to Dispatch, rejected job
// transitions) are not errors; they come back as applied=false.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause, if any.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeInvalidCredentials indicates a failed login.
	ErrCodeInvalidCredentials RuntimeErrorCode = "INVALID_CREDENTIALS"

	// ErrCodeUnknownDevice indicates a reading for a device that does not exist.
	ErrCodeUnknownDevice RuntimeErrorCode = "UNKNOWN_DEVICE"

	// ErrCodeUnknownAlert indicates a manual action on a missing alert.
	ErrCodeUnknownAlert RuntimeErrorCode = "UNKNOWN_ALERT"

	// ErrCodeStopped indicates the engine has shut down.
	ErrCodeStopped RuntimeErrorCode = "STOPPED"
)

// ErrInvalidCredentials is returned by Login for an unknown email/password
// pair.
var ErrInvalidCredentials = &RuntimeError{Code: ErrCodeInvalidCredentials, Message: "invalid email or password"}

// ErrStopped is returned when an event is submitted after Run has returned.
var ErrStopped = &RuntimeError{Code: ErrCodeStopped, Message: "engine is not running"}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// Is matches runtime errors by code, so errors.Is(err, ErrInvalidCredentials)
// holds for any invalid-credentials error.
func (e *RuntimeError) Is(target error) bool {
	var re *RuntimeError
	if !errors.As(target, &re) {
		return false
	}
	return re.Code == e.Code
}

// IsInvalidCredentials returns true if the error is a failed login.
// Uses errors.As to handle wrapped errors.
func IsInvalidCredentials(err error) bool {
	return hasCode(err, ErrCodeInvalidCredentials)
}

// IsUnknownDevice returns true if the error names a missing device.
func IsUnknownDevice(err error) bool {
	return hasCode(err, ErrCodeUnknownDevice)
}

func hasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// NewUnknownDeviceError creates a RuntimeError for a missing device.
func NewUnknownDeviceError(deviceID string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeUnknownDevice,
		Message: fmt.Sprintf("no device %q", deviceID),
		Details: map[string]string{"device_id": deviceID},
	}
}

// NewUnknownAlertError creates a RuntimeError for a missing alert.
func NewUnknownAlertError(alertID string, cause error) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeUnknownAlert,
		Message: fmt.Sprintf("no alert %q", alertID),
		Details: map[string]string{"alert_id": alertID},
		Err:     cause,
	}
}
