package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/thermoguard/internal/evaluator"
)

func TestRuntimeError_Is(t *testing.T) {
	wrapped := fmt.Errorf("login: %w", ErrInvalidCredentials)

	assert.True(t, errors.Is(wrapped, ErrInvalidCredentials))
	assert.True(t, IsInvalidCredentials(wrapped))
	assert.False(t, errors.Is(wrapped, ErrStopped))
	assert.False(t, IsUnknownDevice(wrapped))
}

func TestRuntimeError_Message(t *testing.T) {
	assert.Equal(t, `UNKNOWN_DEVICE: no device "d9"`, NewUnknownDeviceError("d9").Error())

	err := NewUnknownAlertError("alert-1", evaluator.ErrUnknownAlert)
	assert.Equal(t, `UNKNOWN_ALERT: no alert "alert-1": unknown alert`, err.Error())
	assert.ErrorIs(t, err, evaluator.ErrUnknownAlert)
	assert.Equal(t, "alert-1", err.Details["alert_id"])
}

func TestIsHelpers_NonRuntime(t *testing.T) {
	assert.False(t, IsInvalidCredentials(errors.New("boom")))
	assert.False(t, IsUnknownDevice(nil))
}
