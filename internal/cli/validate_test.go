package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/thermoguard/internal/seed"
)

func TestValidate_EmbeddedDefault(t *testing.T) {
	cmd := NewValidateCommand(testRootOpts(t, "text"))

	out, err := execute(cmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Seed (embedded default) is valid")
	assert.Contains(t, out, "5 devices")
}

func TestValidate_JSON(t *testing.T) {
	cmd := NewValidateCommand(testRootOpts(t, "json"))

	out, err := execute(cmd)
	require.NoError(t, err)

	var result ValidateResult
	resp := decodeData(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Valid)
	assert.Equal(t, 2, result.Customers)
	assert.Equal(t, 5, result.Devices)
}

func TestValidate_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("customers: [\n"), 0o644))

	cmd := NewValidateCommand(testRootOpts(t, "json"))
	out, err := execute(cmd, path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result ValidateResult
	decodeData(t, out, &result)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, seed.ErrDecode, result.Errors[0].Code)
}

func TestValidate_MissingFile(t *testing.T) {
	cmd := NewValidateCommand(testRootOpts(t, "text"))

	out, err := execute(cmd, filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E002]")
}
