package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/thermoguard/internal/domain"
	"github.com/roach88/thermoguard/internal/reducer"
	"github.com/roach88/thermoguard/internal/testutil"
)

func withAlert() domain.Snapshot {
	s := fixture()
	s.Alerts = []domain.Alert{{
		ID: "alert-101", DeviceID: "d2", DeviceName: "Server Room Thermostat", Location: "Server Room, Level 1",
		CustomerID: "c1", CustomerName: "Sunrise Nursing Home", Severity: domain.SeverityCritical, Temperature: 25.46,
	}}
	return s
}

func TestDispatch_Repair(t *testing.T) {
	cmds, err := Dispatch(withAlert(), "alert-101", domain.JobRepair, testutil.Epoch)
	require.NoError(t, err)
	require.Equal(t, []string{"CreateJob", "AcknowledgeAlert"}, kinds(cmds))

	job := cmds[0].(reducer.CreateJob).Job
	require.NotNil(t, job.AlertID)
	assert.Equal(t, "alert-101", *job.AlertID)
	assert.Equal(t, "v1", job.VendorID)
	assert.Equal(t, "Temperature critical: 25.5°C", job.Issue)
	assert.Equal(t, "Sunrise Nursing Home", job.CustomerName)
	assert.Equal(t, "alert-101", cmds[1].(reducer.AcknowledgeAlert).AlertID)
}

func TestDispatch_Rental(t *testing.T) {
	cmds, err := Dispatch(withAlert(), "alert-101", domain.JobRental, testutil.Epoch)
	require.NoError(t, err)

	job := cmds[0].(reducer.CreateJob).Job
	assert.Equal(t, "v2", job.VendorID)
	assert.Equal(t, "CoolAir Rentals", job.VendorName)
	assert.Equal(t, "Temporary AC required. Temperature critical: 25.5°C", job.Issue)
}

func TestDispatch_MonitorOnly(t *testing.T) {
	cmds, err := Dispatch(withAlert(), "alert-101", "", testutil.Epoch)
	require.NoError(t, err)
	assert.Equal(t, []string{"AcknowledgeAlert"}, kinds(cmds))
}

func TestDispatch_Errors(t *testing.T) {
	_, err := Dispatch(withAlert(), "alert-999", domain.JobRepair, testutil.Epoch)
	assert.ErrorIs(t, err, ErrUnknownAlert)

	_, err = Dispatch(withAlert(), "alert-101", domain.JobType("courier"), testutil.Epoch)
	assert.ErrorContains(t, err, "unknown job type")
}
