package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/thermoguard/internal/domain"
	"github.com/roach88/thermoguard/internal/seed"
	"github.com/roach88/thermoguard/internal/testutil"
)

func at(d time.Duration) time.Time {
	return testutil.Epoch.Add(d)
}

func ptr[T any](v T) *T { return &v }

func TestCompute_SeedSnapshot(t *testing.T) {
	s := seed.MustDefault().Build(testutil.Epoch)

	d := Compute(s, testutil.Epoch)

	assert.Equal(t, 2, d.Customers)
	assert.Equal(t, 5, d.Devices)
	assert.Equal(t, 6, d.Users)
	assert.Equal(t, 2, d.Vendors)
	assert.Zero(t, d.AlertsToday)
	assert.Zero(t, d.TotalJobs)
	assert.Equal(t, "--", d.AvgResponse())
	assert.Equal(t, "All clear", d.IncidentsLabel())
	assert.Equal(t, 5, d.DevicesByStatus[domain.StatusNormal])
}

func TestCompute_Alerts(t *testing.T) {
	s := domain.Snapshot{
		Alerts: []domain.Alert{
			{ID: "a1", Timestamp: at(-time.Hour)},
			{ID: "a2", Timestamp: at(-23 * time.Hour), Acknowledged: true},
			{ID: "a3", Timestamp: at(-25 * time.Hour)},
		},
	}

	d := Compute(s, testutil.Epoch)

	assert.Equal(t, 2, d.AlertsToday, "only the last 24 hours count")
	assert.Equal(t, 2, d.ActiveIncidents)
	assert.Equal(t, "Needs attention", d.IncidentsLabel())
}

func TestCompute_Jobs(t *testing.T) {
	s := domain.Snapshot{
		Jobs: []domain.Job{
			{ID: "j1", Status: domain.JobResolved, CreatedAt: at(0), ResolvedAt: ptr(at(30 * time.Minute))},
			{ID: "j2", Status: domain.JobResolved, CreatedAt: at(0), ResolvedAt: ptr(at(61 * time.Minute))},
			{ID: "j3", Status: domain.JobDeclined, CreatedAt: at(0)},
			{ID: "j4", Status: domain.JobInProgress, CreatedAt: at(0)},
			{ID: "j5", Status: domain.JobNew, CreatedAt: at(0)},
		},
	}

	d := Compute(s, testutil.Epoch)

	assert.Equal(t, 2, d.ResolvedJobs)
	assert.Equal(t, 46, d.AvgResponseMinutes, "45.5 rounds up")
	assert.Equal(t, "46m", d.AvgResponse())
	assert.Equal(t, 2, d.ActiveJobs)
	assert.Equal(t, 5, d.TotalJobs)
}

func TestCompute_DevicesByStatus(t *testing.T) {
	s := domain.Snapshot{
		Devices: []domain.Device{
			{ID: "d1", Status: domain.StatusNormal},
			{ID: "d2", Status: domain.StatusCritical},
			{ID: "d3", Status: domain.StatusWarning},
			{ID: "d4", Status: domain.StatusCritical},
		},
	}

	d := Compute(s, testutil.Epoch)

	assert.Equal(t, 1, d.DevicesByStatus[domain.StatusNormal])
	assert.Equal(t, 1, d.DevicesByStatus[domain.StatusWarning])
	assert.Equal(t, 2, d.DevicesByStatus[domain.StatusCritical])
}
