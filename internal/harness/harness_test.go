package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/thermoguard/internal/domain"
)

func intPtr(n int) *int { return &n }

func TestRun_ManualDispatch(t *testing.T) {
	sc, err := LoadScenario("testdata/scenarios/manual_dispatch.yaml")
	require.NoError(t, err)

	result, err := Run(sc)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "golden-session-001", result.SessionID)
	require.Len(t, result.Trace, 15)
	assert.Equal(t, "Logout", result.Trace[14].Kind)
}

func TestRun_DemoFailure(t *testing.T) {
	sc, err := LoadScenario("testdata/scenarios/demo_failure.yaml")
	require.NoError(t, err)

	result, err := Run(sc)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "test-session-default", result.SessionID)

	jobs := result.Final.Jobs
	require.Len(t, jobs, 2)
	assert.Equal(t, domain.JobRental, jobs[0].Type)
	assert.Equal(t, domain.JobRepair, jobs[1].Type)
}

func TestRun_SameSeedSameTrace(t *testing.T) {
	sc, err := LoadScenario("testdata/scenarios/demo_failure.yaml")
	require.NoError(t, err)

	first, err := Run(sc)
	require.NoError(t, err)
	second, err := Run(sc)
	require.NoError(t, err)

	assert.Equal(t, first.Trace, second.Trace)
}

func TestRun_StepExpectationFailures(t *testing.T) {
	sc := &Scenario{
		Name:        "failing",
		Description: "every expectation is wrong",
		Steps: []Step{
			{Login: &Credentials{Email: "admin@demo.com", Password: "password123"}, Expect: &StepExpect{Error: "INVALID_CREDENTIALS"}},
			{Login: &Credentials{Email: "admin@demo.com", Password: "nope"}},
			{ToggleRule: "r1", Expect: &StepExpect{Applied: intPtr(0)}},
			{Inject: &Injection{Device: "d9", Temperature: 1}, Expect: &StepExpect{Error: "UNKNOWN_ALERT"}},
		},
		Assertions: []Assertion{
			{Type: AssertFinalCount, Collection: "alerts", Count: 1},
		},
	}

	result, err := Run(sc)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 5)
	assert.Contains(t, result.Errors[0], "steps[0] (login): expected error INVALID_CREDENTIALS, got none")
	assert.Contains(t, result.Errors[1], "steps[1] (login): INVALID_CREDENTIALS")
	assert.Contains(t, result.Errors[2], "steps[2] (toggle_rule): expected 0 applied commands, got 1")
	assert.Contains(t, result.Errors[3], "steps[3] (inject): expected error UNKNOWN_ALERT")
	assert.Contains(t, result.Errors[4], "Expected: 1 alerts")
}

func TestRun_DeviceEditAndSpike(t *testing.T) {
	sc := &Scenario{
		Name:        "edits",
		Description: "field edit and spike",
		Steps: []Step{
			{EditDevice: &DeviceEdit{Device: "d1", Field: "notes", Value: "Filter replaced"}},
			{Spike: &Injection{Device: "d3", Temperature: 35}},
			{Command: CommandResetDemo},
		},
		Assertions: []Assertion{
			{Type: AssertTraceOrder, Kinds: []string{"UpdateDeviceField", "ForceTemperatureSpike", "ResetDemo"}},
			{Type: AssertTraceContains, Kind: "UpdateDeviceField", Args: map[string]any{"value": "Filter replaced"}},
			{Type: AssertFinalState, Entity: "device", ID: "d1", Expect: map[string]any{"notes": ""}},
			{Type: AssertFinalState, Entity: "device", ID: "d3", Expect: map[string]any{"status": "normal"}},
		},
	}

	result, err := Run(sc)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_MissingDataset(t *testing.T) {
	sc := &Scenario{
		Name:        "x",
		Description: "y",
		Dataset:     "testdata/does-not-exist.yaml",
		Steps:       []Step{{Tick: 1}},
	}

	_, err := Run(sc)
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	s := domain.Snapshot{
		Devices: []domain.Device{{ID: "d1", Status: domain.StatusCritical}},
		Alerts:  []domain.Alert{{ID: "a", Severity: domain.SeverityWarning, Acknowledged: true}},
	}

	sum := Summarize(s)
	assert.Equal(t, []DeviceSummary{{ID: "d1", Status: domain.StatusCritical}}, sum.Devices)
	assert.Equal(t, []AlertSummary{{ID: "a", Severity: domain.SeverityWarning, Acknowledged: true}}, sum.Alerts)
	assert.Empty(t, sum.Jobs)
	assert.NotNil(t, sum.Jobs)
}
