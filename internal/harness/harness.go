package harness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/thermoguard/internal/domain"
	"github.com/roach88/thermoguard/internal/engine"
	"github.com/roach88/thermoguard/internal/journal"
	"github.com/roach88/thermoguard/internal/reducer"
	"github.com/roach88/thermoguard/internal/seed"
	"github.com/roach88/thermoguard/internal/simulation"
	"github.com/roach88/thermoguard/internal/testutil"
)

// idleInterval keeps the engine timer from firing during a scenario.
const idleInterval = 24 * time.Hour

// Harness executes scenario steps against one engine.
type Harness struct {
	engine *engine.Engine
	clock  *testutil.FakeClock
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh engine and in-memory journal for
// isolation. Deterministic helpers ensure reproducible results.
//
// Execution flow:
// 1. Build the seed snapshot and open an in-memory journal
// 2. Start the engine with a frozen clock and a seeded simulator
// 3. Execute steps, checking each step's expectation
// 4. Read the trace back from the journal
// 5. Evaluate assertions and return the result
func Run(scenario *Scenario) (*Result, error) {
	file, err := loadDataset(scenario.Dataset)
	if err != nil {
		return nil, err
	}

	j, err := journal.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory journal: %w", err)
	}
	defer j.Close()

	clock := testutil.NewFakeClock()
	rngSeed := scenario.Seed
	if rngSeed == 0 {
		rngSeed = 1
	}

	eng := engine.New(file.Build(clock.Now()),
		engine.WithStepper(simulation.New(simulation.WithSeed(rngSeed))),
		engine.WithNow(clock.Now),
		engine.WithJournal(j),
		engine.WithSessionIDs(testutil.NewFixedSessions(scenario.SessionID)),
		engine.WithInterval(idleInterval),
		engine.WithRearmOnReset(true),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = eng.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	h := &Harness{engine: eng, clock: clock}
	result := NewResult()
	result.SessionID = eng.SessionID()

	for i, step := range scenario.Steps {
		h.executeStep(ctx, i, step, result)
	}

	entries, err := j.ReadSession(ctx, eng.SessionID())
	if err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}
	for _, e := range entries {
		ev := TraceEvent{Seq: e.Seq, Kind: e.Kind, Applied: e.Applied}
		if err := json.Unmarshal(e.Payload, &ev.Payload); err != nil {
			return nil, fmt.Errorf("trace seq=%d: %w", e.Seq, err)
		}
		result.AddTrace(ev)
	}
	result.Final = eng.Snapshot()

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

func loadDataset(path string) (*seed.File, error) {
	if path == "" {
		return seed.Default()
	}
	return seed.Load(path)
}

// executeStep runs one step and records a failure if its outcome differs
// from the expectation.
func (h *Harness) executeStep(ctx context.Context, index int, step Step, result *Result) {
	applied, err := h.perform(ctx, step)
	label := fmt.Sprintf("steps[%d] (%s)", index, step.operations()[0])

	want := step.Expect
	if want == nil {
		want = &StepExpect{}
	}

	switch {
	case want.Error != "" && err == nil:
		result.AddError(fmt.Sprintf("%s: expected error %s, got none", label, want.Error))
		return
	case want.Error != "":
		var re *engine.RuntimeError
		if !errors.As(err, &re) || string(re.Code) != want.Error {
			result.AddError(fmt.Sprintf("%s: expected error %s, got %v", label, want.Error, err))
		}
		return
	case err != nil:
		result.AddError(fmt.Sprintf("%s: %v", label, err))
		return
	}

	if want.Applied != nil && *want.Applied != applied {
		result.AddError(fmt.Sprintf("%s: expected %d applied commands, got %d", label, *want.Applied, applied))
	}
}

// perform runs the step's operation and returns how many commands changed
// the snapshot.
func (h *Harness) perform(ctx context.Context, step Step) (int, error) {
	switch {
	case step.Login != nil:
		if _, err := h.engine.Login(ctx, step.Login.Email, step.Login.Password); err != nil {
			return 0, err
		}
		return 1, nil

	case step.Tick > 0:
		total := 0
		for i := 0; i < step.Tick; i++ {
			h.clock.Advance(engine.DefaultInterval)
			r, err := h.engine.Tick(ctx)
			if err != nil {
				return total, err
			}
			total += r.Applied
		}
		return total, nil

	case step.Inject != nil:
		r, err := h.engine.Inject(ctx, step.Inject.Device, step.Inject.Temperature)
		return r.Applied, err

	case step.HandleAlert != nil:
		r, err := h.engine.HandleAlert(ctx, step.HandleAlert.Alert, step.HandleAlert.Job)
		return r.Applied, err

	case step.SwitchUser != "":
		return h.dispatch(ctx, reducer.SwitchUser{UserID: step.SwitchUser})

	case step.Spike != nil:
		return h.dispatch(ctx, reducer.ForceTemperatureSpike{DeviceID: step.Spike.Device, Temperature: step.Spike.Temperature})

	case step.JobStatus != nil:
		return h.dispatch(ctx, reducer.UpdateJobStatus{JobID: step.JobStatus.Job, Status: step.JobStatus.Status})

	case step.ToggleRule != "":
		return h.dispatch(ctx, reducer.ToggleRule{RuleID: step.ToggleRule})

	case step.EditDevice != nil:
		return h.dispatch(ctx, reducer.UpdateDeviceField{
			DeviceID: step.EditDevice.Device,
			Field:    step.EditDevice.Field,
			Value:    step.EditDevice.Value,
		})

	case step.Command != "":
		return h.dispatch(ctx, stepCommands[step.Command])

	default:
		return 0, fmt.Errorf("step has no operation")
	}
}

func (h *Harness) dispatch(ctx context.Context, cmd reducer.Command) (int, error) {
	applied, err := h.engine.Dispatch(ctx, cmd)
	if err != nil || !applied {
		return 0, err
	}
	return 1, nil
}

// Summary is the condensed final state recorded alongside golden traces.
type Summary struct {
	Devices []DeviceSummary `json:"devices"`
	Alerts  []AlertSummary  `json:"alerts"`
	Jobs    []JobSummary    `json:"jobs"`
}

type DeviceSummary struct {
	ID     string        `json:"id"`
	Status domain.Status `json:"status"`
}

type AlertSummary struct {
	ID           string          `json:"id"`
	Severity     domain.Severity `json:"severity"`
	Acknowledged bool            `json:"acknowledged"`
}

type JobSummary struct {
	ID     string           `json:"id"`
	Type   domain.JobType   `json:"type"`
	Status domain.JobStatus `json:"status"`
}

// Summarize condenses s for golden comparison.
func Summarize(s domain.Snapshot) Summary {
	sum := Summary{
		Devices: make([]DeviceSummary, 0, len(s.Devices)),
		Alerts:  make([]AlertSummary, 0, len(s.Alerts)),
		Jobs:    make([]JobSummary, 0, len(s.Jobs)),
	}
	for _, d := range s.Devices {
		sum.Devices = append(sum.Devices, DeviceSummary{ID: d.ID, Status: d.Status})
	}
	for _, a := range s.Alerts {
		sum.Alerts = append(sum.Alerts, AlertSummary{ID: a.ID, Severity: a.Severity, Acknowledged: a.Acknowledged})
	}
	for _, j := range s.Jobs {
		sum.Jobs = append(sum.Jobs, JobSummary{ID: j.ID, Type: j.Type, Status: j.Status})
	}
	return sum
}
