package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/thermoguard/internal/domain"
	"github.com/roach88/thermoguard/internal/reducer"
)

// Scenario defines a scripted session and the checks run after it.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files are named after it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Seed drives the simulator RNG. Zero selects 1.
	Seed uint64 `yaml:"seed,omitempty"`

	// SessionID is the fixed journal session ID. If empty, defaults to
	// "test-session-default".
	SessionID string `yaml:"session_id,omitempty"`

	// Dataset is an optional seed dataset path, relative to the scenario
	// file. Empty selects the embedded default.
	Dataset string `yaml:"dataset,omitempty"`

	// Steps run in order against one engine.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace and state.
	// Supported types: trace_contains, trace_order, trace_count,
	// final_state, final_count
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one scripted operation. Exactly one operation field must be set.
type Step struct {
	Login       *Credentials `yaml:"login,omitempty"`
	SwitchUser  string       `yaml:"switch_user,omitempty"`
	Tick        int          `yaml:"tick,omitempty"`
	Inject      *Injection   `yaml:"inject,omitempty"`
	Spike       *Injection   `yaml:"spike,omitempty"`
	HandleAlert *AlertStep   `yaml:"handle_alert,omitempty"`
	JobStatus   *JobStep     `yaml:"job_status,omitempty"`
	ToggleRule  string       `yaml:"toggle_rule,omitempty"`
	EditDevice  *DeviceEdit  `yaml:"edit_device,omitempty"`

	// Command names an argument-free command: start_simulation,
	// stop_simulation, trigger_failure, reset_demo, logout.
	Command string `yaml:"command,omitempty"`

	// Expect validates the step outcome. If nil, the step must not fail.
	Expect *StepExpect `yaml:"expect,omitempty"`
}

type Credentials struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type Injection struct {
	Device      string  `yaml:"device"`
	Temperature float64 `yaml:"temperature"`
}

type AlertStep struct {
	Alert string `yaml:"alert"`
	// Job is repair, rental, or empty to acknowledge only.
	Job domain.JobType `yaml:"job,omitempty"`
}

type JobStep struct {
	Job    string           `yaml:"job"`
	Status domain.JobStatus `yaml:"status"`
}

type DeviceEdit struct {
	Device string `yaml:"device"`
	Field  string `yaml:"field"`
	Value  string `yaml:"value"`
}

// StepExpect specifies the expected step outcome.
type StepExpect struct {
	// Applied is the expected number of commands that changed state.
	Applied *int `yaml:"applied,omitempty"`

	// Error is the expected runtime error code, e.g. INVALID_CREDENTIALS.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates trace or final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": a command of Kind appears, payload matching Args
	// - "trace_order": Kinds appear in this order (first occurrences)
	// - "trace_count": Kind appears exactly Count times
	// - "final_state": the entity with ID matches Expect
	// - "final_count": Collection holds exactly Count items
	Type string `yaml:"type"`

	// Kind is the command kind (trace_contains, trace_count).
	Kind string `yaml:"kind,omitempty"`

	// Applied restricts trace_contains and trace_count to applied
	// (true) or no-op (false) commands.
	Applied *bool `yaml:"applied,omitempty"`

	// Args are expected payload fields (trace_contains). Subset match.
	Args map[string]any `yaml:"args,omitempty"`

	// Kinds is the expected order (trace_order).
	Kinds []string `yaml:"kinds,omitempty"`

	// Count is the expected occurrence or item count.
	Count int `yaml:"count,omitempty"`

	// Entity is device, alert, job, rule, user or snapshot (final_state).
	Entity string `yaml:"entity,omitempty"`

	// ID selects the entity (final_state). Unused for snapshot.
	ID string `yaml:"id,omitempty"`

	// Expect contains expected field values (final_state). Subset match
	// on the entity's JSON form.
	Expect map[string]any `yaml:"expect,omitempty"`

	// Collection is alerts, jobs, notifications, activity, devices or
	// rules (final_count).
	Collection string `yaml:"collection,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
	AssertFinalCount    = "final_count"
)

// Step command names.
const (
	CommandStartSimulation = "start_simulation"
	CommandStopSimulation  = "stop_simulation"
	CommandTriggerFailure  = "trigger_failure"
	CommandResetDemo       = "reset_demo"
	CommandLogout          = "logout"
)

var stepCommands = map[string]reducer.Command{
	CommandStartSimulation: reducer.StartSimulation{},
	CommandStopSimulation:  reducer.StopSimulation{},
	CommandTriggerFailure:  reducer.TriggerDemoFailure{},
	CommandResetDemo:       reducer.ResetDemo{},
	CommandLogout:          reducer.Logout{},
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative Dataset path is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Dataset != "" && !filepath.IsAbs(scenario.Dataset) {
		scenario.Dataset = filepath.Join(filepath.Dir(path), scenario.Dataset)
	}
	return scenario, nil
}

// ParseScenario decodes and validates a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, st Step) error {
	ops := st.operations()
	switch len(ops) {
	case 0:
		return fmt.Errorf("steps[%d]: no operation set", index)
	case 1:
	default:
		return fmt.Errorf("steps[%d]: exactly one operation allowed, got %v", index, ops)
	}

	switch {
	case st.Tick < 0:
		return fmt.Errorf("steps[%d]: tick count must be positive", index)
	case st.Command != "":
		if _, ok := stepCommands[st.Command]; !ok {
			return fmt.Errorf("steps[%d]: unknown command %q", index, st.Command)
		}
	case st.HandleAlert != nil:
		switch st.HandleAlert.Job {
		case "", domain.JobRepair, domain.JobRental:
		default:
			return fmt.Errorf("steps[%d]: job must be repair, rental or empty, got %q", index, st.HandleAlert.Job)
		}
	case st.JobStatus != nil:
		if st.JobStatus.Job == "" || st.JobStatus.Status == "" {
			return fmt.Errorf("steps[%d]: job_status requires job and status", index)
		}
	}
	return nil
}

// operations lists the operation fields that are set.
func (st Step) operations() []string {
	var ops []string
	if st.Login != nil {
		ops = append(ops, "login")
	}
	if st.SwitchUser != "" {
		ops = append(ops, "switch_user")
	}
	if st.Tick != 0 {
		ops = append(ops, "tick")
	}
	if st.Inject != nil {
		ops = append(ops, "inject")
	}
	if st.Spike != nil {
		ops = append(ops, "spike")
	}
	if st.HandleAlert != nil {
		ops = append(ops, "handle_alert")
	}
	if st.JobStatus != nil {
		ops = append(ops, "job_status")
	}
	if st.ToggleRule != "" {
		ops = append(ops, "toggle_rule")
	}
	if st.EditDevice != nil {
		ops = append(ops, "edit_device")
	}
	if st.Command != "" {
		ops = append(ops, "command")
	}
	return ops
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Kinds) == 0 {
			return fmt.Errorf("assertions[%d]: kinds list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState:
		if _, ok := entityFinders[a.Entity]; !ok {
			return fmt.Errorf("assertions[%d]: unknown entity %q for final_state", index, a.Entity)
		}
		if a.Entity != "snapshot" && a.ID == "" {
			return fmt.Errorf("assertions[%d]: id is required for final_state", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	case AssertFinalCount:
		if _, ok := collectionSizes[a.Collection]; !ok {
			return fmt.Errorf("assertions[%d]: unknown collection %q for final_count", index, a.Collection)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for final_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
