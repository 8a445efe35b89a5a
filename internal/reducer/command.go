package reducer

import "github.com/roach88/thermoguard/internal/domain"

// Command is an input to Apply. Kind names the command in logs and the
// journal; the struct itself is the JSON payload.
type Command interface {
	Kind() string
}

// UpdateDeviceTemperature records a new reading. The previous reading is
// appended to the device history.
type UpdateDeviceTemperature struct {
	DeviceID    string        `json:"device_id"`
	Temperature float64       `json:"temperature"`
	Status      domain.Status `json:"status"`
}

// Device fields UpdateDeviceField may overwrite.
const (
	FieldLocation = "location"
	FieldNotes    = "notes"
)

// UpdateDeviceField overwrites a free-text device field.
type UpdateDeviceField struct {
	DeviceID string `json:"device_id"`
	Field    string `json:"field"`
	Value    string `json:"value"`
}

// ForceTemperatureSpike sets a temperature directly, bypassing history,
// and classifies it with domain.SpikeStatus.
type ForceTemperatureSpike struct {
	DeviceID    string  `json:"device_id"`
	Temperature float64 `json:"temperature"`
}

// RaiseAlert records a new alert. Alert.ID is assigned by Apply.
type RaiseAlert struct {
	Alert domain.Alert `json:"alert"`
}

// AcknowledgeAlert marks an alert as handled.
type AcknowledgeAlert struct {
	AlertID string `json:"alert_id"`
}

// CreateJob records a new dispatch job. Job.ID is assigned by Apply and the
// job always starts in domain.JobNew.
type CreateJob struct {
	Job domain.Job `json:"job"`
}

// UpdateJobStatus moves a job along its lifecycle.
type UpdateJobStatus struct {
	JobID  string           `json:"job_id"`
	Status domain.JobStatus `json:"status"`
}

// LogNotification appends a simulated SMS or email. ID and Timestamp are
// assigned by Apply.
type LogNotification struct {
	Notification domain.NotificationLog `json:"notification"`
}

// ToggleRule flips a rule's enabled flag.
type ToggleRule struct {
	RuleID string `json:"rule_id"`
}

// RulePatch lists the rule fields UpdateRule overwrites. Nil fields are kept.
type RulePatch struct {
	Name           *string             `json:"name,omitempty"`
	Condition      *domain.Condition   `json:"condition,omitempty"`
	ConditionValue *float64            `json:"condition_value,omitempty"`
	Actions        []domain.RuleAction `json:"actions,omitempty"`
	Enabled        *bool               `json:"enabled,omitempty"`
}

// UpdateRule patches an automation rule.
type UpdateRule struct {
	RuleID string    `json:"rule_id"`
	Patch  RulePatch `json:"patch"`
}

// StartSimulation arms the simulation clock.
type StartSimulation struct{}

// StopSimulation disarms the simulation clock.
type StopSimulation struct{}

// TriggerDemoFailure arms the scripted failure sequence.
type TriggerDemoFailure struct{}

// CompleteDemoFailure ends the scripted failure sequence.
type CompleteDemoFailure struct{}

// ResetDemo restores Env.Seed, keeping the logged-in identity.
type ResetDemo struct{}

// Login authenticates a seed user and starts the simulation.
type Login struct {
	Email    string `json:"email"`
	Password string `json:"-"`
}

// Logout clears the identity and stops the simulation.
type Logout struct{}

// SwitchUser replaces the current identity without credentials.
type SwitchUser struct {
	UserID string `json:"user_id"`
}

func (UpdateDeviceTemperature) Kind() string { return "UpdateDeviceTemperature" }
func (UpdateDeviceField) Kind() string       { return "UpdateDeviceField" }
func (ForceTemperatureSpike) Kind() string   { return "ForceTemperatureSpike" }
func (RaiseAlert) Kind() string              { return "RaiseAlert" }
func (AcknowledgeAlert) Kind() string        { return "AcknowledgeAlert" }
func (CreateJob) Kind() string               { return "CreateJob" }
func (UpdateJobStatus) Kind() string         { return "UpdateJobStatus" }
func (LogNotification) Kind() string         { return "LogNotification" }
func (ToggleRule) Kind() string              { return "ToggleRule" }
func (UpdateRule) Kind() string              { return "UpdateRule" }
func (StartSimulation) Kind() string         { return "StartSimulation" }
func (StopSimulation) Kind() string          { return "StopSimulation" }
func (TriggerDemoFailure) Kind() string      { return "TriggerDemoFailure" }
func (CompleteDemoFailure) Kind() string     { return "CompleteDemoFailure" }
func (ResetDemo) Kind() string               { return "ResetDemo" }
func (Login) Kind() string                   { return "Login" }
func (Logout) Kind() string                  { return "Logout" }
func (SwitchUser) Kind() string              { return "SwitchUser" }
