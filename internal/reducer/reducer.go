package reducer

import (
	"fmt"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/thermoguard/internal/domain"
)

// Env carries the side inputs of Apply.
type Env struct {
	// IDs assigns identities to alerts, jobs, notifications and feed entries.
	IDs IDGenerator

	// Now stamps lastUpdated, job transitions, notifications and feed entries.
	// Defaults to time.Now.
	Now func() time.Time

	// Seed is the snapshot ResetDemo restores.
	Seed domain.Snapshot
}

func (e Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// transitions lists the job lifecycle edges. declined and resolved are
// terminal and therefore absent as keys.
var transitions = map[domain.JobStatus][]domain.JobStatus{
	domain.JobNew:        {domain.JobAccepted, domain.JobDeclined},
	domain.JobAccepted:   {domain.JobInProgress},
	domain.JobInProgress: {domain.JobResolved},
}

// CanTransition reports whether a job may move from one status to another.
func CanTransition(from, to domain.JobStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Apply computes the snapshot that results from cmd.
//
// Returns the input snapshot and false when the command is a no-op: unknown
// identities, a disallowed job transition, a failed login, or an unknown
// command type.
func Apply(s domain.Snapshot, cmd Command, env Env) (domain.Snapshot, bool) {
	switch c := cmd.(type) {
	case UpdateDeviceTemperature:
		return updateDeviceTemperature(s, c, env)
	case UpdateDeviceField:
		return updateDeviceField(s, c)
	case ForceTemperatureSpike:
		return forceTemperatureSpike(s, c, env)
	case RaiseAlert:
		return raiseAlert(s, c, env)
	case AcknowledgeAlert:
		return acknowledgeAlert(s, c)
	case CreateJob:
		return createJob(s, c, env)
	case UpdateJobStatus:
		return updateJobStatus(s, c, env)
	case LogNotification:
		return logNotification(s, c, env)
	case ToggleRule:
		return toggleRule(s, c)
	case UpdateRule:
		return updateRule(s, c)
	case StartSimulation:
		s.SimulationRunning = true
		return s, true
	case StopSimulation:
		s.SimulationRunning = false
		return s, true
	case TriggerDemoFailure:
		s.DemoFailureTriggered = true
		s.DemoFailureInProgress = true
		return s, true
	case CompleteDemoFailure:
		s.DemoFailureInProgress = false
		return s, true
	case ResetDemo:
		return resetDemo(s, env)
	case Login:
		return login(s, c)
	case Logout:
		s.CurrentUser = nil
		s.Authenticated = false
		s.SimulationRunning = false
		return s, true
	case SwitchUser:
		return switchUser(s, c)
	default:
		return s, false
	}
}

func updateDeviceTemperature(s domain.Snapshot, c UpdateDeviceTemperature, env Env) (domain.Snapshot, bool) {
	d, idx, ok := s.Device(c.DeviceID)
	if !ok {
		return s, false
	}
	now := env.now()

	history := make([]domain.Reading, 0, domain.MaxHistory)
	history = append(history, d.History...)
	history = append(history, domain.Reading{Temperature: d.Temperature, Timestamp: now})
	if len(history) > domain.MaxHistory {
		history = history[len(history)-domain.MaxHistory:]
	}

	d.History = history
	d.Temperature = c.Temperature
	d.Status = c.Status
	d.LastUpdated = now
	s.Devices = replaceDevice(s.Devices, idx, d)
	return s, true
}

func updateDeviceField(s domain.Snapshot, c UpdateDeviceField) (domain.Snapshot, bool) {
	d, idx, ok := s.Device(c.DeviceID)
	if !ok {
		return s, false
	}
	value := norm.NFC.String(c.Value)
	switch c.Field {
	case FieldLocation:
		d.Location = value
	case FieldNotes:
		d.Notes = value
	default:
		return s, false
	}
	s.Devices = replaceDevice(s.Devices, idx, d)
	return s, true
}

func forceTemperatureSpike(s domain.Snapshot, c ForceTemperatureSpike, env Env) (domain.Snapshot, bool) {
	d, idx, ok := s.Device(c.DeviceID)
	if !ok {
		return s, false
	}
	d.Temperature = c.Temperature
	d.Status = domain.SpikeStatus(c.Temperature, d.ThresholdMin, d.ThresholdMax)
	d.LastUpdated = env.now()
	s.Devices = replaceDevice(s.Devices, idx, d)
	return s, true
}

func raiseAlert(s domain.Snapshot, c RaiseAlert, env Env) (domain.Snapshot, bool) {
	a := c.Alert
	a.ID = env.IDs.Next(PrefixAlert)
	a.Acknowledged = false
	a.NotifiedUsers = append([]string{}, a.NotifiedUsers...)

	s.Alerts = prepend(s.Alerts, a, 0)
	s.Activity = prepend(s.Activity, domain.ActivityEntry{
		ID:        env.IDs.Next(PrefixActivity),
		Type:      "alert",
		Message:   fmt.Sprintf("Alert: %s - %s (%.1f°C)", a.DeviceName, a.Severity, a.Temperature),
		Timestamp: env.now(),
	}, domain.MaxActivity)
	return s, true
}

func acknowledgeAlert(s domain.Snapshot, c AcknowledgeAlert) (domain.Snapshot, bool) {
	a, idx, ok := s.Alert(c.AlertID)
	if !ok {
		return s, false
	}
	a.Acknowledged = true
	alerts := append([]domain.Alert(nil), s.Alerts...)
	alerts[idx] = a
	s.Alerts = alerts
	return s, true
}

func createJob(s domain.Snapshot, c CreateJob, env Env) (domain.Snapshot, bool) {
	j := c.Job
	j.ID = env.IDs.Next(PrefixJob)
	j.Status = domain.JobNew
	j.AcceptedAt, j.StartedAt, j.ResolvedAt = nil, nil, nil

	what := "Technician dispatched"
	if j.Type == domain.JobRental {
		what = "Rental unit ordered"
	}

	s.Jobs = prepend(s.Jobs, j, 0)
	s.Activity = prepend(s.Activity, domain.ActivityEntry{
		ID:        env.IDs.Next(PrefixActivity),
		Type:      "job",
		Message:   fmt.Sprintf("Job created: %s for %s", what, j.CustomerName),
		Timestamp: env.now(),
	}, domain.MaxActivity)
	return s, true
}

func updateJobStatus(s domain.Snapshot, c UpdateJobStatus, env Env) (domain.Snapshot, bool) {
	j, idx, ok := s.Job(c.JobID)
	if !ok || !CanTransition(j.Status, c.Status) {
		return s, false
	}
	now := env.now()

	j.Status = c.Status
	switch c.Status {
	case domain.JobAccepted:
		j.AcceptedAt = &now
	case domain.JobInProgress:
		j.StartedAt = &now
	case domain.JobResolved:
		j.ResolvedAt = &now
	}

	jobs := append([]domain.Job(nil), s.Jobs...)
	jobs[idx] = j
	s.Jobs = jobs
	s.Activity = prepend(s.Activity, domain.ActivityEntry{
		ID:        env.IDs.Next(PrefixActivity),
		Type:      "job",
		Message:   fmt.Sprintf("Job %s status updated to %s", c.JobID, c.Status),
		Timestamp: now,
	}, domain.MaxActivity)
	return s, true
}

func logNotification(s domain.Snapshot, c LogNotification, env Env) (domain.Snapshot, bool) {
	n := c.Notification
	n.ID = env.IDs.Next(PrefixNotification)
	n.Timestamp = env.now()
	s.Notifications = prepend(s.Notifications, n, domain.MaxNotifications)
	return s, true
}

func toggleRule(s domain.Snapshot, c ToggleRule) (domain.Snapshot, bool) {
	r, idx, ok := s.Rule(c.RuleID)
	if !ok {
		return s, false
	}
	r.Enabled = !r.Enabled
	s.Rules = replaceRule(s.Rules, idx, r)
	return s, true
}

func updateRule(s domain.Snapshot, c UpdateRule) (domain.Snapshot, bool) {
	r, idx, ok := s.Rule(c.RuleID)
	if !ok {
		return s, false
	}
	p := c.Patch
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Condition != nil {
		r.Condition = *p.Condition
	}
	if p.ConditionValue != nil {
		r.ConditionValue = *p.ConditionValue
	}
	if p.Actions != nil {
		r.Actions = append([]domain.RuleAction(nil), p.Actions...)
	}
	if p.Enabled != nil {
		r.Enabled = *p.Enabled
	}
	s.Rules = replaceRule(s.Rules, idx, r)
	return s, true
}

func resetDemo(s domain.Snapshot, env Env) (domain.Snapshot, bool) {
	next := env.Seed.Clone()
	for i := range next.Devices {
		next.Devices[i].History = []domain.Reading{}
	}
	next.CurrentUser = s.CurrentUser
	next.Authenticated = s.Authenticated
	next.SimulationRunning = s.Authenticated
	next.DemoFailureTriggered = false
	next.DemoFailureInProgress = false
	return next, true
}

func login(s domain.Snapshot, c Login) (domain.Snapshot, bool) {
	u, ok := s.Authenticate(c.Email, c.Password)
	if !ok {
		return s, false
	}
	s.CurrentUser = &u
	s.Authenticated = true
	s.SimulationRunning = true
	return s, true
}

func switchUser(s domain.Snapshot, c SwitchUser) (domain.Snapshot, bool) {
	u, ok := s.UserByID(c.UserID)
	if !ok {
		return s, false
	}
	s.CurrentUser = &u
	return s, true
}

// prepend returns a new slice with v first, truncated to limit when limit > 0.
func prepend[T any](list []T, v T, limit int) []T {
	n := len(list) + 1
	if limit > 0 && n > limit {
		n = limit
	}
	out := make([]T, n)
	out[0] = v
	copy(out[1:], list)
	return out
}

func replaceDevice(list []domain.Device, idx int, d domain.Device) []domain.Device {
	out := append([]domain.Device(nil), list...)
	out[idx] = d
	return out
}

func replaceRule(list []domain.AutomationRule, idx int, r domain.AutomationRule) []domain.AutomationRule {
	out := append([]domain.AutomationRule(nil), list...)
	out[idx] = r
	return out
}
