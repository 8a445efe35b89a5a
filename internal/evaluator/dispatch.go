package evaluator

import (
	"errors"
	"fmt"
	"time"

	"github.com/roach88/thermoguard/internal/domain"
	"github.com/roach88/thermoguard/internal/reducer"
)

// ErrUnknownAlert is returned by Dispatch when the alert does not exist.
var ErrUnknownAlert = errors.New("unknown alert")

// Dispatch returns the commands for handling an alert by hand: a job of
// jobType referencing the alert, followed by AcknowledgeAlert. An empty
// jobType means "monitor only" and yields the acknowledgement alone.
func Dispatch(s domain.Snapshot, alertID string, jobType domain.JobType, now time.Time) ([]reducer.Command, error) {
	alert, _, ok := s.Alert(alertID)
	if !ok {
		return nil, fmt.Errorf("dispatch %s: %w", alertID, ErrUnknownAlert)
	}

	ack := reducer.AcknowledgeAlert{AlertID: alert.ID}

	var issue string
	switch jobType {
	case "":
		return []reducer.Command{ack}, nil
	case domain.JobRepair:
		issue = fmt.Sprintf("Temperature %s: %.1f°C", alert.Severity, alert.Temperature)
	case domain.JobRental:
		issue = fmt.Sprintf("Temporary AC required. Temperature %s: %.1f°C", alert.Severity, alert.Temperature)
	default:
		return nil, fmt.Errorf("dispatch %s: unknown job type %q", alertID, jobType)
	}

	job := newJob(s, jobType, alert.CustomerID, alert.CustomerName, alert.Location, alert.DeviceName, alert.Temperature, now)
	id := alert.ID
	job.AlertID = &id
	job.Issue = issue

	return []reducer.Command{reducer.CreateJob{Job: job}, ack}, nil
}
