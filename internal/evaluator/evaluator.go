package evaluator

import (
	"fmt"
	"strconv"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/thermoguard/internal/domain"
	"github.com/roach88/thermoguard/internal/reducer"
)

// Contact placeholders used when a device's customer is missing.
const (
	UnknownName  = "Unknown"
	UnknownPhone = "+61 4 0000 0000"
	UnknownEmail = "unknown@demo.com"
)

// Vendor names used when the vendor record is absent from the snapshot.
var fallbackVendorNames = map[string]string{
	domain.TechnicianVendorID: "ProCool HVAC Services",
	domain.RentalVendorID:     "CoolAir Rentals",
}

// Transition reports the alert severity raised by a status change.
//
// normal→warning raises a warning; any non-critical→critical change raises
// a critical alert. Everything else, including recovery and
// critical→warning, raises nothing.
func Transition(prev, next domain.Status) (domain.Severity, bool) {
	switch {
	case next == domain.StatusWarning && prev == domain.StatusNormal:
		return domain.SeverityWarning, true
	case next == domain.StatusCritical && prev != domain.StatusCritical:
		return domain.SeverityCritical, true
	default:
		return "", false
	}
}

// Evaluate returns the commands for an alert on device at temperature.
//
// Order: RaiseAlert, SMS to the customer contact, email to the customer
// contact, then for every enabled rule on the device whose condition holds,
// its enabled actions in order. Rules are read from s, so rule edits made
// before the call take effect.
func Evaluate(s domain.Snapshot, device domain.Device, temperature float64, severity domain.Severity, now time.Time) []reducer.Command {
	customer, ok := s.Customer(device.CustomerID)
	if !ok {
		customer = domain.Customer{
			Name:         UnknownName,
			ContactName:  UnknownName,
			ContactPhone: UnknownPhone,
			ContactEmail: UnknownEmail,
		}
	}
	label := upper(string(severity))
	bounds := fmt.Sprintf("%s-%s", number(device.ThresholdMin), number(device.ThresholdMax))

	cmds := []reducer.Command{
		reducer.RaiseAlert{Alert: domain.Alert{
			DeviceID:      device.ID,
			DeviceName:    device.Name,
			Location:      device.Location,
			CustomerID:    device.CustomerID,
			CustomerName:  customer.Name,
			Severity:      severity,
			Temperature:   temperature,
			Timestamp:     now,
			NotifiedUsers: []string{},
		}},
		reducer.LogNotification{Notification: domain.NotificationLog{
			Type:          domain.NotifySMS,
			To:            orDefault(customer.ContactPhone, UnknownPhone),
			RecipientName: orDefault(customer.ContactName, UnknownName),
			Message: fmt.Sprintf("[ThermoGuard] ALERT: %s at %s reading %.1f°C (threshold: %s°C). Severity: %s",
				device.Name, device.Location, temperature, bounds, label),
		}},
		reducer.LogNotification{Notification: domain.NotificationLog{
			Type:          domain.NotifyEmail,
			To:            orDefault(customer.ContactEmail, UnknownEmail),
			RecipientName: orDefault(customer.ContactName, UnknownName),
			Subject:       fmt.Sprintf("%s: Temperature Alert - %s", emailLevel(severity), device.Name),
			Message: fmt.Sprintf("Device: %s\nLocation: %s\nTemperature: %.1f°C\nThreshold: %s°C - %s°C\nSeverity: %s\n\nPlease take immediate action.",
				device.Name, device.Location, temperature, number(device.ThresholdMin), number(device.ThresholdMax), label),
		}},
	}

	for _, rule := range s.RulesFor(device.ID) {
		if !rule.Fires(temperature) {
			continue
		}
		for _, action := range rule.Actions {
			if !action.Enabled {
				continue
			}
			if cmd, ok := actionCommand(s, action.Type, device, customer.Name, temperature, severity, bounds, now); ok {
				cmds = append(cmds, cmd)
			}
		}
	}

	return cmds
}

func actionCommand(s domain.Snapshot, action domain.ActionType, device domain.Device, customerName string,
	temperature float64, severity domain.Severity, bounds string, now time.Time) (reducer.Command, bool) {
	switch action {
	case domain.ActionNotifyManager:
		manager, ok := s.ManagerFor(device.CustomerID)
		if !ok {
			return nil, false
		}
		return reducer.LogNotification{Notification: domain.NotificationLog{
			Type:          domain.NotifyEmail,
			To:            manager.Email,
			RecipientName: manager.Name,
			Subject:       fmt.Sprintf("Action Required: %s - %s alert", device.Name, severity),
			Message: fmt.Sprintf("Automation triggered. Device %s at %.1f°C. Please review and take action.",
				device.Name, temperature),
		}}, true

	case domain.ActionDispatchTechnician:
		job := newJob(s, domain.JobRepair, device.CustomerID, customerName, device.Location, device.Name, temperature, now)
		job.Issue = fmt.Sprintf("Temperature %s: %.1f°C (threshold: %s°C)", severity, temperature, bounds)
		return reducer.CreateJob{Job: job}, true

	case domain.ActionOrderRental:
		job := newJob(s, domain.JobRental, device.CustomerID, customerName, device.Location, device.Name, temperature, now)
		job.Issue = fmt.Sprintf("Temporary AC required. Temperature %s: %.1f°C", severity, temperature)
		return reducer.CreateJob{Job: job}, true

	default:
		return nil, false
	}
}

// newJob fills the fields common to automation and manual jobs.
func newJob(s domain.Snapshot, jobType domain.JobType, customerID, customerName, location, deviceName string,
	temperature float64, now time.Time) domain.Job {
	vendorID := domain.TechnicianVendorID
	if jobType == domain.JobRental {
		vendorID = domain.RentalVendorID
	}
	vendorName := fallbackVendorNames[vendorID]
	if v, ok := s.Vendor(vendorID); ok {
		vendorName = v.Name
	}
	return domain.Job{
		VendorID:     vendorID,
		VendorName:   vendorName,
		CustomerID:   customerID,
		CustomerName: customerName,
		Type:         jobType,
		Status:       domain.JobNew,
		Location:     location,
		DeviceName:   deviceName,
		Temperature:  temperature,
		CreatedAt:    now,
	}
}

func emailLevel(severity domain.Severity) string {
	if severity == domain.SeverityCritical {
		return "CRITICAL"
	}
	return "WARNING"
}

// upper uppercases a severity label for notification text.
func upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// number formats a threshold the shortest way: 25, 25.5.
func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
