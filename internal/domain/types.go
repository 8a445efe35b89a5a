package domain

import "time"

// Collection caps. Eviction is FIFO by insertion order.
const (
	MaxHistory       = 60
	MaxNotifications = 100
	MaxActivity      = 50
)

// Status is the derived classification of a device temperature.
type Status string

const (
	StatusNormal   Status = "normal"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// Severity is the level of a raised alert.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Role identifies which dashboard a user sees.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleCustomer   Role = "customer"
	RoleManager    Role = "manager"
	RoleTechnician Role = "technician"
	RoleRental     Role = "rental"
)

// ValidRoles defines allowed user roles.
var ValidRoles = map[Role]bool{
	RoleAdmin:      true,
	RoleCustomer:   true,
	RoleManager:    true,
	RoleTechnician: true,
	RoleRental:     true,
}

// JobType distinguishes technician call-outs from rental orders.
type JobType string

const (
	JobRepair JobType = "repair"
	JobRental JobType = "rental"
)

// JobStatus is a state in the dispatch job lifecycle.
type JobStatus string

const (
	JobNew        JobStatus = "new"
	JobAccepted   JobStatus = "accepted"
	JobDeclined   JobStatus = "declined"
	JobInProgress JobStatus = "in_progress"
	JobResolved   JobStatus = "resolved"
)

// NotificationType is the simulated delivery channel.
type NotificationType string

const (
	NotifySMS   NotificationType = "sms"
	NotifyEmail NotificationType = "email"
)

// Condition is the comparison an automation rule applies.
type Condition string

const (
	TempAbove Condition = "temp_above"
	TempBelow Condition = "temp_below"
)

// ActionType is an automation rule action.
type ActionType string

const (
	ActionNotifyManager      ActionType = "notify_manager"
	ActionDispatchTechnician ActionType = "dispatch_technician"
	ActionOrderRental        ActionType = "order_rental"
)

// Platform vendors used by automation and manual dispatch.
const (
	TechnicianVendorID = "v1"
	RentalVendorID     = "v2"
)

// Reading is one entry of a device's temperature history.
type Reading struct {
	Temperature float64   `json:"temperature" yaml:"temperature"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
}

// Device is a monitored thermostat.
type Device struct {
	ID           string    `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Location     string    `json:"location" yaml:"location"`
	CustomerID   string    `json:"customer_id" yaml:"customer_id"`
	Temperature  float64   `json:"temperature" yaml:"temperature"`
	ThresholdMin float64   `json:"threshold_min" yaml:"threshold_min"`
	ThresholdMax float64   `json:"threshold_max" yaml:"threshold_max"`
	Status       Status    `json:"status" yaml:"status"`
	LastUpdated  time.Time `json:"last_updated" yaml:"-"`
	History      []Reading `json:"history" yaml:"-"`
	Notes        string    `json:"notes" yaml:"notes"`
	DemoFailure  bool      `json:"demo_failure" yaml:"demo_failure"`
}

// Customer is a monitored site owner.
type Customer struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Address      string `json:"address" yaml:"address"`
	ContactName  string `json:"contact_name" yaml:"contact_name"`
	ContactEmail string `json:"contact_email" yaml:"contact_email"`
	ContactPhone string `json:"contact_phone" yaml:"contact_phone"`
	Plan         string `json:"plan" yaml:"plan"`
}

// Vendor is a service provider jobs are dispatched to.
type Vendor struct {
	ID           string  `json:"id" yaml:"id"`
	Name         string  `json:"name" yaml:"name"`
	Type         string  `json:"type" yaml:"type"`
	ContactName  string  `json:"contact_name" yaml:"contact_name"`
	ContactEmail string  `json:"contact_email" yaml:"contact_email"`
	ContactPhone string  `json:"contact_phone" yaml:"contact_phone"`
	Rating       float64 `json:"rating" yaml:"rating"`
}

// User is a dashboard login. Password is demo data, never a secret.
type User struct {
	ID         string `json:"id" yaml:"id"`
	Email      string `json:"email" yaml:"email"`
	Password   string `json:"-" yaml:"password"`
	Name       string `json:"name" yaml:"name"`
	Role       Role   `json:"role" yaml:"role"`
	Company    string `json:"company" yaml:"company"`
	CustomerID string `json:"customer_id,omitempty" yaml:"customer_id,omitempty"`
	VendorID   string `json:"vendor_id,omitempty" yaml:"vendor_id,omitempty"`
}

// Alert records a threshold breach.
type Alert struct {
	ID            string    `json:"id"`
	DeviceID      string    `json:"device_id"`
	DeviceName    string    `json:"device_name"`
	Location      string    `json:"location"`
	CustomerID    string    `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	Severity      Severity  `json:"severity"`
	Temperature   float64   `json:"temperature"`
	Timestamp     time.Time `json:"timestamp"`
	Acknowledged  bool      `json:"acknowledged"`
	NotifiedUsers []string  `json:"notified_users"`
}

// Job is a dispatched repair or rental.
type Job struct {
	ID           string     `json:"id"`
	AlertID      *string    `json:"alert_id"` // nil for automation-created jobs
	VendorID     string     `json:"vendor_id"`
	VendorName   string     `json:"vendor_name"`
	CustomerID   string     `json:"customer_id"`
	CustomerName string     `json:"customer_name"`
	Type         JobType    `json:"type"`
	Status       JobStatus  `json:"status"`
	Location     string     `json:"location"`
	DeviceName   string     `json:"device_name"`
	Issue        string     `json:"issue"`
	Temperature  float64    `json:"temperature"`
	CreatedAt    time.Time  `json:"created_at"`
	AcceptedAt   *time.Time `json:"accepted_at,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
}

// Terminal reports whether no further transitions are accepted.
func (j Job) Terminal() bool {
	return j.Status == JobDeclined || j.Status == JobResolved
}

// NotificationLog is a simulated SMS or email send.
type NotificationLog struct {
	ID            string           `json:"id"`
	Type          NotificationType `json:"type"`
	To            string           `json:"to"`
	RecipientName string           `json:"recipient_name"`
	Subject       string           `json:"subject,omitempty"`
	Message       string           `json:"message"`
	Timestamp     time.Time        `json:"timestamp"`
}

// RuleAction is one independently switchable action of a rule.
type RuleAction struct {
	Type    ActionType `json:"type" yaml:"type"`
	Enabled bool       `json:"enabled" yaml:"enabled"`
}

// AutomationRule binds a device condition to follow-up actions.
type AutomationRule struct {
	ID             string       `json:"id" yaml:"id"`
	CustomerID     string       `json:"customer_id" yaml:"customer_id"`
	Name           string       `json:"name" yaml:"name"`
	DeviceID       string       `json:"device_id" yaml:"device_id"`
	Condition      Condition    `json:"condition" yaml:"condition"`
	ConditionValue float64      `json:"condition_value" yaml:"condition_value"`
	Actions        []RuleAction `json:"actions" yaml:"actions"`
	Enabled        bool         `json:"enabled" yaml:"enabled"`
}

// Fires reports whether the rule condition holds for temperature.
// Comparisons are strict.
func (r AutomationRule) Fires(temperature float64) bool {
	switch r.Condition {
	case TempAbove:
		return temperature > r.ConditionValue
	case TempBelow:
		return temperature < r.ConditionValue
	default:
		return false
	}
}

// ActivityEntry is a display-only feed line.
type ActivityEntry struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
