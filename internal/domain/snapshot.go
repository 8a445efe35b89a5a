package domain

// Snapshot is the complete state of the simulation at one point in time.
//
// Ordering: Alerts, Jobs, Notifications and Activity are newest first.
// Devices, Customers, Vendors, Users and Rules keep seed order.
type Snapshot struct {
	CurrentUser   *User `json:"current_user,omitempty"`
	Authenticated bool  `json:"authenticated"`

	Users     []User     `json:"users"`
	Customers []Customer `json:"customers"`
	Vendors   []Vendor   `json:"vendors"`

	Devices       []Device          `json:"devices"`
	Alerts        []Alert           `json:"alerts"`
	Jobs          []Job             `json:"jobs"`
	Notifications []NotificationLog `json:"notifications"`
	Rules         []AutomationRule  `json:"rules"`
	Activity      []ActivityEntry   `json:"activity"`

	SimulationRunning     bool `json:"simulation_running"`
	DemoFailureTriggered  bool `json:"demo_failure_triggered"`
	DemoFailureInProgress bool `json:"demo_failure_in_progress"`
}

// Device returns the device with the given ID.
func (s Snapshot) Device(id string) (Device, int, bool) {
	for i, d := range s.Devices {
		if d.ID == id {
			return d, i, true
		}
	}
	return Device{}, -1, false
}

// Customer returns the customer with the given ID.
func (s Snapshot) Customer(id string) (Customer, bool) {
	for _, c := range s.Customers {
		if c.ID == id {
			return c, true
		}
	}
	return Customer{}, false
}

// Vendor returns the vendor with the given ID.
func (s Snapshot) Vendor(id string) (Vendor, bool) {
	for _, v := range s.Vendors {
		if v.ID == id {
			return v, true
		}
	}
	return Vendor{}, false
}

// Alert returns the alert with the given ID.
func (s Snapshot) Alert(id string) (Alert, int, bool) {
	for i, a := range s.Alerts {
		if a.ID == id {
			return a, i, true
		}
	}
	return Alert{}, -1, false
}

// Job returns the job with the given ID.
func (s Snapshot) Job(id string) (Job, int, bool) {
	for i, j := range s.Jobs {
		if j.ID == id {
			return j, i, true
		}
	}
	return Job{}, -1, false
}

// Rule returns the automation rule with the given ID.
func (s Snapshot) Rule(id string) (AutomationRule, int, bool) {
	for i, r := range s.Rules {
		if r.ID == id {
			return r, i, true
		}
	}
	return AutomationRule{}, -1, false
}

// UserByID returns the user with the given ID.
func (s Snapshot) UserByID(id string) (User, bool) {
	for _, u := range s.Users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// Authenticate returns the user matching the credentials.
func (s Snapshot) Authenticate(email, password string) (User, bool) {
	for _, u := range s.Users {
		if u.Email == email && u.Password == password {
			return u, true
		}
	}
	return User{}, false
}

// ManagerFor returns the first manager assigned to a customer.
func (s Snapshot) ManagerFor(customerID string) (User, bool) {
	for _, u := range s.Users {
		if u.Role == RoleManager && u.CustomerID == customerID {
			return u, true
		}
	}
	return User{}, false
}

// RulesFor returns the enabled rules targeting a device, in seed order.
func (s Snapshot) RulesFor(deviceID string) []AutomationRule {
	var out []AutomationRule
	for _, r := range s.Rules {
		if r.DeviceID == deviceID && r.Enabled {
			out = append(out, r)
		}
	}
	return out
}

// Clone returns a deep copy of the snapshot. Writers normally copy only
// what they change; Clone is for callers that need to edit freely.
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.CurrentUser != nil {
		u := *s.CurrentUser
		out.CurrentUser = &u
	}
	out.Users = append([]User(nil), s.Users...)
	out.Customers = append([]Customer(nil), s.Customers...)
	out.Vendors = append([]Vendor(nil), s.Vendors...)
	out.Devices = make([]Device, len(s.Devices))
	for i, d := range s.Devices {
		d.History = append([]Reading(nil), d.History...)
		out.Devices[i] = d
	}
	out.Alerts = make([]Alert, len(s.Alerts))
	for i, a := range s.Alerts {
		a.NotifiedUsers = append([]string(nil), a.NotifiedUsers...)
		out.Alerts[i] = a
	}
	out.Jobs = append([]Job(nil), s.Jobs...)
	out.Notifications = append([]NotificationLog(nil), s.Notifications...)
	out.Rules = make([]AutomationRule, len(s.Rules))
	for i, r := range s.Rules {
		r.Actions = append([]RuleAction(nil), r.Actions...)
		out.Rules[i] = r
	}
	out.Activity = append([]ActivityEntry(nil), s.Activity...)
	return out
}
