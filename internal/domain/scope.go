package domain

// ScopeFor returns the part of the snapshot a user's dashboard shows.
//
//   - admin: everything
//   - customer, manager: devices, alerts, jobs and rules of their customer
//   - technician, rental: jobs dispatched to their vendor
//
// The user list, notification log and activity feed are admin-only.
func (s Snapshot) ScopeFor(u User) Snapshot {
	if u.Role == RoleAdmin {
		return s
	}

	out := Snapshot{
		CurrentUser:           s.CurrentUser,
		Authenticated:         s.Authenticated,
		SimulationRunning:     s.SimulationRunning,
		DemoFailureTriggered:  s.DemoFailureTriggered,
		DemoFailureInProgress: s.DemoFailureInProgress,
		Vendors:               s.Vendors,
		Devices:               []Device{},
		Alerts:                []Alert{},
		Jobs:                  []Job{},
		Notifications:         []NotificationLog{},
		Rules:                 []AutomationRule{},
		Activity:              []ActivityEntry{},
	}

	switch u.Role {
	case RoleCustomer, RoleManager:
		if c, ok := s.Customer(u.CustomerID); ok {
			out.Customers = []Customer{c}
		}
		for _, d := range s.Devices {
			if d.CustomerID == u.CustomerID {
				out.Devices = append(out.Devices, d)
			}
		}
		for _, a := range s.Alerts {
			if a.CustomerID == u.CustomerID {
				out.Alerts = append(out.Alerts, a)
			}
		}
		for _, j := range s.Jobs {
			if j.CustomerID == u.CustomerID {
				out.Jobs = append(out.Jobs, j)
			}
		}
		for _, r := range s.Rules {
			if r.CustomerID == u.CustomerID {
				out.Rules = append(out.Rules, r)
			}
		}
	case RoleTechnician, RoleRental:
		for _, j := range s.Jobs {
			if j.VendorID == u.VendorID {
				out.Jobs = append(out.Jobs, j)
			}
		}
	}

	return out
}
