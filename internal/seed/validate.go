package seed

import (
	"fmt"

	"github.com/roach88/thermoguard/internal/domain"
)

// Validate checks identities and cross-references.
// Returns all errors found (does not fail-fast).
func (f *File) Validate() []ValidationError {
	var errs []ValidationError
	add := func(code, field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Code: code})
	}

	customers := make(map[string]bool)
	for i, c := range f.Customers {
		if customers[c.ID] {
			add(ErrDuplicateID, fmt.Sprintf("customers.%d.id", i), "duplicate customer %q", c.ID)
		}
		customers[c.ID] = true
	}

	vendors := make(map[string]bool)
	for i, v := range f.Vendors {
		if vendors[v.ID] {
			add(ErrDuplicateID, fmt.Sprintf("vendors.%d.id", i), "duplicate vendor %q", v.ID)
		}
		vendors[v.ID] = true
	}

	users := make(map[string]bool)
	emails := make(map[string]bool)
	for i, u := range f.Users {
		field := fmt.Sprintf("users.%d", i)
		if users[u.ID] {
			add(ErrDuplicateID, field+".id", "duplicate user %q", u.ID)
		}
		users[u.ID] = true
		if emails[u.Email] {
			add(ErrDuplicateEmail, field+".email", "email %q already in use", u.Email)
		}
		emails[u.Email] = true

		switch u.Role {
		case domain.RoleCustomer, domain.RoleManager:
			if u.CustomerID == "" {
				add(ErrMissingAffiliate, field+".customer_id", "%s %q needs a customer", u.Role, u.ID)
			}
		case domain.RoleTechnician, domain.RoleRental:
			if u.VendorID == "" {
				add(ErrMissingAffiliate, field+".vendor_id", "%s %q needs a vendor", u.Role, u.ID)
			}
		}
		if u.CustomerID != "" && !customers[u.CustomerID] {
			add(ErrUnknownCustomer, field+".customer_id", "unknown customer %q", u.CustomerID)
		}
		if u.VendorID != "" && !vendors[u.VendorID] {
			add(ErrUnknownVendor, field+".vendor_id", "unknown vendor %q", u.VendorID)
		}
	}

	devices := make(map[string]domain.Device)
	var failureDevices int
	for i, d := range f.Devices {
		field := fmt.Sprintf("devices.%d", i)
		if _, dup := devices[d.ID]; dup {
			add(ErrDuplicateID, field+".id", "duplicate device %q", d.ID)
		}
		devices[d.ID] = d
		if !customers[d.CustomerID] {
			add(ErrUnknownCustomer, field+".customer_id", "unknown customer %q", d.CustomerID)
		}
		if d.DemoFailure {
			failureDevices++
			if failureDevices > 1 {
				add(ErrMultipleFailure, field+".demo_failure", "device %q is a second demo_failure device", d.ID)
			}
		}
	}

	rules := make(map[string]bool)
	for i, r := range f.Rules {
		field := fmt.Sprintf("rules.%d", i)
		if rules[r.ID] {
			add(ErrDuplicateID, field+".id", "duplicate rule %q", r.ID)
		}
		rules[r.ID] = true
		d, ok := devices[r.DeviceID]
		if !ok {
			add(ErrUnknownDevice, field+".device_id", "unknown device %q", r.DeviceID)
			continue
		}
		if r.CustomerID != d.CustomerID {
			add(ErrRuleCustomer, field+".customer_id", "rule belongs to %q but device %q belongs to %q", r.CustomerID, d.ID, d.CustomerID)
		}
	}

	activity := make(map[string]bool)
	for i, a := range f.Activity {
		field := fmt.Sprintf("activity.%d", i)
		if activity[a.ID] {
			add(ErrDuplicateID, field+".id", "duplicate activity entry %q", a.ID)
		}
		activity[a.ID] = true
		if a.Age < 0 {
			add(ErrNegativeAge, field+".age", "age %s is negative", a.Age)
		}
	}

	return errs
}
