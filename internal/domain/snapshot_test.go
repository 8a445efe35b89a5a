package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() Snapshot {
	return Snapshot{
		Users: []User{
			{ID: "u1", Email: "admin@demo.com", Password: "pw", Role: RoleAdmin},
			{ID: "u2", Email: "owner@demo.com", Password: "pw", Role: RoleCustomer, CustomerID: "c1"},
			{ID: "u4", Email: "mgr@demo.com", Password: "pw", Role: RoleManager, CustomerID: "c1"},
			{ID: "u5", Email: "tech@demo.com", Password: "pw", Role: RoleTechnician, VendorID: "v1"},
		},
		Customers: []Customer{{ID: "c1", Name: "Sunrise"}, {ID: "c2", Name: "Corner Store"}},
		Vendors:   []Vendor{{ID: "v1"}, {ID: "v2"}},
		Devices: []Device{
			{ID: "d1", CustomerID: "c1", History: []Reading{{Temperature: 20}}},
			{ID: "d4", CustomerID: "c2"},
		},
		Alerts: []Alert{{ID: "alert-1", CustomerID: "c1"}, {ID: "alert-2", CustomerID: "c2"}},
		Jobs: []Job{
			{ID: "job-1", CustomerID: "c1", VendorID: "v1"},
			{ID: "job-2", CustomerID: "c2", VendorID: "v2"},
		},
		Rules: []AutomationRule{
			{ID: "r1", CustomerID: "c1", DeviceID: "d1", Enabled: true, Actions: []RuleAction{{Type: ActionNotifyManager}}},
			{ID: "r2", CustomerID: "c1", DeviceID: "d1", Enabled: false},
			{ID: "r3", CustomerID: "c2", DeviceID: "d4", Enabled: true},
		},
		Notifications: []NotificationLog{{ID: "notif-1"}},
		Activity:      []ActivityEntry{{ID: "a1"}},
	}
}

func TestSnapshot_Lookups(t *testing.T) {
	s := fixture()

	d, idx, ok := s.Device("d4")
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "c2", d.CustomerID)

	_, _, ok = s.Device("missing")
	assert.False(t, ok)

	u, ok := s.Authenticate("mgr@demo.com", "pw")
	require.True(t, ok)
	assert.Equal(t, "u4", u.ID)

	_, ok = s.Authenticate("mgr@demo.com", "wrong")
	assert.False(t, ok)

	m, ok := s.ManagerFor("c1")
	require.True(t, ok)
	assert.Equal(t, "u4", m.ID)

	_, ok = s.ManagerFor("c2")
	assert.False(t, ok)
}

func TestSnapshot_RulesFor_EnabledOnly(t *testing.T) {
	rules := fixture().RulesFor("d1")
	require.Len(t, rules, 1)
	assert.Equal(t, "r1", rules[0].ID)
}

func TestSnapshot_Clone_IsDeep(t *testing.T) {
	s := fixture()
	c := s.Clone()

	c.Devices[0].History[0].Temperature = 99
	c.Rules[0].Actions[0].Enabled = true
	c.Alerts[0].Acknowledged = true

	assert.Equal(t, 20.0, s.Devices[0].History[0].Temperature)
	assert.False(t, s.Rules[0].Actions[0].Enabled)
	assert.False(t, s.Alerts[0].Acknowledged)
}

func TestScopeFor(t *testing.T) {
	s := fixture()

	t.Run("admin sees everything", func(t *testing.T) {
		scoped := s.ScopeFor(s.Users[0])
		assert.Len(t, scoped.Devices, 2)
		assert.Len(t, scoped.Notifications, 1)
	})

	t.Run("customer sees own site", func(t *testing.T) {
		scoped := s.ScopeFor(s.Users[1])
		require.Len(t, scoped.Devices, 1)
		assert.Equal(t, "d1", scoped.Devices[0].ID)
		require.Len(t, scoped.Alerts, 1)
		assert.Equal(t, "alert-1", scoped.Alerts[0].ID)
		assert.Len(t, scoped.Rules, 2)
		assert.Empty(t, scoped.Notifications)
		require.Len(t, scoped.Customers, 1)
		assert.Equal(t, "c1", scoped.Customers[0].ID)
	})

	t.Run("technician sees vendor jobs", func(t *testing.T) {
		scoped := s.ScopeFor(s.Users[3])
		assert.Empty(t, scoped.Devices)
		require.Len(t, scoped.Jobs, 1)
		assert.Equal(t, "job-1", scoped.Jobs[0].ID)
	})
}
