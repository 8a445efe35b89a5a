package reducer

import (
	"testing"

	"github.com/roach88/thermoguard/internal/domain"
	"github.com/roach88/thermoguard/internal/testutil"
)

// testEnv returns an Env with a fresh counter and a frozen clock.
func testEnv(t *testing.T) (Env, *testutil.FakeClock) {
	t.Helper()
	clock := testutil.NewFakeClock()
	return Env{
		IDs:  NewCounterIDs(DefaultIDStart),
		Now:  clock.Now,
		Seed: testSnapshot(),
	}, clock
}

// testSnapshot builds a small two-customer world.
func testSnapshot() domain.Snapshot {
	return domain.Snapshot{
		Users: []domain.User{
			{ID: "u1", Email: "admin@demo.com", Password: "password123", Role: domain.RoleAdmin},
			{ID: "u4", Email: "manager@demo.com", Password: "password123", Role: domain.RoleManager, CustomerID: "c1"},
		},
		Customers: []domain.Customer{{ID: "c1", Name: "Sunrise Nursing Home"}},
		Vendors:   []domain.Vendor{{ID: "v1", Name: "ProCool HVAC Services"}},
		Devices: []domain.Device{
			{ID: "d1", Name: "Ward A", CustomerID: "c1", Temperature: 22, ThresholdMin: 18, ThresholdMax: 25, Status: domain.StatusNormal},
			{ID: "d2", Name: "Server Room", CustomerID: "c1", Temperature: 20, ThresholdMin: 16, ThresholdMax: 24, Status: domain.StatusNormal, DemoFailure: true},
		},
		Rules: []domain.AutomationRule{
			{ID: "r2", CustomerID: "c1", DeviceID: "d2", Condition: domain.TempAbove, ConditionValue: 24, Enabled: true,
				Actions: []domain.RuleAction{{Type: domain.ActionDispatchTechnician, Enabled: true}}},
		},
		Activity: []domain.ActivityEntry{{ID: "a1", Type: "system", Message: "Platform initialized"}},
	}
}

// mustApply applies cmd and fails the test if it was a no-op.
func mustApply(t *testing.T, s domain.Snapshot, cmd Command, env Env) domain.Snapshot {
	t.Helper()
	next, ok := Apply(s, cmd, env)
	if !ok {
		t.Fatalf("%s was not applied", cmd.Kind())
	}
	return next
}
