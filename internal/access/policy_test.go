package access

import "testing"

func TestCanAccessMatrix(t *testing.T) {
	cases := []struct {
		resource  Resource
		admin     bool
		commander bool
		logistics bool
	}{
		{ResourceUsers, true, false, false},
		{ResourceBases, true, false, false},
		{ResourceRegistration, true, false, false},
		{ResourceAssets, true, false, true},
		{ResourcePurchases, true, false, true},
		{ResourceTransfers, true, true, true},
		{ResourceAssignments, true, true, true},
		{ResourceDashboard, true, true, true},
	}

	for _, tc := range cases {
		if got := CanAccess(RoleAdmin, tc.resource); got != tc.admin {
			t.Errorf("CanAccess(admin, %s) = %v, want %v", tc.resource, got, tc.admin)
		}
		if got := CanAccess(RoleCommander, tc.resource); got != tc.commander {
			t.Errorf("CanAccess(commander, %s) = %v, want %v", tc.resource, got, tc.commander)
		}
		if got := CanAccess(RoleLogistics, tc.resource); got != tc.logistics {
			t.Errorf("CanAccess(logistics, %s) = %v, want %v", tc.resource, got, tc.logistics)
		}
	}
}

func TestCanAccessUnauthenticated(t *testing.T) {
	for _, resource := range Resources() {
		if CanAccess("", resource) {
			t.Errorf("CanAccess(\"\", %s) = true, want false", resource)
		}
	}
}

func TestCanAccessUnknown(t *testing.T) {
	if CanAccess("intruder", ResourceDashboard) {
		t.Error("unknown role granted access")
	}
	if CanAccess(RoleAdmin, "armory") {
		t.Error("unknown resource granted access")
	}
}

func TestIsValidRole(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleCommander, RoleLogistics} {
		if !IsValidRole(role) {
			t.Errorf("IsValidRole(%s) = false", role)
		}
	}
	if IsValidRole("") || IsValidRole("superuser") {
		t.Error("invalid role accepted")
	}
}
