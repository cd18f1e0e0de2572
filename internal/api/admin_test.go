package api

import (
	"testing"

	"garrison/internal/access"
)

func TestAdminPanelAllowed(t *testing.T) {
	cases := []struct {
		role access.Role
		want bool
	}{
		{access.RoleAdmin, true},
		{access.RoleCommander, false},
		{access.RoleLogistics, false},
		{access.Role(""), false},
		{access.Role("superuser"), false},
	}
	for _, tc := range cases {
		if got := adminPanelAllowed(tc.role); got != tc.want {
			t.Errorf("adminPanelAllowed(%q) = %v, want %v", tc.role, got, tc.want)
		}
	}
}
