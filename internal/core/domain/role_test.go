package domain

import "testing"

func TestRoleClassification(t *testing.T) {
	tests := []struct {
		label       string
		internal    bool
		system      bool
		operational bool
		level       int
	}{
		{"client", false, false, false, 0},
		{"provider", false, false, false, 0},
		{"support", true, false, true, 1},
		{"verifier", true, false, true, 2},
		{"operations", true, false, true, 3},
		{"super_admin", true, true, true, 4},
		{"admin", true, true, true, 4},
		{"", false, false, false, -1},
		{"Admin", false, false, false, -1},
		{"super-admin", false, false, false, -1},
		{" client", false, false, false, -1},
		{"root", false, false, false, -1},
		{"\x00\xff", false, false, false, -1},
	}

	for _, tc := range tests {
		t.Run(tc.label, func(t *testing.T) {
			if got := IsInternalRole(tc.label); got != tc.internal {
				t.Errorf("IsInternalRole(%q) = %v, want %v", tc.label, got, tc.internal)
			}
			if got := IsSystemRole(tc.label); got != tc.system {
				t.Errorf("IsSystemRole(%q) = %v, want %v", tc.label, got, tc.system)
			}
			if got := HasOperationalAccess(tc.label); got != tc.operational {
				t.Errorf("HasOperationalAccess(%q) = %v, want %v", tc.label, got, tc.operational)
			}
			if got := GetAccessLevel(tc.label); got != tc.level {
				t.Errorf("GetAccessLevel(%q) = %d, want %d", tc.label, got, tc.level)
			}
		})
	}
}

func TestInternalLevelsAreDistinct(t *testing.T) {
	seen := map[int]Role{}
	for _, r := range []Role{RoleSupport, RoleVerifier, RoleOperations, RoleSuperAdmin} {
		lvl := r.AccessLevel()
		if prev, ok := seen[lvl]; ok {
			t.Errorf("%s and %s share level %d", prev, r, lvl)
		}
		seen[lvl] = r
	}
}

func TestParseRole_LegacyAlias(t *testing.T) {
	if got := ParseRole("admin"); got != RoleSuperAdmin {
		t.Errorf("expected legacy admin to normalize to super_admin, got %q", got)
	}
	if got := ParseRole("janitor"); got != RoleUnknown || got.Valid() {
		t.Errorf("expected unknown, got %q", got)
	}
}
