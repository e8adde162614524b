package rbac

import "testing"

func TestCan(t *testing.T) {
	cases := []struct {
		name   string
		role   Role
		action Action
		allow  bool
	}{
		{name: "viewer read", role: RoleViewer, action: ActionRead, allow: true},
		{name: "viewer edit", role: RoleViewer, action: ActionEdit, allow: false},
		{name: "staff edit", role: RoleStaff, action: ActionEdit, allow: true},
		{name: "staff refresh", role: RoleStaff, action: ActionRefresh, allow: false},
		{name: "assessor assess", role: RoleAssessor, action: ActionAssess, allow: true},
		{name: "assessor manage", role: RoleAssessor, action: ActionManage, allow: false},
		{name: "coordinator manage", role: RoleCoordinator, action: ActionManage, allow: true},
		{name: "unknown role", role: Role("ghost"), action: ActionRead, allow: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Can(tc.role, tc.action); got != tc.allow {
				t.Fatalf("Can(%q, %q) = %v, want %v", tc.role, tc.action, got, tc.allow)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	if Normalize("coordinator") != RoleCoordinator {
		t.Fatal("known role not preserved")
	}
	if Normalize("superuser") != RoleViewer {
		t.Fatal("unknown role must normalize to viewer")
	}
}
