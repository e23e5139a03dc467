package models

import "testing"

func TestRoleGrantIsSetLike(t *testing.T) {
	role := &Role{Name: "Billing"}
	permission := Permission{Id: "p1", Name: "invoice:create"}

	role.Grant(permission)
	role.Grant(permission)
	if len(role.Permissions) != 1 {
		t.Fatalf("permissions = %d, want 1", len(role.Permissions))
	}
	if !role.HasPermission("invoice:create") {
		t.Fatal("granted permission not reported")
	}
}

func TestRoleRevoke(t *testing.T) {
	role := &Role{Name: "Billing"}
	role.Grant(Permission{Id: "p1", Name: "invoice:create"})
	role.Grant(Permission{Id: "p2", Name: "invoice:manage"})

	role.Revoke("invoice:create")
	if role.HasPermission("invoice:create") {
		t.Fatal("revoked permission still reported")
	}
	if !role.HasPermission("invoice:manage") {
		t.Fatal("revoke removed the wrong permission")
	}

	// Revoking something never granted changes nothing.
	role.Revoke("team:manage")
	if len(role.Permissions) != 1 {
		t.Fatalf("permissions = %d, want 1", len(role.Permissions))
	}
}

func TestPermissionCatalogNamesAreUnique(t *testing.T) {
	seen := make(map[string]bool, len(PermissionCatalog))
	for _, permission := range PermissionCatalog {
		if seen[permission.Name] {
			t.Fatalf("duplicate catalog entry %s", permission.Name)
		}
		seen[permission.Name] = true
	}
}
