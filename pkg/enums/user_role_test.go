package enums

import "testing"

func TestParseUserRole(t *testing.T) {
	role, err := ParseUserRole("admin")
	if err != nil {
		t.Fatalf("parse admin: %v", err)
	}
	if role != UserRoleAdmin {
		t.Fatalf("expected admin, got %s", role)
	}

	if _, err := ParseUserRole("superuser"); err == nil {
		t.Fatal("expected error for unknown role")
	}
	if _, err := ParseUserRole("Admin"); err == nil {
		t.Fatal("role parsing must be case sensitive")
	}
}

func TestUserRoleIsValid(t *testing.T) {
	if !UserRoleUser.IsValid() {
		t.Fatal("user should be valid")
	}
	if UserRole("owner").IsValid() {
		t.Fatal("owner is not a valid role")
	}
}
