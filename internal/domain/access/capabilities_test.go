package access

import (
	"slices"
	"testing"

	"kaskelas/internal/domain/users"
)

func TestCapabilitiesFor(t *testing.T) {
	if !slices.Contains(CapabilitiesFor(users.RoleAdmin), ManageUsers) {
		t.Fatal("admin cannot manage users")
	}
	if slices.Contains(CapabilitiesFor(users.RoleTreasurer), ManageUsers) {
		t.Fatal("treasurer can manage users")
	}
	if got := CapabilitiesFor("guest"); len(got) != 0 {
		t.Fatalf("unknown role got %v", got)
	}
}
