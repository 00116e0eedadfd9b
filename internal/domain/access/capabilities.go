package access

import "kaskelas/internal/domain/users"

type Capability string

const (
	ManageStudents Capability = "manage_students"
	ManageBills    Capability = "manage_bills"
	ManageExpenses Capability = "manage_expenses"
	ViewReports    Capability = "view_reports"
	ManageUsers    Capability = "manage_users"
)

// CapabilitiesFor lists what a role may do in the dashboard. Unknown roles
// get nothing.
func CapabilitiesFor(role string) []Capability {
	switch role {
	case users.RoleAdmin:
		return []Capability{ManageStudents, ManageBills, ManageExpenses, ViewReports, ManageUsers}
	case users.RoleTreasurer:
		return []Capability{ManageStudents, ManageBills, ManageExpenses, ViewReports}
	default:
		return []Capability{}
	}
}
