// Package entity contains the core business objects of the project.
package entity

// Role represents the type of role an account can hold in the system.
type Role string

const (
	// RoleClient indicates an external client who receives bills.
	RoleClient Role = "client"
	// RoleDealer indicates an external dealer account.
	RoleDealer Role = "dealer"
	// RoleFieldEmployee indicates a field staff account.
	RoleFieldEmployee Role = "field-employee"
	// RoleOfficeEmployee indicates an office staff account.
	RoleOfficeEmployee Role = "office-employee"
	// RoleSalesPurchaseEmployee indicates a sales/purchase staff account.
	RoleSalesPurchaseEmployee Role = "sales-purchase-employee"
	// RoleAdmin indicates an administrator. Admin accounts are provisioned
	// out of band and never pass through the signup flow.
	RoleAdmin Role = "admin"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a value accepted at signup.
// RoleAdmin is deliberately excluded: it cannot be self-assigned.
func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleDealer, RoleFieldEmployee, RoleOfficeEmployee, RoleSalesPurchaseEmployee:
		return true
	default:
		return false
	}
}

// RequiresApproval reports whether accounts with this role are created
// pending and blocked from logging in until an admin approves them.
func (r Role) RequiresApproval() bool {
	switch r {
	case RoleFieldEmployee, RoleOfficeEmployee, RoleSalesPurchaseEmployee:
		return true
	default:
		return false
	}
}

// IsStaff reports whether the role belongs to internal staff allowed to
// manage orders and issue bills.
func (r Role) IsStaff() bool {
	switch r {
	case RoleFieldEmployee, RoleOfficeEmployee, RoleSalesPurchaseEmployee, RoleAdmin:
		return true
	default:
		return false
	}
}

var allRoles = []Role{
	RoleClient,
	RoleDealer,
	RoleFieldEmployee,
	RoleOfficeEmployee,
	RoleSalesPurchaseEmployee,
	RoleAdmin,
}

// StaffRoles returns the role names permitted to manage orders and bills.
func StaffRoles() []string {
	return roleNames(Role.IsStaff)
}

// ExternalRoles returns the role names of billable external accounts.
func ExternalRoles() []string {
	return roleNames(func(r Role) bool { return !r.IsStaff() })
}

func roleNames(include func(Role) bool) []string {
	names := make([]string, 0, len(allRoles))
	for _, r := range allRoles {
		if include(r) {
			names = append(names, r.String())
		}
	}

	return names
}
