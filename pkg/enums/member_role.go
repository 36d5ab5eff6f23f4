package enums

import "fmt"

// MemberRole represents a salon-level permissions role.
type MemberRole string

const (
	MemberRoleOwner    MemberRole = "owner"
	MemberRoleManager  MemberRole = "manager"
	MemberRoleEmployee MemberRole = "employee"
	MemberRoleViewer   MemberRole = "viewer"
	// MemberRoleAdmin is the platform back-office role carried in system_role.
	MemberRoleAdmin MemberRole = "admin"
)

var validMemberRoles = []MemberRole{
	MemberRoleOwner,
	MemberRoleManager,
	MemberRoleEmployee,
	MemberRoleViewer,
	MemberRoleAdmin,
}

// StaffRoles lists the roles allowed to act on behalf of a salon.
func StaffRoles() []MemberRole {
	return []MemberRole{MemberRoleOwner, MemberRoleManager, MemberRoleEmployee}
}

// String implements fmt.Stringer.
func (m MemberRole) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MemberRole.
func (m MemberRole) IsValid() bool {
	for _, candidate := range validMemberRoles {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMemberRole converts raw input into a MemberRole.
func ParseMemberRole(value string) (MemberRole, error) {
	for _, candidate := range validMemberRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid member role %q", value)
}
