package user

import "time"

type Role string

const (
	RoleEmployee   Role = "employee"    // Tracked employee
	RoleAdmin      Role = "admin"       // Approved admin, sees team data
	RoleSuperAdmin Role = "super_admin" // Approves admin access requests
)

// ParseRole converts a stored or submitted string into a Role.
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

// IsValid checks if the role is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleEmployee, RoleAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// IsAdminFamily reports whether the role may enter admin areas.
func (r Role) IsAdminFamily() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Profile is the directory record attached to an authentication identity.
type Profile struct {
	ID             string
	AuthIdentityID string
	Email          string
	FullName       string
	Role           Role
	IsActive       bool
	CreatedAt      time.Time
	LastLogin      *time.Time
}

// IsSuperAdmin checks if profile can decide admin access requests
func (p *Profile) IsSuperAdmin() bool {
	return p.Role == RoleSuperAdmin && p.IsActive
}

// IsAdmin checks if profile is an approved admin or super admin
func (p *Profile) IsAdmin() bool {
	return p.Role.IsAdminFamily()
}
