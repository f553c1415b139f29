package access

import (
	"errors"
	"fmt"

	"github.com/workmatrix/workmatrix-backend-go/internal/domain/user"
)

// ErrRoleUnknown means the role lookup failed. It is never treated as unauthenticated.
var ErrRoleUnknown = errors.New("role could not be determined")

var ErrInvalidArea = errors.New("invalid area")

// Area is a protected section of the product.
type Area string

const (
	AreaEmployee   Area = "employee"
	AreaAdmin      Area = "admin"
	AreaSuperAdmin Area = "super_admin"
)

func ParseArea(s string) (Area, error) {
	switch a := Area(s); a {
	case AreaEmployee, AreaAdmin, AreaSuperAdmin:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidArea, s)
	}
}

// Level is the access level derived from role and pending-request state.
type Level int

const (
	LevelAnonymous Level = iota
	LevelEmployee
	LevelPendingAdmin
	LevelAdmin
	LevelSuperAdmin
)

func (l Level) String() string {
	switch l {
	case LevelAnonymous:
		return "anonymous"
	case LevelEmployee:
		return "employee"
	case LevelPendingAdmin:
		return "pending_admin"
	case LevelAdmin:
		return "admin"
	case LevelSuperAdmin:
		return "super_admin"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Resolution is the Role Resolver's answer for one identity.
type Resolution struct {
	Authenticated bool
	IdentityID    string
	ProfileID     string
	// Role is nil for an authenticated identity whose profile does not exist yet.
	Role     *user.Role
	IsActive bool
}

// HasProfile reports whether a profile was found for the identity.
func (r Resolution) HasProfile() bool {
	return r.Role != nil
}

// LevelFor derives the access level. Deactivated profiles get no access at all.
func LevelFor(res Resolution, pending bool) Level {
	if !res.Authenticated {
		return LevelAnonymous
	}
	if res.Role == nil {
		return LevelEmployee
	}
	if !res.IsActive {
		return LevelAnonymous
	}
	switch *res.Role {
	case user.RoleSuperAdmin:
		return LevelSuperAdmin
	case user.RoleAdmin:
		return LevelAdmin
	default:
		if pending {
			return LevelPendingAdmin
		}
		return LevelEmployee
	}
}
