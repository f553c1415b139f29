package user

import "errors"

var (
	ErrProfileNotFound     = errors.New("profile not found")
	ErrProfileEmailExists  = errors.New("email already registered")
	ErrInvalidRole         = errors.New("invalid role")
	ErrSuperAdminRequired  = errors.New("super admin access required")
	ErrSelfRoleChange      = errors.New("super admin cannot change own role or status")
	ErrInvalidEmailFormat  = errors.New("invalid email format")
	ErrProfileIdentityUsed = errors.New("identity already has a profile")
)
