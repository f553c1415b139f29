package user

import (
	"time"

	"github.com/workmatrix/workmatrix-backend-go/internal/pkg/validator"
)

// ProfileResponse represents profile data in API responses
type ProfileResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FullName  string  `json:"full_name"`
	Role      string  `json:"role"`
	IsActive  bool    `json:"is_active"`
	CreatedAt string  `json:"created_at"`
	LastLogin *string `json:"last_login,omitempty"`
}

func NewProfileResponse(p Profile) ProfileResponse {
	resp := ProfileResponse{
		ID:        p.ID,
		Email:     p.Email,
		FullName:  p.FullName,
		Role:      string(p.Role),
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
	if p.LastLogin != nil {
		lastLogin := p.LastLogin.Format(time.RFC3339)
		resp.LastLogin = &lastLogin
	}
	return resp
}

// ListProfilesFilter narrows the directory listing shown to super admins
type ListProfilesFilter struct {
	Role  *string `json:"role,omitempty"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}

func (f *ListProfilesFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Role != nil {
		validRoles := []string{string(RoleEmployee), string(RoleAdmin), string(RoleSuperAdmin)}
		if !validator.IsInSlice(*f.Role, validRoles) {
			errs = append(errs, validator.ValidationError{
				Field:   "role",
				Message: "invalid role",
			})
		}
	}

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must not be negative",
		})
	}

	if f.Limit < 0 || f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be between 1 and 100",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	return nil
}

// Offset returns the row offset for the current page
func (f ListProfilesFilter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// UpdateRoleRequest represents a direct super admin role change
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

func (r *UpdateRoleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Role) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role is required",
		})
	} else {
		validRoles := []string{string(RoleEmployee), string(RoleAdmin), string(RoleSuperAdmin)}
		if !validator.IsInSlice(r.Role, validRoles) {
			errs = append(errs, validator.ValidationError{
				Field:   "role",
				Message: "invalid role",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateActiveRequest toggles whether a profile may sign in
type UpdateActiveRequest struct {
	IsActive *bool `json:"is_active"`
}

func (r *UpdateActiveRequest) Validate() error {
	if r.IsActive == nil {
		return validator.ValidationErrors{{
			Field:   "is_active",
			Message: "is_active is required",
		}}
	}
	return nil
}
