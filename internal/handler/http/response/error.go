package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/workmatrix/workmatrix-backend-go/internal/domain/access"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/adminrequest"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/auth"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/user"
	"github.com/workmatrix/workmatrix-backend-go/internal/pkg/validator"
)

// RoleUnknownRetryAfter is the wait suggested when the role lookup failed
const RoleUnknownRetryAfter = 5 * time.Second

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var rateLimitErr *auth.RateLimitError
	if errors.As(err, &rateLimitErr) {
		TooManyRequests(w, rateLimitErr.Error(), rateLimitErr.RetryAfter)
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, auth.ErrAccountDisabled):
		Forbidden(w, "Account is disabled")
	case errors.Is(err, auth.ErrIdentityNotFound):
		NotFound(w, "Account not found")

	// Access errors
	case errors.Is(err, access.ErrRoleUnknown):
		ServiceUnavailable(w, "Role could not be determined, try again", RoleUnknownRetryAfter)
	case errors.Is(err, access.ErrInvalidArea):
		BadRequest(w, err.Error(), nil)

	// Admin access request errors
	case errors.Is(err, adminrequest.ErrRequestNotFound):
		NotFound(w, "Admin access request not found")
	case errors.Is(err, adminrequest.ErrInvalidState):
		Conflict(w, "Admin access request is no longer pending")
	case errors.Is(err, adminrequest.ErrDuplicateRequest):
		Conflict(w, "A pending admin access request already exists")
	case errors.Is(err, adminrequest.ErrAlreadyElevated):
		Conflict(w, "Profile already has admin access")
	case errors.Is(err, adminrequest.ErrForbidden):
		Forbidden(w, "Only a super admin can decide admin access requests")

	// Directory errors
	case errors.Is(err, user.ErrProfileNotFound):
		NotFound(w, "Profile not found")
	case errors.Is(err, user.ErrProfileEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrSuperAdminRequired):
		Forbidden(w, "Super admin access required")
	case errors.Is(err, user.ErrSelfRoleChange):
		Forbidden(w, "Super admin cannot change own role or status")
	case errors.Is(err, user.ErrInvalidRole):
		BadRequest(w, "Invalid role", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
