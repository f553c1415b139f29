package auth

import (
	"github.com/workmatrix/workmatrix-backend-go/internal/pkg/validator"
)

// Sign-up intents accepted by the registration forms.
const (
	IntentEmployee = "employee"
	IntentAdmin    = "admin"
)

// NextPendingApproval is returned to admin-intent sign-ups so the client can show the waiting screen.
const NextPendingApproval = "pending-approval"

type RegisterRequest struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Role            string `json:"role"`
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	switch {
	case validator.IsEmpty(r.FullName):
		errs.Add("full_name", "full_name is required")
	case len(r.FullName) > 255:
		errs.Add("full_name", "full_name must not exceed 255 characters")
	}

	checkEmail(&errs, r.Email)
	checkPassword(&errs, r.Password)

	switch {
	case validator.IsEmpty(r.ConfirmPassword):
		errs.Add("confirm_password", "confirm_password is required")
	case r.ConfirmPassword != r.Password:
		errs.Add("confirm_password", "password and confirm_password do not match")
	}

	// Employee when omitted
	if validator.IsEmpty(r.Role) {
		r.Role = IntentEmployee
	} else if !validator.IsInSlice(r.Role, []string{IntentEmployee, IntentAdmin}) {
		errs.Add("role", "role must be one of: employee, admin")
	}

	return errs.Err()
}

// WantsAdmin reports whether the sign-up asked for admin access.
func (r RegisterRequest) WantsAdmin() bool {
	return r.Role == IntentAdmin
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	checkEmail(&errs, r.Email)
	switch {
	case validator.IsEmpty(r.Password):
		errs.Add("password", "password is required")
	case len(r.Password) > 255:
		errs.Add("password", "password must not exceed 255 characters")
	}

	return errs.Err()
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshTokenRequest) Validate() error {
	var errs validator.ValidationErrors

	switch {
	case validator.IsEmpty(r.RefreshToken):
		errs.Add("refresh_token", "refresh_token is required")
	case len(r.RefreshToken) > 2048:
		errs.Add("refresh_token", "refresh_token must not exceed 2048 characters")
	}

	return errs.Err()
}

// GoogleSignIn carries what the OAuth callback learned from Google.
type GoogleSignIn struct {
	GoogleID string
	Email    string
	FullName string
	Intent   string
}

type SessionTrackingRequest struct {
	UserAgent string
	IPAddress string
}

type TokenResponse struct {
	AccessToken           string `json:"access_token"`
	AccessTokenExpiresIn  int64  `json:"access_token_expires_in"`
	RefreshToken          string `json:"refresh_token"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
}

type AccessTokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
}

type RegisterResponse struct {
	TokenResponse
	ProfileID     string  `json:"profile_id"`
	Role          string  `json:"role"`
	RequestedRole string  `json:"requested_role"`
	Next          *string `json:"next,omitempty"`
}

type MeResponse struct {
	IdentityID    string  `json:"identity_id"`
	ProfileID     string  `json:"profile_id"`
	Email         string  `json:"email"`
	FullName      string  `json:"full_name"`
	Role          string  `json:"role"`
	IsActive      bool    `json:"is_active"`
	RequestStatus string  `json:"admin_request_status"`
	LastLogin     *string `json:"last_login,omitempty"`
}

func checkEmail(errs *validator.ValidationErrors, email string) {
	switch {
	case validator.IsEmpty(email):
		errs.Add("email", "email is required")
	case len(email) > 254:
		errs.Add("email", "email must not exceed 254 characters")
	case !validator.IsValidEmail(email):
		errs.Add("email", "email must be a valid email address, e.g. user@example.com")
	}
}

// Six characters is the minimum the sign-up forms have always enforced.
func checkPassword(errs *validator.ValidationErrors, password string) {
	switch {
	case validator.IsEmpty(password):
		errs.Add("password", "password is required")
	case len(password) < 6:
		errs.Add("password", "password must be at least 6 characters long")
	case len(password) > 255:
		errs.Add("password", "password must not exceed 255 characters")
	}
}
