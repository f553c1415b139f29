package auth

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailAlreadyExists  = errors.New("email already registered")
	ErrAccountDisabled     = errors.New("account is disabled")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
	ErrIdentityNotFound    = errors.New("identity not found")
	ErrOAuthStateMismatch  = errors.New("oauth state mismatch")
	ErrOAuthEmailMissing   = errors.New("oauth provider returned no email")
)

// RateLimitError is returned when sign-up attempts exceed the allowed rate.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("For security purposes, you can only request this after %d seconds.", e.Seconds())
}

// Seconds rounds the wait up to whole seconds.
func (e *RateLimitError) Seconds() int64 {
	secs := int64(e.RetryAfter / time.Second)
	if e.RetryAfter%time.Second != 0 {
		secs++
	}
	return secs
}
