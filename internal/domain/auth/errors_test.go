package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimitError_Message(t *testing.T) {
	err := &RateLimitError{RetryAfter: 42 * time.Second}
	assert.Equal(t, "For security purposes, you can only request this after 42 seconds.", err.Error())

	// partial seconds round up
	err = &RateLimitError{RetryAfter: 41*time.Second + time.Millisecond}
	assert.Equal(t, int64(42), err.Seconds())
}

func TestRegisterRequest_Validate(t *testing.T) {
	req := RegisterRequest{
		FullName:        "Ada",
		Email:           "ada@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
	assert.NoError(t, req.Validate())
	assert.Equal(t, IntentEmployee, req.Role)
	assert.False(t, req.WantsAdmin())

	req.Role = IntentAdmin
	assert.NoError(t, req.Validate())
	assert.True(t, req.WantsAdmin())

	req.Role = "super_admin"
	assert.Error(t, req.Validate())

	req = RegisterRequest{
		FullName:        "Ada",
		Email:           "ada@example.com",
		Password:        "12345",
		ConfirmPassword: "12345",
	}
	assert.Error(t, req.Validate(), "password shorter than 6 characters")

	req = RegisterRequest{
		FullName:        "Ada",
		Email:           "ada@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret2",
	}
	assert.Error(t, req.Validate())
}

func TestSessionContext(t *testing.T) {
	_, ok := SessionFromContext(t.Context())
	assert.False(t, ok)

	ctx := WithSession(t.Context(), Session{IdentityID: "i-1", ProfileID: "p-1"})
	s, ok := SessionFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "p-1", s.ProfileID)
}
