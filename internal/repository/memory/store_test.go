package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/adminrequest"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/auth"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/user"
)

func seedProfile(t *testing.T, s *Store, id string, role user.Role) user.Profile {
	t.Helper()
	p, err := NewProfileRepository(s).Create(t.Context(), user.Profile{
		ID:             id,
		AuthIdentityID: "identity-" + id,
		Email:          id + "@example.com",
		FullName:       id,
		Role:           role,
		IsActive:       true,
	})
	require.NoError(t, err)
	return p
}

func TestStore_WithinTransaction_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	profiles := NewProfileRepository(s)
	seedProfile(t, s, "p1", user.RoleEmployee)

	boom := errors.New("boom")
	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, profiles.UpdateRole(ctx, "p1", user.RoleAdmin))
		seedProfile(t, s, "p2", user.RoleEmployee)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, err := profiles.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, user.RoleEmployee, p.Role)

	_, err = profiles.GetByID(ctx, "p2")
	assert.ErrorIs(t, err, user.ErrProfileNotFound)
}

func TestStore_WithinTransaction_Commits(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	profiles := NewProfileRepository(s)
	seedProfile(t, s, "p1", user.RoleEmployee)

	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		// nested calls join the outer transaction
		return s.WithinTransaction(ctx, func(ctx context.Context) error {
			return profiles.UpdateRole(ctx, "p1", user.RoleAdmin)
		})
	})
	require.NoError(t, err)

	p, err := profiles.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, p.Role)
}

func TestStore_FailNext_IsOneShot(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	profiles := NewProfileRepository(s)
	seedProfile(t, s, "p1", user.RoleEmployee)

	boom := errors.New("connection reset")
	s.FailNext("profiles.GetByID", boom)

	_, err := profiles.GetByID(ctx, "p1")
	assert.ErrorIs(t, err, boom)

	_, err = profiles.GetByID(ctx, "p1")
	assert.NoError(t, err)
}

func TestProfileRepository_UniqueEmail(t *testing.T) {
	s := NewStore()
	seedProfile(t, s, "p1", user.RoleEmployee)

	_, err := NewProfileRepository(s).Create(t.Context(), user.Profile{
		ID:             "p2",
		AuthIdentityID: "identity-p2",
		Email:          "P1@example.com",
		Role:           user.RoleEmployee,
	})
	assert.ErrorIs(t, err, user.ErrProfileEmailExists)
}

func TestAdminRequestRepository_OnePendingPerRequester(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedProfile(t, s, "p1", user.RoleEmployee)
	requests := NewAdminRequestRepository(s)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	_, err := requests.Create(ctx, adminrequest.Request{ID: "r1", RequesterProfileID: "p1", Status: adminrequest.StatusPending, RequestedAt: now})
	require.NoError(t, err)

	_, err = requests.Create(ctx, adminrequest.Request{ID: "r2", RequesterProfileID: "p1", Status: adminrequest.StatusPending, RequestedAt: now})
	assert.ErrorIs(t, err, adminrequest.ErrDuplicateRequest)

	_, err = requests.Decide(ctx, adminrequest.Decision{RequestID: "r1", Status: adminrequest.StatusRejected, DecidedBy: "root", DecidedAt: now})
	require.NoError(t, err)

	// a decided request frees the slot
	_, err = requests.Create(ctx, adminrequest.Request{ID: "r3", RequesterProfileID: "p1", Status: adminrequest.StatusPending, RequestedAt: now.Add(time.Minute)})
	require.NoError(t, err)

	latest, err := requests.GetLatestByRequester(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "r3", latest.ID)

	// deciding twice is refused
	_, err = requests.Decide(ctx, adminrequest.Decision{RequestID: "r1", Status: adminrequest.StatusApproved, DecidedBy: "root", DecidedAt: now})
	assert.ErrorIs(t, err, adminrequest.ErrInvalidState)
}

func TestTokenRepository_RevokeAndPurge(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	tokens := NewTokenRepository(s)
	now := time.Now()

	require.NoError(t, tokens.CreateRefreshToken(ctx, "i1", "live", now.Add(time.Hour), auth.SessionTrackingRequest{}))
	require.NoError(t, tokens.CreateRefreshToken(ctx, "i1", "stale", now.Add(-time.Hour), auth.SessionTrackingRequest{}))

	identityID, revoked, err := tokens.IsRefreshTokenRevoked(ctx, "live")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Equal(t, "i1", identityID)

	require.NoError(t, tokens.RevokeRefreshToken(ctx, "live"))
	_, revoked, err = tokens.IsRefreshTokenRevoked(ctx, "live")
	require.NoError(t, err)
	assert.True(t, revoked)

	removed, err := tokens.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, revoked, err = tokens.IsRefreshTokenRevoked(ctx, "unknown")
	require.NoError(t, err)
	assert.True(t, revoked)
}
