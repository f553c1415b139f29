package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/adminrequest"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/auth"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/user"
	"github.com/workmatrix/workmatrix-backend-go/internal/pkg/database"
	"github.com/workmatrix/workmatrix-backend-go/internal/repository/postgresql"
)

func newID(t *testing.T) string {
	t.Helper()
	id, err := uuid.NewV7()
	require.NoError(t, err)
	return id.String()
}

func createAccount(t *testing.T, db *database.DB, email string, role user.Role) user.Profile {
	t.Helper()
	ctx := context.Background()

	identity, err := postgresql.NewIdentityRepository(db).Create(ctx, auth.Identity{ID: newID(t), Email: email})
	require.NoError(t, err)

	profile, err := postgresql.NewProfileRepository(db).Create(ctx, user.Profile{
		ID:             newID(t),
		AuthIdentityID: identity.ID,
		Email:          email,
		FullName:       "Test " + email,
		Role:           role,
		IsActive:       true,
	})
	require.NoError(t, err)
	return profile
}

func TestIdentityRepository_Create_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewIdentityRepository(db)

	_, err := repo.Create(ctx, auth.Identity{ID: newID(t), Email: "dup@example.com"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, auth.Identity{ID: newID(t), Email: "dup@example.com"})
	assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
}

func TestProfileRepository_UpdateRoleAndLookup(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewProfileRepository(db)

	created := createAccount(t, db, "role@example.com", user.RoleEmployee)

	require.NoError(t, repo.UpdateRole(ctx, created.ID, user.RoleAdmin))

	got, err := repo.GetByIdentityID(ctx, created.AuthIdentityID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, got.Role)

	_, err = repo.GetByID(ctx, newID(t))
	assert.ErrorIs(t, err, user.ErrProfileNotFound)
}

func TestAdminRequestRepository_OnePendingPerRequester(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewAdminRequestRepository(db)
	requester := createAccount(t, db, "pending@example.com", user.RoleEmployee)

	_, err := repo.Create(ctx, adminrequest.Request{
		ID:                 newID(t),
		RequesterProfileID: requester.ID,
		Status:             adminrequest.StatusPending,
		RequestedAt:        time.Now(),
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, adminrequest.Request{
		ID:                 newID(t),
		RequesterProfileID: requester.ID,
		Status:             adminrequest.StatusPending,
		RequestedAt:        time.Now(),
	})
	assert.ErrorIs(t, err, adminrequest.ErrDuplicateRequest)
}

func TestAdminRequestRepository_DecideOnlyWhilePending(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewAdminRequestRepository(db)
	requester := createAccount(t, db, "decide@example.com", user.RoleEmployee)
	approver := createAccount(t, db, "root@example.com", user.RoleSuperAdmin)

	req, err := repo.Create(ctx, adminrequest.Request{
		ID:                 newID(t),
		RequesterProfileID: requester.ID,
		Status:             adminrequest.StatusPending,
		RequestedAt:        time.Now(),
	})
	require.NoError(t, err)

	decided, err := repo.Decide(ctx, adminrequest.Decision{
		RequestID: req.ID,
		Status:    adminrequest.StatusApproved,
		DecidedBy: approver.ID,
		DecidedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, adminrequest.StatusApproved, decided.Status)
	require.NotNil(t, decided.ApprovedByProfileID)
	assert.Equal(t, approver.ID, *decided.ApprovedByProfileID)

	_, err = repo.Decide(ctx, adminrequest.Decision{
		RequestID: req.ID,
		Status:    adminrequest.StatusRejected,
		DecidedBy: approver.ID,
		DecidedAt: time.Now(),
	})
	assert.ErrorIs(t, err, adminrequest.ErrInvalidState)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tx := postgresql.NewTransactor(db)
	profiles := postgresql.NewProfileRepository(db)
	created := createAccount(t, db, "tx@example.com", user.RoleEmployee)

	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := profiles.UpdateRole(ctx, created.ID, user.RoleAdmin); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := profiles.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleEmployee, got.Role)
}
