package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/adminrequest"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/user"
	"github.com/workmatrix/workmatrix-backend-go/internal/repository/memory"
)

func newProfileFixture(t *testing.T) (user.ProfileService, user.ProfileRepository) {
	t.Helper()
	store := memory.NewStore()
	profiles := memory.NewProfileRepository(store)

	for _, p := range []user.Profile{
		{ID: "root", AuthIdentityID: "i-root", Email: "root@x.com", Role: user.RoleSuperAdmin, IsActive: true},
		{ID: "adm", AuthIdentityID: "i-adm", Email: "adm@x.com", Role: user.RoleAdmin, IsActive: true},
		{ID: "emp", AuthIdentityID: "i-emp", Email: "emp@x.com", Role: user.RoleEmployee, IsActive: true},
	} {
		_, err := profiles.Create(context.Background(), p)
		require.NoError(t, err)
	}
	return NewProfileService(store, profiles, memory.NewAdminRequestRepository(store)), profiles
}

func TestProfileService_List_RequiresSuperAdmin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProfileFixture(t)

	_, _, err := svc.List(ctx, "adm", user.ListProfilesFilter{Page: 1, Limit: 20})
	assert.ErrorIs(t, err, user.ErrSuperAdminRequired)

	items, total, err := svc.List(ctx, "root", user.ListProfilesFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, items, 3)

	role := "employee"
	items, total, err = svc.List(ctx, "root", user.ListProfilesFilter{Role: &role, Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "emp", items[0].ID)
}

func TestProfileService_UpdateRole(t *testing.T) {
	ctx := context.Background()
	svc, _ := newProfileFixture(t)

	updated, err := svc.UpdateRole(ctx, "root", "emp", user.UpdateRoleRequest{Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "admin", updated.Role)

	_, err = svc.UpdateRole(ctx, "adm", "emp", user.UpdateRoleRequest{Role: "employee"})
	assert.ErrorIs(t, err, user.ErrSuperAdminRequired)

	_, err = svc.UpdateRole(ctx, "root", "root", user.UpdateRoleRequest{Role: "employee"})
	assert.ErrorIs(t, err, user.ErrSelfRoleChange)

	_, err = svc.UpdateRole(ctx, "root", "ghost", user.UpdateRoleRequest{Role: "admin"})
	assert.ErrorIs(t, err, user.ErrProfileNotFound)

	_, err = svc.UpdateRole(ctx, "root", "emp", user.UpdateRoleRequest{Role: "owner"})
	assert.ErrorIs(t, err, user.ErrInvalidRole)
}

func TestProfileService_SetActive(t *testing.T) {
	ctx := context.Background()
	svc, profiles := newProfileFixture(t)

	inactive := false
	updated, err := svc.SetActive(ctx, "root", "adm", user.UpdateActiveRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	p, err := profiles.GetByID(ctx, "adm")
	require.NoError(t, err)
	assert.False(t, p.IsActive)

	_, err = svc.SetActive(ctx, "root", "root", user.UpdateActiveRequest{IsActive: &inactive})
	assert.ErrorIs(t, err, user.ErrSelfRoleChange)
}

func TestProfileService_UpdateRole_ClosesPendingRequest(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	profiles := memory.NewProfileRepository(store)
	requests := memory.NewAdminRequestRepository(store)
	svc := NewProfileService(store, profiles, requests)

	for _, p := range []user.Profile{
		{ID: "root", AuthIdentityID: "i-root", Email: "root@x.com", Role: user.RoleSuperAdmin, IsActive: true},
		{ID: "emp", AuthIdentityID: "i-emp", Email: "emp@x.com", Role: user.RoleEmployee, IsActive: true},
	} {
		_, err := profiles.Create(ctx, p)
		require.NoError(t, err)
	}
	pending, err := requests.Create(ctx, adminrequest.Request{
		ID:                 "req-1",
		RequesterProfileID: "emp",
		Status:             adminrequest.StatusPending,
		RequestedAt:        time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// demoting an employee to employee leaves the request open
	_, err = svc.UpdateRole(ctx, "root", "emp", user.UpdateRoleRequest{Role: "employee"})
	require.NoError(t, err)
	open, err := requests.HasPending(ctx, "emp")
	require.NoError(t, err)
	assert.True(t, open)

	boom := errors.New("deadlock detected")
	store.FailNext("admin_access_requests.Decide", boom)
	_, err = svc.UpdateRole(ctx, "root", "emp", user.UpdateRoleRequest{Role: "super_admin"})
	assert.ErrorIs(t, err, boom)

	p, err := profiles.GetByID(ctx, "emp")
	require.NoError(t, err)
	assert.Equal(t, user.RoleEmployee, p.Role, "role change rolled back with the request")

	updated, err := svc.UpdateRole(ctx, "root", "emp", user.UpdateRoleRequest{Role: "super_admin"})
	require.NoError(t, err)
	assert.Equal(t, "super_admin", updated.Role)

	closed, err := requests.GetByID(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, adminrequest.StatusApproved, closed.Status)
	require.NotNil(t, closed.ApprovedByProfileID)
	assert.Equal(t, "root", *closed.ApprovedByProfileID)
}
