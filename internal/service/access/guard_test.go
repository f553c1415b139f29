package access

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/access"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/adminrequest"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/user"
	"github.com/workmatrix/workmatrix-backend-go/internal/repository/memory"
	adminRequestService "github.com/workmatrix/workmatrix-backend-go/internal/service/adminrequest"
)

type guardFixture struct {
	store    *memory.Store
	profiles user.ProfileRepository
	requests adminrequest.RequestService
	guard    access.Guard
}

func newGuardFixture(t *testing.T, policy access.Policy) *guardFixture {
	t.Helper()
	store := memory.NewStore()
	profiles := memory.NewProfileRepository(store)
	requests := adminRequestService.NewRequestService(store, memory.NewAdminRequestRepository(store), profiles)
	return &guardFixture{
		store:    store,
		profiles: profiles,
		requests: requests,
		guard:    NewGuard(NewResolver(profiles), requests, policy),
	}
}

func (f *guardFixture) addProfile(t *testing.T, id string, role user.Role) *string {
	t.Helper()
	_, err := f.profiles.Create(t.Context(), user.Profile{
		ID:             id,
		AuthIdentityID: "identity-" + id,
		Email:          id + "@x.com",
		FullName:       id,
		Role:           role,
		IsActive:       true,
		CreatedAt:      time.Now(),
	})
	require.NoError(t, err)
	identity := "identity-" + id
	return &identity
}

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()
	f := newGuardFixture(t, access.DefaultPolicy())
	resolver := NewResolver(f.profiles)
	identity := f.addProfile(t, "a", user.RoleAdmin)

	res, err := resolver.Resolve(ctx, nil)
	require.NoError(t, err)
	assert.False(t, res.Authenticated)

	empty := ""
	res, err = resolver.Resolve(ctx, &empty)
	require.NoError(t, err)
	assert.False(t, res.Authenticated)

	res, err = resolver.Resolve(ctx, identity)
	require.NoError(t, err)
	assert.True(t, res.Authenticated)
	require.True(t, res.HasProfile())
	assert.Equal(t, user.RoleAdmin, *res.Role)
	assert.Equal(t, "a", res.ProfileID)

	// an identity whose profile is not created yet is authenticated with no role
	orphan := "identity-orphan"
	res, err = resolver.Resolve(ctx, &orphan)
	require.NoError(t, err)
	assert.True(t, res.Authenticated)
	assert.False(t, res.HasProfile())
}

func TestResolver_LookupFailure_IsRoleUnknown(t *testing.T) {
	f := newGuardFixture(t, access.DefaultPolicy())
	identity := f.addProfile(t, "a", user.RoleEmployee)

	f.store.FailNext("profiles.GetByIdentityID", errors.New("network unreachable"))
	_, err := NewResolver(f.profiles).Resolve(context.Background(), identity)
	assert.ErrorIs(t, err, access.ErrRoleUnknown)
}

func TestGuard_Check(t *testing.T) {
	ctx := context.Background()
	f := newGuardFixture(t, access.DefaultPolicy())
	employee := f.addProfile(t, "emp", user.RoleEmployee)
	pending := f.addProfile(t, "pend", user.RoleEmployee)
	admin := f.addProfile(t, "adm", user.RoleAdmin)
	root := f.addProfile(t, "root", user.RoleSuperAdmin)

	_, err := f.requests.Submit(ctx, "pend", nil)
	require.NoError(t, err)

	tests := []struct {
		name     string
		identity *string
		area     access.Area
		allowed  bool
		dest     access.Destination
	}{
		{"anonymous employee area", nil, access.AreaEmployee, false, access.DestinationLoginEmployee},
		{"anonymous admin area", nil, access.AreaAdmin, false, access.DestinationLoginAdmin},
		{"employee in employee area", employee, access.AreaEmployee, true, access.DestinationNone},
		{"employee in admin area", employee, access.AreaAdmin, false, access.DestinationEmployeeHome},
		{"pending in employee area", pending, access.AreaEmployee, true, access.DestinationNone},
		{"pending in admin area", pending, access.AreaAdmin, false, access.DestinationPendingApproval},
		{"admin in admin area", admin, access.AreaAdmin, true, access.DestinationNone},
		{"admin in employee area", admin, access.AreaEmployee, false, access.DestinationAdminHome},
		{"admin in super admin area", admin, access.AreaSuperAdmin, false, access.DestinationAdminHome},
		{"super admin in admin area", root, access.AreaAdmin, true, access.DestinationNone},
		{"super admin in super admin area", root, access.AreaSuperAdmin, true, access.DestinationNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := f.guard.Check(ctx, tt.identity, tt.area)
			require.NoError(t, err)
			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.dest, d.Destination)
		})
	}
}

func TestGuard_Check_PolicyDeniesSuperAdminInAdminArea(t *testing.T) {
	f := newGuardFixture(t, access.Policy{SuperAdminInAdminArea: false})
	root := f.addProfile(t, "root", user.RoleSuperAdmin)

	d, err := f.guard.Check(context.Background(), root, access.AreaAdmin)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, access.DestinationSuperAdminHome, d.Destination)
}

func TestGuard_Check_DeactivatedProfileGoesToLogin(t *testing.T) {
	ctx := context.Background()
	f := newGuardFixture(t, access.DefaultPolicy())
	admin := f.addProfile(t, "adm", user.RoleAdmin)
	require.NoError(t, f.profiles.SetActive(ctx, "adm", false))

	d, err := f.guard.Check(ctx, admin, access.AreaAdmin)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, access.DestinationLoginAdmin, d.Destination)
}

func TestGuard_Check_LookupFailures(t *testing.T) {
	ctx := context.Background()
	f := newGuardFixture(t, access.DefaultPolicy())
	employee := f.addProfile(t, "emp", user.RoleEmployee)

	f.store.FailNext("profiles.GetByIdentityID", errors.New("timeout"))
	_, err := f.guard.Check(ctx, employee, access.AreaAdmin)
	assert.ErrorIs(t, err, access.ErrRoleUnknown)

	f.store.FailNext("admin_access_requests.GetLatestByRequester", errors.New("timeout"))
	_, err = f.guard.Check(ctx, employee, access.AreaAdmin)
	assert.ErrorIs(t, err, access.ErrRoleUnknown)

	// recovers once the store answers again
	d, err := f.guard.Check(ctx, employee, access.AreaAdmin)
	require.NoError(t, err)
	assert.Equal(t, access.DestinationEmployeeHome, d.Destination)
}
