package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/user"
)

func TestDecide_DefaultPolicy(t *testing.T) {
	tests := []struct {
		level   Level
		area    Area
		allowed bool
		dest    Destination
	}{
		{LevelAnonymous, AreaEmployee, false, DestinationLoginEmployee},
		{LevelAnonymous, AreaAdmin, false, DestinationLoginAdmin},
		{LevelAnonymous, AreaSuperAdmin, false, DestinationLoginAdmin},

		{LevelEmployee, AreaEmployee, true, DestinationNone},
		{LevelEmployee, AreaAdmin, false, DestinationEmployeeHome},
		{LevelEmployee, AreaSuperAdmin, false, DestinationEmployeeHome},

		{LevelPendingAdmin, AreaEmployee, true, DestinationNone},
		{LevelPendingAdmin, AreaAdmin, false, DestinationPendingApproval},
		{LevelPendingAdmin, AreaSuperAdmin, false, DestinationPendingApproval},

		{LevelAdmin, AreaEmployee, false, DestinationAdminHome},
		{LevelAdmin, AreaAdmin, true, DestinationNone},
		{LevelAdmin, AreaSuperAdmin, false, DestinationAdminHome},

		{LevelSuperAdmin, AreaEmployee, false, DestinationAdminHome},
		{LevelSuperAdmin, AreaAdmin, true, DestinationNone},
		{LevelSuperAdmin, AreaSuperAdmin, true, DestinationNone},
	}

	for _, tt := range tests {
		t.Run(tt.level.String()+"/"+string(tt.area), func(t *testing.T) {
			d := Decide(tt.level, tt.area, DefaultPolicy())
			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.dest, d.Destination)
			assert.Equal(t, tt.area, d.Area)
		})
	}
}

func TestDecide_SuperAdminPolicyToggles(t *testing.T) {
	strict := Policy{SuperAdminInAdminArea: false, SuperAdminInEmployeeArea: false}
	d := Decide(LevelSuperAdmin, AreaAdmin, strict)
	assert.False(t, d.Allowed)
	assert.Equal(t, DestinationSuperAdminHome, d.Destination)

	open := Policy{SuperAdminInAdminArea: true, SuperAdminInEmployeeArea: true}
	d = Decide(LevelSuperAdmin, AreaEmployee, open)
	assert.True(t, d.Allowed)

	// toggles never widen other levels
	d = Decide(LevelAdmin, AreaEmployee, open)
	assert.False(t, d.Allowed)
	assert.Equal(t, DestinationAdminHome, d.Destination)
}

func TestLevelFor(t *testing.T) {
	role := func(r user.Role) *user.Role { return &r }

	assert.Equal(t, LevelAnonymous, LevelFor(Resolution{}, false))
	assert.Equal(t, LevelEmployee, LevelFor(Resolution{Authenticated: true}, false), "no profile yet")
	assert.Equal(t, LevelEmployee, LevelFor(Resolution{Authenticated: true}, true), "no profile ignores pending")

	employee := Resolution{Authenticated: true, Role: role(user.RoleEmployee), IsActive: true}
	assert.Equal(t, LevelEmployee, LevelFor(employee, false))
	assert.Equal(t, LevelPendingAdmin, LevelFor(employee, true))

	admin := Resolution{Authenticated: true, Role: role(user.RoleAdmin), IsActive: true}
	assert.Equal(t, LevelAdmin, LevelFor(admin, true))

	superAdmin := Resolution{Authenticated: true, Role: role(user.RoleSuperAdmin), IsActive: true}
	assert.Equal(t, LevelSuperAdmin, LevelFor(superAdmin, false))

	superAdmin.IsActive = false
	assert.Equal(t, LevelAnonymous, LevelFor(superAdmin, false))
}

func TestRoutes_Path(t *testing.T) {
	routes := DefaultRoutes()
	assert.Equal(t, "/admin/pending-approval", routes.Path(DestinationPendingApproval))
	assert.Equal(t, "/login/employee", routes.Path(DestinationLoginEmployee))
	assert.Equal(t, "", routes.Path(DestinationNone))

	resp := NewCheckResponse(Decide(LevelPendingAdmin, AreaAdmin, DefaultPolicy()), routes)
	assert.False(t, resp.Allowed)
	if assert.NotNil(t, resp.RedirectTo) {
		assert.Equal(t, "/admin/pending-approval", *resp.RedirectTo)
	}
	assert.Equal(t, "pending_admin", resp.Level)
}

func TestParseArea(t *testing.T) {
	a, err := ParseArea("super_admin")
	assert.NoError(t, err)
	assert.Equal(t, AreaSuperAdmin, a)

	_, err = ParseArea("billing")
	assert.ErrorIs(t, err, ErrInvalidArea)
}
