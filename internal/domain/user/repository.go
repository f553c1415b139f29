package user

import (
	"context"
	"time"
)

type ProfileRepository interface {
	Create(ctx context.Context, newProfile Profile) (Profile, error)
	GetByID(ctx context.Context, id string) (Profile, error)
	GetByIdentityID(ctx context.Context, identityID string) (Profile, error)
	GetByEmail(ctx context.Context, email string) (Profile, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter ListProfilesFilter) ([]Profile, int64, error)
	ListIDsByRole(ctx context.Context, role Role) ([]string, error)
	UpdateRole(ctx context.Context, id string, role Role) error
	SetActive(ctx context.Context, id string, active bool) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}
