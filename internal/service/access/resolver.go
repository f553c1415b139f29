package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/workmatrix/workmatrix-backend-go/internal/domain/access"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/user"
)

type ResolverImpl struct {
	profileRepo user.ProfileRepository
}

func NewResolver(profileRepo user.ProfileRepository) access.Resolver {
	return &ResolverImpl{profileRepo: profileRepo}
}

// Resolve implements access.Resolver.
func (r *ResolverImpl) Resolve(ctx context.Context, identityID *string) (access.Resolution, error) {
	if identityID == nil || *identityID == "" {
		return access.Resolution{Authenticated: false}, nil
	}

	profile, err := r.profileRepo.GetByIdentityID(ctx, *identityID)
	if errors.Is(err, user.ErrProfileNotFound) {
		return access.Resolution{Authenticated: true, IdentityID: *identityID}, nil
	}
	if err != nil {
		return access.Resolution{}, fmt.Errorf("%w: %w", access.ErrRoleUnknown, err)
	}

	role := profile.Role
	return access.Resolution{
		Authenticated: true,
		IdentityID:    *identityID,
		ProfileID:     profile.ID,
		Role:          &role,
		IsActive:      profile.IsActive,
	}, nil
}
