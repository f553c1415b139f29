package user

import (
	"context"
)

type ProfileService interface {
	GetByID(ctx context.Context, id string) (ProfileResponse, error)
	List(ctx context.Context, actorID string, filter ListProfilesFilter) ([]ProfileResponse, int64, error)
	UpdateRole(ctx context.Context, actorID string, targetID string, req UpdateRoleRequest) (ProfileResponse, error)
	SetActive(ctx context.Context, actorID string, targetID string, req UpdateActiveRequest) (ProfileResponse, error)
}
