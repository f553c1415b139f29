package access

import (
	"context"
	"fmt"

	"github.com/workmatrix/workmatrix-backend-go/internal/domain/access"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/adminrequest"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/user"
)

// RequestQuerier is the part of the admin request workflow the guard needs.
type RequestQuerier interface {
	Query(ctx context.Context, requesterProfileID string) (adminrequest.StatusView, error)
}

type GuardImpl struct {
	resolver access.Resolver
	requests RequestQuerier
	policy   access.Policy
}

func NewGuard(resolver access.Resolver, requests RequestQuerier, policy access.Policy) access.Guard {
	return &GuardImpl{
		resolver: resolver,
		requests: requests,
		policy:   policy,
	}
}

// Check implements access.Guard. Lookup failures are returned wrapping
// access.ErrRoleUnknown and never turned into a redirect.
func (g *GuardImpl) Check(ctx context.Context, identityID *string, area access.Area) (access.Decision, error) {
	res, err := g.resolver.Resolve(ctx, identityID)
	if err != nil {
		return access.Decision{}, err
	}

	pending := false
	if res.Role != nil && *res.Role == user.RoleEmployee && res.IsActive {
		view, err := g.requests.Query(ctx, res.ProfileID)
		if err != nil {
			return access.Decision{}, fmt.Errorf("%w: %w", access.ErrRoleUnknown, err)
		}
		pending = view.IsPending()
	}

	return access.Decide(access.LevelFor(res, pending), area, g.policy), nil
}
