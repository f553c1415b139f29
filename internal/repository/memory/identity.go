package memory

import (
	"context"
	"strings"

	"github.com/workmatrix/workmatrix-backend-go/internal/domain/auth"
)

type identityRepository struct {
	s *Store
}

func NewIdentityRepository(s *Store) auth.IdentityRepository {
	return &identityRepository{s: s}
}

func (r *identityRepository) Create(ctx context.Context, identity auth.Identity) (auth.Identity, error) {
	if err := r.s.injected("identities.Create"); err != nil {
		return auth.Identity{}, err
	}
	defer r.s.lock(ctx)()

	for _, existing := range r.s.data.identities {
		if strings.EqualFold(existing.Email, identity.Email) {
			return auth.Identity{}, auth.ErrEmailAlreadyExists
		}
		if identity.OAuthProvider != nil && existing.OAuthProvider != nil && identity.OAuthProviderID != nil &&
			existing.OAuthProviderID != nil && *existing.OAuthProvider == *identity.OAuthProvider &&
			*existing.OAuthProviderID == *identity.OAuthProviderID {
			return auth.Identity{}, auth.ErrEmailAlreadyExists
		}
	}

	now := r.s.now()
	identity.CreatedAt = now
	identity.UpdatedAt = now
	r.s.data.identities[identity.ID] = identity
	return identity, nil
}

func (r *identityRepository) GetByID(ctx context.Context, id string) (auth.Identity, error) {
	if err := r.s.injected("identities.GetByID"); err != nil {
		return auth.Identity{}, err
	}
	defer r.s.lock(ctx)()

	identity, ok := r.s.data.identities[id]
	if !ok {
		return auth.Identity{}, auth.ErrIdentityNotFound
	}
	return identity, nil
}

func (r *identityRepository) GetByEmail(ctx context.Context, email string) (auth.Identity, error) {
	if err := r.s.injected("identities.GetByEmail"); err != nil {
		return auth.Identity{}, err
	}
	defer r.s.lock(ctx)()

	for _, identity := range r.s.data.identities {
		if strings.EqualFold(identity.Email, email) {
			return identity, nil
		}
	}
	return auth.Identity{}, auth.ErrIdentityNotFound
}

func (r *identityRepository) GetByOAuth(ctx context.Context, provider string, providerID string) (auth.Identity, error) {
	if err := r.s.injected("identities.GetByOAuth"); err != nil {
		return auth.Identity{}, err
	}
	defer r.s.lock(ctx)()

	for _, identity := range r.s.data.identities {
		if identity.OAuthProvider != nil && identity.OAuthProviderID != nil &&
			*identity.OAuthProvider == provider && *identity.OAuthProviderID == providerID {
			return identity, nil
		}
	}
	return auth.Identity{}, auth.ErrIdentityNotFound
}

func (r *identityRepository) LinkOAuth(ctx context.Context, id string, provider string, providerID string) error {
	if err := r.s.injected("identities.LinkOAuth"); err != nil {
		return err
	}
	defer r.s.lock(ctx)()

	identity, ok := r.s.data.identities[id]
	if !ok {
		return auth.ErrIdentityNotFound
	}
	identity.OAuthProvider = &provider
	identity.OAuthProviderID = &providerID
	identity.UpdatedAt = r.s.now()
	r.s.data.identities[id] = identity
	return nil
}
