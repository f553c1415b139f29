package auth

import (
	"context"
	"time"
)

type IdentityRepository interface {
	Create(ctx context.Context, identity Identity) (Identity, error)
	GetByID(ctx context.Context, id string) (Identity, error)
	GetByEmail(ctx context.Context, email string) (Identity, error)
	GetByOAuth(ctx context.Context, provider string, providerID string) (Identity, error)
	LinkOAuth(ctx context.Context, id string, provider string, providerID string) error
}

type TokenRepository interface {
	CreateRefreshToken(ctx context.Context, identityID string, token string, expiresAt time.Time, tracking SessionTrackingRequest) error
	// IsRefreshTokenRevoked reports the owning identity and whether the token is unusable.
	IsRefreshTokenRevoked(ctx context.Context, token string) (identityID string, revoked bool, err error)
	RevokeRefreshToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
