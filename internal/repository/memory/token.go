package memory

import (
	"context"
	"time"

	"github.com/workmatrix/workmatrix-backend-go/internal/domain/auth"
)

type tokenRepository struct {
	s *Store
}

func NewTokenRepository(s *Store) auth.TokenRepository {
	return &tokenRepository{s: s}
}

func (r *tokenRepository) CreateRefreshToken(ctx context.Context, identityID string, token string, expiresAt time.Time, tracking auth.SessionTrackingRequest) error {
	if err := r.s.injected("refresh_tokens.CreateRefreshToken"); err != nil {
		return err
	}
	defer r.s.lock(ctx)()

	r.s.data.tokens[token] = refreshToken{
		identityID: identityID,
		expiresAt:  expiresAt,
		tracking:   tracking,
	}
	return nil
}

func (r *tokenRepository) IsRefreshTokenRevoked(ctx context.Context, token string) (string, bool, error) {
	if err := r.s.injected("refresh_tokens.IsRefreshTokenRevoked"); err != nil {
		return "", false, err
	}
	defer r.s.lock(ctx)()

	row, ok := r.s.data.tokens[token]
	if !ok {
		return "", true, nil
	}
	if row.revokedAt != nil || !row.expiresAt.After(r.s.now()) {
		return row.identityID, true, nil
	}
	return row.identityID, false, nil
}

func (r *tokenRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	if err := r.s.injected("refresh_tokens.RevokeRefreshToken"); err != nil {
		return err
	}
	defer r.s.lock(ctx)()

	row, ok := r.s.data.tokens[token]
	if !ok || row.revokedAt != nil {
		return nil
	}
	now := r.s.now()
	row.revokedAt = &now
	r.s.data.tokens[token] = row
	return nil
}

func (r *tokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	if err := r.s.injected("refresh_tokens.DeleteExpired"); err != nil {
		return 0, err
	}
	defer r.s.lock(ctx)()

	var deleted int64
	for token, row := range r.s.data.tokens {
		if row.expiresAt.Before(before) {
			delete(r.s.data.tokens, token)
			deleted++
		}
	}
	return deleted, nil
}
