package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/auth"
	"github.com/workmatrix/workmatrix-backend-go/internal/pkg/database"
)

const identityColumns = `id, email, password_hash, oauth_provider, oauth_provider_id, created_at, updated_at`

type identityRepositoryImpl struct {
	db *database.DB
}

func NewIdentityRepository(db *database.DB) auth.IdentityRepository {
	return &identityRepositoryImpl{db: db}
}

func scanIdentity(row pgx.Row) (auth.Identity, error) {
	var i auth.Identity
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.PasswordHash,
		&i.OAuthProvider,
		&i.OAuthProviderID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Identity{}, auth.ErrIdentityNotFound
		}
		return auth.Identity{}, err
	}
	return i, nil
}

// Create implements auth.IdentityRepository.
func (r *identityRepositoryImpl) Create(ctx context.Context, identity auth.Identity) (auth.Identity, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO identities (id, email, password_hash, oauth_provider, oauth_provider_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + identityColumns

	created, err := scanIdentity(q.QueryRow(ctx, query,
		identity.ID,
		identity.Email,
		identity.PasswordHash,
		identity.OAuthProvider,
		identity.OAuthProviderID,
	))
	if err != nil {
		if _, ok := uniqueConstraint(err); ok {
			return auth.Identity{}, auth.ErrEmailAlreadyExists
		}
		return auth.Identity{}, fmt.Errorf("create identity: %w", err)
	}
	return created, nil
}

// GetByID implements auth.IdentityRepository.
func (r *identityRepositoryImpl) GetByID(ctx context.Context, id string) (auth.Identity, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + identityColumns + ` FROM identities WHERE id = $1`
	return scanIdentity(q.QueryRow(ctx, query, id))
}

// GetByEmail implements auth.IdentityRepository.
func (r *identityRepositoryImpl) GetByEmail(ctx context.Context, email string) (auth.Identity, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + identityColumns + ` FROM identities WHERE email = $1`
	return scanIdentity(q.QueryRow(ctx, query, email))
}

// GetByOAuth implements auth.IdentityRepository.
func (r *identityRepositoryImpl) GetByOAuth(ctx context.Context, provider string, providerID string) (auth.Identity, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + identityColumns + ` FROM identities WHERE oauth_provider = $1 AND oauth_provider_id = $2`
	return scanIdentity(q.QueryRow(ctx, query, provider, providerID))
}

// LinkOAuth implements auth.IdentityRepository.
func (r *identityRepositoryImpl) LinkOAuth(ctx context.Context, id string, provider string, providerID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE identities
		SET oauth_provider = $1, oauth_provider_id = $2, updated_at = NOW()
		WHERE id = $3
	`
	tag, err := q.Exec(ctx, query, provider, providerID, id)
	if err != nil {
		return fmt.Errorf("link oauth identity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrIdentityNotFound
	}
	return nil
}
