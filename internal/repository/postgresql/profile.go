package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/user"
	"github.com/workmatrix/workmatrix-backend-go/internal/pkg/database"
)

const profileColumns = `id, auth_identity_id, email, full_name, role, is_active, created_at, last_login`

type profileRepositoryImpl struct {
	db *database.DB
}

func NewProfileRepository(db *database.DB) user.ProfileRepository {
	return &profileRepositoryImpl{db: db}
}

func scanProfile(row pgx.Row) (user.Profile, error) {
	var p user.Profile
	var role string
	err := row.Scan(
		&p.ID,
		&p.AuthIdentityID,
		&p.Email,
		&p.FullName,
		&role,
		&p.IsActive,
		&p.CreatedAt,
		&p.LastLogin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.Profile{}, user.ErrProfileNotFound
		}
		return user.Profile{}, err
	}
	p.Role, err = user.ParseRole(role)
	if err != nil {
		return user.Profile{}, fmt.Errorf("profile %s has role %q: %w", p.ID, role, err)
	}
	return p, nil
}

// Create implements user.ProfileRepository.
func (r *profileRepositoryImpl) Create(ctx context.Context, newProfile user.Profile) (user.Profile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO profiles (id, auth_identity_id, email, full_name, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + profileColumns

	created, err := scanProfile(q.QueryRow(ctx, query,
		newProfile.ID,
		newProfile.AuthIdentityID,
		newProfile.Email,
		newProfile.FullName,
		string(newProfile.Role),
		newProfile.IsActive,
	))
	if err != nil {
		if constraint, ok := uniqueConstraint(err); ok {
			if constraint == "profiles_auth_identity_id_key" {
				return user.Profile{}, user.ErrProfileIdentityUsed
			}
			return user.Profile{}, user.ErrProfileEmailExists
		}
		return user.Profile{}, fmt.Errorf("create profile: %w", err)
	}
	return created, nil
}

// GetByID implements user.ProfileRepository.
func (r *profileRepositoryImpl) GetByID(ctx context.Context, id string) (user.Profile, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return scanProfile(q.QueryRow(ctx, query, id))
}

// GetByIdentityID implements user.ProfileRepository.
func (r *profileRepositoryImpl) GetByIdentityID(ctx context.Context, identityID string) (user.Profile, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE auth_identity_id = $1`
	return scanProfile(q.QueryRow(ctx, query, identityID))
}

// GetByEmail implements user.ProfileRepository.
func (r *profileRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.Profile, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1`
	return scanProfile(q.QueryRow(ctx, query, email))
}

// ExistsByEmail implements user.ProfileRepository.
func (r *profileRepositoryImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM profiles WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// List implements user.ProfileRepository.
func (r *profileRepositoryImpl) List(ctx context.Context, filter user.ListProfilesFilter) ([]user.Profile, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := ``
	args := []interface{}{}
	if filter.Role != nil {
		args = append(args, *filter.Role)
		where = ` WHERE role = $1`
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM profiles`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count profiles: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM profiles%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		profileColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]user.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, 0, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

// ListIDsByRole implements user.ProfileRepository.
func (r *profileRepositoryImpl) ListIDsByRole(ctx context.Context, role user.Role) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id FROM profiles WHERE role = $1 AND is_active ORDER BY created_at`, string(role))
	if err != nil {
		return nil, err
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// UpdateRole implements user.ProfileRepository.
func (r *profileRepositoryImpl) UpdateRole(ctx context.Context, id string, role user.Role) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE profiles SET role = $1 WHERE id = $2`, string(role), id)
	if err != nil {
		return fmt.Errorf("update profile role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrProfileNotFound
	}
	return nil
}

// SetActive implements user.ProfileRepository.
func (r *profileRepositoryImpl) SetActive(ctx context.Context, id string, active bool) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE profiles SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("update profile status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrProfileNotFound
	}
	return nil
}

// TouchLastLogin implements user.ProfileRepository.
func (r *profileRepositoryImpl) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE profiles SET last_login = $1 WHERE id = $2`, at.UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrProfileNotFound
	}
	return nil
}
