package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/workmatrix/workmatrix-backend-go/internal/domain/user"
)

type profileRepository struct {
	s *Store
}

func NewProfileRepository(s *Store) user.ProfileRepository {
	return &profileRepository{s: s}
}

func (r *profileRepository) Create(ctx context.Context, newProfile user.Profile) (user.Profile, error) {
	if err := r.s.injected("profiles.Create"); err != nil {
		return user.Profile{}, err
	}
	defer r.s.lock(ctx)()

	for _, existing := range r.s.data.profiles {
		if existing.AuthIdentityID == newProfile.AuthIdentityID {
			return user.Profile{}, user.ErrProfileIdentityUsed
		}
		if strings.EqualFold(existing.Email, newProfile.Email) {
			return user.Profile{}, user.ErrProfileEmailExists
		}
	}
	if !newProfile.Role.IsValid() {
		return user.Profile{}, user.ErrInvalidRole
	}

	if newProfile.CreatedAt.IsZero() {
		newProfile.CreatedAt = r.s.now()
	}
	r.s.data.profiles[newProfile.ID] = newProfile
	return newProfile, nil
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (user.Profile, error) {
	if err := r.s.injected("profiles.GetByID"); err != nil {
		return user.Profile{}, err
	}
	defer r.s.lock(ctx)()

	p, ok := r.s.data.profiles[id]
	if !ok {
		return user.Profile{}, user.ErrProfileNotFound
	}
	return p, nil
}

func (r *profileRepository) GetByIdentityID(ctx context.Context, identityID string) (user.Profile, error) {
	if err := r.s.injected("profiles.GetByIdentityID"); err != nil {
		return user.Profile{}, err
	}
	defer r.s.lock(ctx)()

	for _, p := range r.s.data.profiles {
		if p.AuthIdentityID == identityID {
			return p, nil
		}
	}
	return user.Profile{}, user.ErrProfileNotFound
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (user.Profile, error) {
	if err := r.s.injected("profiles.GetByEmail"); err != nil {
		return user.Profile{}, err
	}
	defer r.s.lock(ctx)()

	for _, p := range r.s.data.profiles {
		if strings.EqualFold(p.Email, email) {
			return p, nil
		}
	}
	return user.Profile{}, user.ErrProfileNotFound
}

func (r *profileRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if err := r.s.injected("profiles.ExistsByEmail"); err != nil {
		return false, err
	}
	defer r.s.lock(ctx)()

	for _, p := range r.s.data.profiles {
		if strings.EqualFold(p.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

// sortNewestFirst orders by creation time, newest first, with id as tie-breaker.
func sortNewestFirst(profiles []user.Profile) {
	slices.SortFunc(profiles, func(a, b user.Profile) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
}

func (r *profileRepository) List(ctx context.Context, filter user.ListProfilesFilter) ([]user.Profile, int64, error) {
	if err := r.s.injected("profiles.List"); err != nil {
		return nil, 0, err
	}
	defer r.s.lock(ctx)()

	matched := make([]user.Profile, 0, len(r.s.data.profiles))
	for _, p := range r.s.data.profiles {
		if filter.Role != nil && string(p.Role) != *filter.Role {
			continue
		}
		matched = append(matched, p)
	}
	sortNewestFirst(matched)

	return paginate(matched, filter.Offset(), filter.Limit), int64(len(matched)), nil
}

func (r *profileRepository) ListIDsByRole(ctx context.Context, role user.Role) ([]string, error) {
	if err := r.s.injected("profiles.ListIDsByRole"); err != nil {
		return nil, err
	}
	defer r.s.lock(ctx)()

	var matched []user.Profile
	for _, p := range r.s.data.profiles {
		if p.Role == role && p.IsActive {
			matched = append(matched, p)
		}
	}
	slices.SortFunc(matched, func(a, b user.Profile) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	ids := make([]string, 0, len(matched))
	for _, p := range matched {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func (r *profileRepository) update(ctx context.Context, op string, id string, fn func(p *user.Profile)) error {
	if err := r.s.injected(op); err != nil {
		return err
	}
	defer r.s.lock(ctx)()

	p, ok := r.s.data.profiles[id]
	if !ok {
		return user.ErrProfileNotFound
	}
	fn(&p)
	r.s.data.profiles[id] = p
	return nil
}

func (r *profileRepository) UpdateRole(ctx context.Context, id string, role user.Role) error {
	if !role.IsValid() {
		return user.ErrInvalidRole
	}
	return r.update(ctx, "profiles.UpdateRole", id, func(p *user.Profile) {
		p.Role = role
	})
}

func (r *profileRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.update(ctx, "profiles.SetActive", id, func(p *user.Profile) {
		p.IsActive = active
	})
}

func (r *profileRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.update(ctx, "profiles.TouchLastLogin", id, func(p *user.Profile) {
		p.LastLogin = &at
	})
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
