package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/workmatrix/workmatrix-backend-go/internal/domain/adminrequest"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/user"
	"github.com/workmatrix/workmatrix-backend-go/internal/pkg/database"
)

type ProfileServiceImpl struct {
	db          database.Transactor
	profileRepo user.ProfileRepository
	requestRepo adminrequest.RequestRepository
	now         func() time.Time
}

func NewProfileService(db database.Transactor, profileRepo user.ProfileRepository, requestRepo adminrequest.RequestRepository) user.ProfileService {
	return &ProfileServiceImpl{
		db:          db,
		profileRepo: profileRepo,
		requestRepo: requestRepo,
		now:         time.Now,
	}
}

// GetByID implements user.ProfileService.
func (s *ProfileServiceImpl) GetByID(ctx context.Context, id string) (user.ProfileResponse, error) {
	p, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return user.ProfileResponse{}, err
	}
	return user.NewProfileResponse(p), nil
}

// requireSuperAdmin loads the acting profile and checks it may administer the directory.
func (s *ProfileServiceImpl) requireSuperAdmin(ctx context.Context, actorID string) error {
	actor, err := s.profileRepo.GetByID(ctx, actorID)
	if errors.Is(err, user.ErrProfileNotFound) {
		return user.ErrSuperAdminRequired
	}
	if err != nil {
		return err
	}
	if !actor.IsSuperAdmin() {
		return user.ErrSuperAdminRequired
	}
	return nil
}

// List implements user.ProfileService.
func (s *ProfileServiceImpl) List(ctx context.Context, actorID string, filter user.ListProfilesFilter) ([]user.ProfileResponse, int64, error) {
	if err := s.requireSuperAdmin(ctx, actorID); err != nil {
		return nil, 0, err
	}

	profiles, total, err := s.profileRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]user.ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		responses = append(responses, user.NewProfileResponse(p))
	}
	return responses, total, nil
}

// UpdateRole implements user.ProfileService.
func (s *ProfileServiceImpl) UpdateRole(ctx context.Context, actorID string, targetID string, req user.UpdateRoleRequest) (user.ProfileResponse, error) {
	role, err := user.ParseRole(req.Role)
	if err != nil {
		return user.ProfileResponse{}, err
	}
	return s.mutate(ctx, actorID, targetID, func(ctx context.Context) error {
		if err := s.profileRepo.UpdateRole(ctx, targetID, role); err != nil {
			return err
		}
		if !role.IsAdminFamily() {
			return nil
		}
		return s.closePendingRequest(ctx, actorID, targetID, role)
	})
}

// closePendingRequest approves the target's open admin access request on behalf of the actor,
// so a stale request cannot later be decided against the new role.
func (s *ProfileServiceImpl) closePendingRequest(ctx context.Context, actorID string, targetID string, role user.Role) error {
	latest, err := s.requestRepo.GetLatestByRequester(ctx, targetID)
	if errors.Is(err, adminrequest.ErrRequestNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load pending admin request: %w", err)
	}
	if latest.Status != adminrequest.StatusPending {
		return nil
	}

	req, err := s.requestRepo.GetByIDForUpdate(ctx, latest.ID)
	if err != nil {
		return err
	}
	if !adminrequest.CanTransition(req.Status, adminrequest.StatusApproved) {
		return nil
	}

	notes := "closed by direct role change to " + string(role)
	_, err = s.requestRepo.Decide(ctx, adminrequest.Decision{
		RequestID: req.ID,
		Status:    adminrequest.StatusApproved,
		DecidedBy: actorID,
		DecidedAt: s.now(),
		Notes:     &notes,
	})
	if err != nil {
		return fmt.Errorf("close pending admin request: %w", err)
	}
	return nil
}

// SetActive implements user.ProfileService.
func (s *ProfileServiceImpl) SetActive(ctx context.Context, actorID string, targetID string, req user.UpdateActiveRequest) (user.ProfileResponse, error) {
	return s.mutate(ctx, actorID, targetID, func(ctx context.Context) error {
		return s.profileRepo.SetActive(ctx, targetID, *req.IsActive)
	})
}

// mutate applies a super admin change to another profile and returns the result.
func (s *ProfileServiceImpl) mutate(ctx context.Context, actorID string, targetID string, apply func(ctx context.Context) error) (user.ProfileResponse, error) {
	if actorID == targetID {
		return user.ProfileResponse{}, user.ErrSelfRoleChange
	}

	var updated user.Profile
	err := s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.requireSuperAdmin(ctx, actorID); err != nil {
			return err
		}
		if err := apply(ctx); err != nil {
			return err
		}

		var err error
		updated, err = s.profileRepo.GetByID(ctx, targetID)
		return err
	})
	if err != nil {
		return user.ProfileResponse{}, err
	}

	return user.NewProfileResponse(updated), nil
}
