package adminrequest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/adminrequest"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/user"
	"github.com/workmatrix/workmatrix-backend-go/internal/pkg/database"
	"github.com/workmatrix/workmatrix-backend-go/internal/pkg/sse"
)

type RequestServiceImpl struct {
	db          database.Transactor
	requestRepo adminrequest.RequestRepository
	profileRepo user.ProfileRepository
	notifier    sse.Publisher
	now         func() time.Time
}

type Option func(*RequestServiceImpl)

// WithClock sets the clock used for requestedAt and approvedAt.
func WithClock(now func() time.Time) Option {
	return func(s *RequestServiceImpl) {
		s.now = now
	}
}

// WithNotifier publishes workflow events to connected clients.
func WithNotifier(p sse.Publisher) Option {
	return func(s *RequestServiceImpl) {
		s.notifier = p
	}
}

func NewRequestService(
	db database.Transactor,
	requestRepo adminrequest.RequestRepository,
	profileRepo user.ProfileRepository,
	opts ...Option,
) adminrequest.RequestService {
	s := &RequestServiceImpl{
		db:          db,
		requestRepo: requestRepo,
		profileRepo: profileRepo,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit implements adminrequest.RequestService.
func (s *RequestServiceImpl) Submit(ctx context.Context, requesterProfileID string, notes *string) (adminrequest.Request, error) {
	requester, err := s.profileRepo.GetByID(ctx, requesterProfileID)
	if err != nil {
		return adminrequest.Request{}, err
	}
	if requester.Role.IsAdminFamily() {
		return adminrequest.Request{}, adminrequest.ErrAlreadyElevated
	}

	pending, err := s.requestRepo.HasPending(ctx, requesterProfileID)
	if err != nil {
		return adminrequest.Request{}, fmt.Errorf("check pending admin request: %w", err)
	}
	if pending {
		return adminrequest.Request{}, adminrequest.ErrDuplicateRequest
	}

	id, err := uuid.NewV7()
	if err != nil {
		return adminrequest.Request{}, fmt.Errorf("generate request id: %w", err)
	}

	created, err := s.requestRepo.Create(ctx, adminrequest.Request{
		ID:                 id.String(),
		RequesterProfileID: requesterProfileID,
		Status:             adminrequest.StatusPending,
		RequestedAt:        s.now(),
		Notes:              notes,
	})
	if err != nil {
		return adminrequest.Request{}, err
	}

	s.notifySuperAdmins(ctx, created, requester)
	return created, nil
}

// Approve implements adminrequest.RequestService.
func (s *RequestServiceImpl) Approve(ctx context.Context, requestID string, approverProfileID string) (adminrequest.Request, error) {
	decided, err := s.decide(ctx, requestID, approverProfileID, adminrequest.StatusApproved, nil)
	if err != nil {
		return adminrequest.Request{}, err
	}
	s.notifyRequester(decided, sse.EventAdminRequestApproved)
	return decided, nil
}

// Reject implements adminrequest.RequestService.
func (s *RequestServiceImpl) Reject(ctx context.Context, requestID string, approverProfileID string, notes *string) (adminrequest.Request, error) {
	decided, err := s.decide(ctx, requestID, approverProfileID, adminrequest.StatusRejected, notes)
	if err != nil {
		return adminrequest.Request{}, err
	}
	s.notifyRequester(decided, sse.EventAdminRequestRejected)
	return decided, nil
}

// decide runs the status change and, on approval, the role change in one transaction.
func (s *RequestServiceImpl) decide(ctx context.Context, requestID string, approverProfileID string, to adminrequest.Status, notes *string) (adminrequest.Request, error) {
	var decided adminrequest.Request

	err := s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		approver, err := s.profileRepo.GetByID(ctx, approverProfileID)
		if errors.Is(err, user.ErrProfileNotFound) {
			return adminrequest.ErrForbidden
		}
		if err != nil {
			return fmt.Errorf("load approver: %w", err)
		}
		if !approver.IsSuperAdmin() {
			return adminrequest.ErrForbidden
		}

		req, err := s.requestRepo.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if !adminrequest.CanTransition(req.Status, to) {
			return adminrequest.ErrInvalidState
		}

		requester, err := s.profileRepo.GetByID(ctx, req.RequesterProfileID)
		if err != nil {
			return fmt.Errorf("load requester: %w", err)
		}

		decided, err = s.requestRepo.Decide(ctx, adminrequest.Decision{
			RequestID: req.ID,
			Status:    to,
			DecidedBy: approver.ID,
			DecidedAt: s.now(),
			Notes:     notes,
		})
		if err != nil {
			return err
		}

		// An admin-family requester was already elevated directly; the request closes without a role write.
		if to == adminrequest.StatusApproved && requester.Role == user.RoleEmployee {
			if err := s.profileRepo.UpdateRole(ctx, req.RequesterProfileID, user.RoleAdmin); err != nil {
				return fmt.Errorf("promote requester: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return adminrequest.Request{}, err
	}

	return decided, nil
}

// Query implements adminrequest.RequestService.
func (s *RequestServiceImpl) Query(ctx context.Context, requesterProfileID string) (adminrequest.StatusView, error) {
	latest, err := s.requestRepo.GetLatestByRequester(ctx, requesterProfileID)
	if errors.Is(err, adminrequest.ErrRequestNotFound) {
		return adminrequest.StatusView{Status: adminrequest.StatusNone}, nil
	}
	if err != nil {
		return adminrequest.StatusView{}, err
	}

	id := latest.ID
	return adminrequest.StatusView{Status: latest.Status, RequestID: &id}, nil
}

// List implements adminrequest.RequestService.
func (s *RequestServiceImpl) List(ctx context.Context, filter adminrequest.ListFilter) ([]adminrequest.RequestResponse, int64, error) {
	items, total, err := s.requestRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]adminrequest.RequestResponse, 0, len(items))
	for _, item := range items {
		resp := adminrequest.NewRequestResponse(item.Request)
		resp.RequesterEmail = item.RequesterEmail
		resp.RequesterFullName = item.RequesterFullName
		responses = append(responses, resp)
	}
	return responses, total, nil
}

func (s *RequestServiceImpl) notifySuperAdmins(ctx context.Context, req adminrequest.Request, requester user.Profile) {
	if s.notifier == nil {
		return
	}

	ids, err := s.profileRepo.ListIDsByRole(ctx, user.RoleSuperAdmin)
	if err != nil {
		slog.Warn("failed to list super admins for notification", "request_id", req.ID, "error", err)
		return
	}

	resp := adminrequest.NewRequestResponse(req)
	resp.RequesterEmail = requester.Email
	resp.RequesterFullName = requester.FullName
	s.notifier.PublishToMany(ids, sse.Event{
		Type:   sse.EventAdminRequestSubmitted,
		Data:   resp,
		SentAt: s.now(),
	})
}

func (s *RequestServiceImpl) notifyRequester(req adminrequest.Request, eventType string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(req.RequesterProfileID, sse.Event{
		Type:   eventType,
		Data:   adminrequest.NewRequestResponse(req),
		SentAt: s.now(),
	})
}
