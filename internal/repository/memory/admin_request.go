package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/workmatrix/workmatrix-backend-go/internal/domain/adminrequest"
)

type adminRequestRepository struct {
	s *Store
}

func NewAdminRequestRepository(s *Store) adminrequest.RequestRepository {
	return &adminRequestRepository{s: s}
}

func (r *adminRequestRepository) Create(ctx context.Context, req adminrequest.Request) (adminrequest.Request, error) {
	if err := r.s.injected("admin_access_requests.Create"); err != nil {
		return adminrequest.Request{}, err
	}
	defer r.s.lock(ctx)()

	if !req.Status.IsValid() {
		return adminrequest.Request{}, adminrequest.ErrInvalidStatus
	}
	// Same rule as the partial unique index on pending requests.
	if req.Status == adminrequest.StatusPending {
		for _, existing := range r.s.data.requests {
			if existing.RequesterProfileID == req.RequesterProfileID && existing.Status == adminrequest.StatusPending {
				return adminrequest.Request{}, adminrequest.ErrDuplicateRequest
			}
		}
	}

	r.s.data.requests[req.ID] = req
	return req, nil
}

func (r *adminRequestRepository) GetByID(ctx context.Context, id string) (adminrequest.Request, error) {
	if err := r.s.injected("admin_access_requests.GetByID"); err != nil {
		return adminrequest.Request{}, err
	}
	defer r.s.lock(ctx)()

	req, ok := r.s.data.requests[id]
	if !ok {
		return adminrequest.Request{}, adminrequest.ErrRequestNotFound
	}
	return req, nil
}

// GetByIDForUpdate is GetByID: a transaction already holds the store lock.
func (r *adminRequestRepository) GetByIDForUpdate(ctx context.Context, id string) (adminrequest.Request, error) {
	if err := r.s.injected("admin_access_requests.GetByIDForUpdate"); err != nil {
		return adminrequest.Request{}, err
	}
	return r.GetByID(ctx, id)
}

func newestFirst(a, b adminrequest.Request) int {
	if c := b.RequestedAt.Compare(a.RequestedAt); c != 0 {
		return c
	}
	return strings.Compare(b.ID, a.ID)
}

func (r *adminRequestRepository) GetLatestByRequester(ctx context.Context, requesterProfileID string) (adminrequest.Request, error) {
	if err := r.s.injected("admin_access_requests.GetLatestByRequester"); err != nil {
		return adminrequest.Request{}, err
	}
	defer r.s.lock(ctx)()

	var latest *adminrequest.Request
	for _, req := range r.s.data.requests {
		if req.RequesterProfileID != requesterProfileID {
			continue
		}
		if latest == nil || newestFirst(req, *latest) < 0 {
			latest = &req
		}
	}
	if latest == nil {
		return adminrequest.Request{}, adminrequest.ErrRequestNotFound
	}
	return *latest, nil
}

func (r *adminRequestRepository) HasPending(ctx context.Context, requesterProfileID string) (bool, error) {
	if err := r.s.injected("admin_access_requests.HasPending"); err != nil {
		return false, err
	}
	defer r.s.lock(ctx)()

	for _, req := range r.s.data.requests {
		if req.RequesterProfileID == requesterProfileID && req.Status == adminrequest.StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *adminRequestRepository) Decide(ctx context.Context, d adminrequest.Decision) (adminrequest.Request, error) {
	if err := r.s.injected("admin_access_requests.Decide"); err != nil {
		return adminrequest.Request{}, err
	}
	defer r.s.lock(ctx)()

	req, ok := r.s.data.requests[d.RequestID]
	if !ok || req.Status != adminrequest.StatusPending {
		return adminrequest.Request{}, adminrequest.ErrInvalidState
	}

	decidedBy := d.DecidedBy
	decidedAt := d.DecidedAt
	req.Status = d.Status
	req.ApprovedByProfileID = &decidedBy
	req.ApprovedAt = &decidedAt
	if d.Notes != nil {
		req.Notes = d.Notes
	}
	r.s.data.requests[req.ID] = req
	return req, nil
}

func (r *adminRequestRepository) List(ctx context.Context, filter adminrequest.ListFilter) ([]adminrequest.RequestWithRequester, int64, error) {
	if err := r.s.injected("admin_access_requests.List"); err != nil {
		return nil, 0, err
	}
	defer r.s.lock(ctx)()

	matched := make([]adminrequest.Request, 0, len(r.s.data.requests))
	for _, req := range r.s.data.requests {
		if filter.Status != nil && string(req.Status) != *filter.Status {
			continue
		}
		if _, ok := r.s.data.profiles[req.RequesterProfileID]; !ok {
			continue
		}
		matched = append(matched, req)
	}
	slices.SortFunc(matched, newestFirst)

	page := paginate(matched, filter.Offset(), filter.Limit)
	items := make([]adminrequest.RequestWithRequester, 0, len(page))
	for _, req := range page {
		p := r.s.data.profiles[req.RequesterProfileID]
		items = append(items, adminrequest.RequestWithRequester{
			Request:           req,
			RequesterEmail:    p.Email,
			RequesterFullName: p.FullName,
		})
	}
	return items, int64(len(matched)), nil
}
