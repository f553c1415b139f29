package adminrequest

import (
	"time"

	"github.com/workmatrix/workmatrix-backend-go/internal/pkg/validator"
)

type SubmitRequest struct {
	Notes *string `json:"notes,omitempty"`
}

func (r *SubmitRequest) Validate() error {
	if r.Notes != nil && len(*r.Notes) > 1000 {
		return validator.ValidationErrors{{
			Field:   "notes",
			Message: "notes must not exceed 1000 characters",
		}}
	}
	return nil
}

type DecideRequest struct {
	Notes *string `json:"notes,omitempty"`
}

func (r *DecideRequest) Validate() error {
	if r.Notes != nil && len(*r.Notes) > 1000 {
		return validator.ValidationErrors{{
			Field:   "notes",
			Message: "notes must not exceed 1000 characters",
		}}
	}
	return nil
}

// ListFilter narrows the super admin approval queue
type ListFilter struct {
	Status *string
	Page   int
	Limit  int
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !Status(*f.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: pending, approved, rejected",
		})
	}
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must not be negative",
		})
	}
	if f.Limit < 0 || f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be between 1 and 100",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	return nil
}

func (f ListFilter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

type RequestResponse struct {
	ID                  string  `json:"id"`
	RequesterProfileID  string  `json:"requester_profile_id"`
	RequesterEmail      string  `json:"requester_email,omitempty"`
	RequesterFullName   string  `json:"requester_full_name,omitempty"`
	Status              string  `json:"status"`
	RequestedAt         string  `json:"requested_at"`
	ApprovedByProfileID *string `json:"approved_by,omitempty"`
	ApprovedAt          *string `json:"approved_at,omitempty"`
	Notes               *string `json:"notes,omitempty"`
}

func NewRequestResponse(r Request) RequestResponse {
	resp := RequestResponse{
		ID:                  r.ID,
		RequesterProfileID:  r.RequesterProfileID,
		Status:              string(r.Status),
		RequestedAt:         r.RequestedAt.Format(time.RFC3339),
		ApprovedByProfileID: r.ApprovedByProfileID,
		Notes:               r.Notes,
	}
	if r.ApprovedAt != nil {
		approvedAt := r.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &approvedAt
	}
	return resp
}

// StatusView is the answer to "where is my admin access request".
type StatusView struct {
	Status    Status  `json:"status"`
	RequestID *string `json:"request_id,omitempty"`
}

// IsPending reports whether the latest request awaits a decision.
func (v StatusView) IsPending() bool {
	return v.Status == StatusPending
}
