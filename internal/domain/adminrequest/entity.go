package adminrequest

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"

	// StatusNone is reported by Query when the requester never asked for admin access.
	StatusNone Status = "none"
)

// IsValid checks if the status can be stored on a request
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

var transitions = map[Status][]Status{
	StatusPending: {StatusApproved, StatusRejected},
}

// CanTransition reports whether a request in status from may move to status to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Request is one admin access request raised by a profile.
type Request struct {
	ID                  string
	RequesterProfileID  string
	Status              Status
	RequestedAt         time.Time
	ApprovedByProfileID *string
	ApprovedAt          *time.Time
	Notes               *string
}

// Decision is the write applied when a super admin approves or rejects.
type Decision struct {
	RequestID string
	Status    Status
	DecidedBy string
	DecidedAt time.Time
	Notes     *string
}

// RequestWithRequester is a request joined with the requester's directory data.
type RequestWithRequester struct {
	Request
	RequesterEmail    string
	RequesterFullName string
}
