package adminrequest

import "context"

type RequestService interface {
	Submit(ctx context.Context, requesterProfileID string, notes *string) (Request, error)
	Approve(ctx context.Context, requestID string, approverProfileID string) (Request, error)
	Reject(ctx context.Context, requestID string, approverProfileID string, notes *string) (Request, error)
	Query(ctx context.Context, requesterProfileID string) (StatusView, error)
	List(ctx context.Context, filter ListFilter) ([]RequestResponse, int64, error)
}
