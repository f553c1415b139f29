package adminrequest

import "context"

type RequestRepository interface {
	Create(ctx context.Context, req Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	// GetByIDForUpdate locks the row for the rest of the surrounding transaction.
	GetByIDForUpdate(ctx context.Context, id string) (Request, error)
	GetLatestByRequester(ctx context.Context, requesterProfileID string) (Request, error)
	HasPending(ctx context.Context, requesterProfileID string) (bool, error)
	// Decide applies d only while the request is still pending, otherwise ErrInvalidState.
	Decide(ctx context.Context, d Decision) (Request, error)
	List(ctx context.Context, filter ListFilter) ([]RequestWithRequester, int64, error)
}
