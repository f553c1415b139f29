package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/adminrequest"
	"github.com/workmatrix/workmatrix-backend-go/internal/pkg/database"
)

const adminRequestColumns = `id, requester_profile_id, status, requested_at, approved_by_profile_id, approved_at, notes`

type adminRequestRepositoryImpl struct {
	db *database.DB
}

func NewAdminRequestRepository(db *database.DB) adminrequest.RequestRepository {
	return &adminRequestRepositoryImpl{db: db}
}

func scanAdminRequest(row pgx.Row, extra ...interface{}) (adminrequest.Request, error) {
	var req adminrequest.Request
	var status string
	dest := []interface{}{
		&req.ID,
		&req.RequesterProfileID,
		&status,
		&req.RequestedAt,
		&req.ApprovedByProfileID,
		&req.ApprovedAt,
		&req.Notes,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return adminrequest.Request{}, adminrequest.ErrRequestNotFound
		}
		return adminrequest.Request{}, err
	}
	req.Status = adminrequest.Status(status)
	if !req.Status.IsValid() {
		return adminrequest.Request{}, fmt.Errorf("request %s: %w %q", req.ID, adminrequest.ErrInvalidStatus, status)
	}
	return req, nil
}

// Create implements adminrequest.RequestRepository.
func (r *adminRequestRepositoryImpl) Create(ctx context.Context, req adminrequest.Request) (adminrequest.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO admin_access_requests (id, requester_profile_id, status, requested_at, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + adminRequestColumns

	created, err := scanAdminRequest(q.QueryRow(ctx, query,
		req.ID,
		req.RequesterProfileID,
		string(req.Status),
		req.RequestedAt.UTC(),
		req.Notes,
	))
	if err != nil {
		if constraint, ok := uniqueConstraint(err); ok && constraint == "admin_access_requests_one_pending" {
			return adminrequest.Request{}, adminrequest.ErrDuplicateRequest
		}
		return adminrequest.Request{}, fmt.Errorf("create admin access request: %w", err)
	}
	return created, nil
}

// GetByID implements adminrequest.RequestRepository.
func (r *adminRequestRepositoryImpl) GetByID(ctx context.Context, id string) (adminrequest.Request, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + adminRequestColumns + ` FROM admin_access_requests WHERE id = $1`
	return scanAdminRequest(q.QueryRow(ctx, query, id))
}

// GetByIDForUpdate implements adminrequest.RequestRepository.
func (r *adminRequestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (adminrequest.Request, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + adminRequestColumns + ` FROM admin_access_requests WHERE id = $1 FOR UPDATE`
	return scanAdminRequest(q.QueryRow(ctx, query, id))
}

// GetLatestByRequester implements adminrequest.RequestRepository.
func (r *adminRequestRepositoryImpl) GetLatestByRequester(ctx context.Context, requesterProfileID string) (adminrequest.Request, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + adminRequestColumns + `
		FROM admin_access_requests
		WHERE requester_profile_id = $1
		ORDER BY requested_at DESC, id DESC
		LIMIT 1
	`
	return scanAdminRequest(q.QueryRow(ctx, query, requesterProfileID))
}

// HasPending implements adminrequest.RequestRepository.
func (r *adminRequestRepositoryImpl) HasPending(ctx context.Context, requesterProfileID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM admin_access_requests WHERE requester_profile_id = $1 AND status = 'pending')`
	if err := q.QueryRow(ctx, query, requesterProfileID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Decide implements adminrequest.RequestRepository.
func (r *adminRequestRepositoryImpl) Decide(ctx context.Context, d adminrequest.Decision) (adminrequest.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE admin_access_requests
		SET status = $1,
			approved_by_profile_id = $2,
			approved_at = $3,
			notes = COALESCE($4, notes)
		WHERE id = $5 AND status = 'pending'
		RETURNING ` + adminRequestColumns

	updated, err := scanAdminRequest(q.QueryRow(ctx, query,
		string(d.Status),
		d.DecidedBy,
		d.DecidedAt.UTC(),
		d.Notes,
		d.RequestID,
	))
	if errors.Is(err, adminrequest.ErrRequestNotFound) {
		// The row exists (it was locked by the caller) but is no longer pending.
		return adminrequest.Request{}, adminrequest.ErrInvalidState
	}
	if err != nil {
		return adminrequest.Request{}, fmt.Errorf("decide admin access request: %w", err)
	}
	return updated, nil
}

// List implements adminrequest.RequestRepository.
func (r *adminRequestRepositoryImpl) List(ctx context.Context, filter adminrequest.ListFilter) ([]adminrequest.RequestWithRequester, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := ``
	args := []interface{}{}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = ` WHERE ar.status = $1`
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM admin_access_requests ar`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count admin access requests: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT ar.id, ar.requester_profile_id, ar.status, ar.requested_at,
			   ar.approved_by_profile_id, ar.approved_at, ar.notes,
			   p.email, p.full_name
		FROM admin_access_requests ar
		JOIN profiles p ON p.id = ar.requester_profile_id
		%s
		ORDER BY ar.requested_at DESC, ar.id DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list admin access requests: %w", err)
	}
	defer rows.Close()

	items := make([]adminrequest.RequestWithRequester, 0)
	for rows.Next() {
		var item adminrequest.RequestWithRequester
		req, err := scanAdminRequest(rows, &item.RequesterEmail, &item.RequesterFullName)
		if err != nil {
			return nil, 0, err
		}
		item.Request = req
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}
