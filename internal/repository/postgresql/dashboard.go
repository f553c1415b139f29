package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/workmatrix/workmatrix-backend-go/internal/domain/dashboard"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/user"
	"github.com/workmatrix/workmatrix-backend-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// CountProfiles counts profiles of a role, optionally only active ones
func (r *dashboardRepositoryImpl) CountProfiles(ctx context.Context, role user.Role, activeOnly bool) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM profiles
		WHERE role = $1 AND ($2 = FALSE OR is_active)
	`

	var count int64
	if err := q.QueryRow(ctx, query, string(role), activeOnly).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return count, nil
}

// CountPendingRequests counts admin access requests awaiting a decision
func (r *dashboardRepositoryImpl) CountPendingRequests(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM admin_access_requests WHERE status = 'pending'`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending requests: %w", err)
	}
	return count, nil
}

// SumMinutesSince sums time log durations started at or after since.
// A closed log without a recorded duration counts its start to end span.
func (r *dashboardRepositoryImpl) SumMinutesSince(ctx context.Context, profileID *string, since time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ROUND(COALESCE(SUM(
			CASE
				WHEN duration_minutes > 0 THEN duration_minutes
				WHEN end_time IS NOT NULL THEN EXTRACT(EPOCH FROM end_time - start_time) / 60
				ELSE 0
			END
		), 0))::bigint
		FROM time_logs
		WHERE start_time >= $1 AND ($2::uuid IS NULL OR user_id = $2::uuid)
	`

	var minutes int64
	if err := q.QueryRow(ctx, query, since.UTC(), profileID).Scan(&minutes); err != nil {
		return 0, fmt.Errorf("failed to sum time logs: %w", err)
	}
	return minutes, nil
}

// CountScreenshots counts screenshots captured for a profile
func (r *dashboardRepositoryImpl) CountScreenshots(ctx context.Context, profileID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM screenshots WHERE user_id = $1`, profileID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count screenshots: %w", err)
	}
	return count, nil
}

// SumKeystrokesSince sums keystroke counts recorded at or after since
func (r *dashboardRepositoryImpl) SumKeystrokesSince(ctx context.Context, profileID string, since time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(count), 0)
		FROM keystrokes
		WHERE user_id = $1 AND timestamp >= $2
	`

	var total int64
	if err := q.QueryRow(ctx, query, profileID, since.UTC()).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum keystrokes: %w", err)
	}
	return total, nil
}
