package dashboard

import (
	"context"
	"time"

	"github.com/workmatrix/workmatrix-backend-go/internal/domain/user"
)

// DashboardRepository defines the interface for dashboard data access
type DashboardRepository interface {
	// CountProfiles counts profiles with the given role, optionally only active ones
	CountProfiles(ctx context.Context, role user.Role, activeOnly bool) (int64, error)

	// CountPendingRequests counts admin access requests still pending
	CountPendingRequests(ctx context.Context) (int64, error)

	// SumMinutesSince sums time log durations started at or after since; nil profileID means everyone
	SumMinutesSince(ctx context.Context, profileID *string, since time.Time) (int64, error)

	// CountScreenshots counts all screenshots captured for a profile
	CountScreenshots(ctx context.Context, profileID string) (int64, error)

	// SumKeystrokesSince sums keystroke counts recorded at or after since
	SumKeystrokesSince(ctx context.Context, profileID string, since time.Time) (int64, error)
}
