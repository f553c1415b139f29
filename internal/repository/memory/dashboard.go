package memory

import (
	"context"
	"math"
	"time"

	"github.com/workmatrix/workmatrix-backend-go/internal/domain/adminrequest"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/dashboard"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/user"
)

type dashboardRepository struct {
	s *Store
}

func NewDashboardRepository(s *Store) dashboard.DashboardRepository {
	return &dashboardRepository{s: s}
}

func (r *dashboardRepository) CountProfiles(ctx context.Context, role user.Role, activeOnly bool) (int64, error) {
	if err := r.s.injected("dashboard.CountProfiles"); err != nil {
		return 0, err
	}
	defer r.s.lock(ctx)()

	var count int64
	for _, p := range r.s.data.profiles {
		if p.Role == role && (!activeOnly || p.IsActive) {
			count++
		}
	}
	return count, nil
}

func (r *dashboardRepository) CountPendingRequests(ctx context.Context) (int64, error) {
	if err := r.s.injected("dashboard.CountPendingRequests"); err != nil {
		return 0, err
	}
	defer r.s.lock(ctx)()

	var count int64
	for _, req := range r.s.data.requests {
		if req.Status == adminrequest.StatusPending {
			count++
		}
	}
	return count, nil
}

func (r *dashboardRepository) SumMinutesSince(ctx context.Context, profileID *string, since time.Time) (int64, error) {
	if err := r.s.injected("dashboard.SumMinutesSince"); err != nil {
		return 0, err
	}
	defer r.s.lock(ctx)()

	var total float64
	for _, l := range r.s.data.timeLogs {
		if profileID != nil && l.ProfileID != *profileID {
			continue
		}
		if !l.StartTime.Before(since) {
			total += l.Minutes()
		}
	}
	return int64(math.Round(total)), nil
}

func (r *dashboardRepository) CountScreenshots(ctx context.Context, profileID string) (int64, error) {
	if err := r.s.injected("dashboard.CountScreenshots"); err != nil {
		return 0, err
	}
	defer r.s.lock(ctx)()

	var count int64
	for _, sc := range r.s.data.screenshots {
		if sc.ProfileID == profileID {
			count++
		}
	}
	return count, nil
}

func (r *dashboardRepository) SumKeystrokesSince(ctx context.Context, profileID string, since time.Time) (int64, error) {
	if err := r.s.injected("dashboard.SumKeystrokesSince"); err != nil {
		return 0, err
	}
	defer r.s.lock(ctx)()

	var total int64
	for _, k := range r.s.data.keystrokes {
		if k.ProfileID == profileID && !k.Timestamp.Before(since) {
			total += k.Count
		}
	}
	return total, nil
}
