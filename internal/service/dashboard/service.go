package dashboard

import (
	"context"
	"time"

	"github.com/workmatrix/workmatrix-backend-go/internal/domain/dashboard"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/user"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	now func() time.Time
}

func NewDashboardService(repo dashboard.DashboardRepository, now func() time.Time) dashboard.DashboardService {
	if now == nil {
		now = time.Now
	}
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		now:                 now,
	}
}

// startOfDay returns midnight of t in t's location
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the most recent Sunday 00:00, t's own day if it is a Sunday
func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// GetAdminDashboard returns team-wide counts using parallel goroutines
func (s *DashboardServiceImpl) GetAdminDashboard(ctx context.Context) (*dashboard.AdminDashboardResponse, error) {
	now := s.now()
	today := startOfDay(now)

	var (
		totalEmployees  int64
		activeEmployees int64
		pendingRequests int64
		todayMinutes    int64
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		totalEmployees, err = s.CountProfiles(gCtx, user.RoleEmployee, false)
		return err
	})

	g.Go(func() error {
		var err error
		activeEmployees, err = s.CountProfiles(gCtx, user.RoleEmployee, true)
		return err
	})

	g.Go(func() error {
		var err error
		pendingRequests, err = s.CountPendingRequests(gCtx)
		return err
	})

	g.Go(func() error {
		var err error
		todayMinutes, err = s.SumMinutesSince(gCtx, nil, today)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dashboard.AdminDashboardResponse{
		TotalEmployees:  totalEmployees,
		ActiveEmployees: activeEmployees,
		PendingRequests: pendingRequests,
		TodayHours:      dashboard.MinutesToHours(todayMinutes),
		GeneratedAt:     now.Format(time.RFC3339),
	}, nil
}

// GetEmployeeDashboard returns the personal counts of one profile
func (s *DashboardServiceImpl) GetEmployeeDashboard(ctx context.Context, profileID string) (*dashboard.EmployeeDashboardResponse, error) {
	now := s.now()
	today := startOfDay(now)
	week := startOfWeek(now)

	var (
		todayMinutes int64
		weekMinutes  int64
		screenshots  int64
		keystrokes   int64
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		todayMinutes, err = s.SumMinutesSince(gCtx, &profileID, today)
		return err
	})

	g.Go(func() error {
		var err error
		weekMinutes, err = s.SumMinutesSince(gCtx, &profileID, week)
		return err
	})

	g.Go(func() error {
		var err error
		screenshots, err = s.CountScreenshots(gCtx, profileID)
		return err
	})

	g.Go(func() error {
		var err error
		keystrokes, err = s.SumKeystrokesSince(gCtx, profileID, today)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dashboard.EmployeeDashboardResponse{
		TodayHours:      dashboard.MinutesToHours(todayMinutes),
		WeekHours:       dashboard.MinutesToHours(weekMinutes),
		Screenshots:     screenshots,
		KeystrokesToday: keystrokes,
		GeneratedAt:     now.Format(time.RFC3339),
	}, nil
}
