package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetAdminDashboard returns team-wide counts using parallel queries
	GetAdminDashboard(ctx context.Context) (*AdminDashboardResponse, error)

	// GetEmployeeDashboard returns the personal counts of one profile
	GetEmployeeDashboard(ctx context.Context, profileID string) (*EmployeeDashboardResponse, error)
}
