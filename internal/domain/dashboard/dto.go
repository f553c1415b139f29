package dashboard

// ========== ADMIN DASHBOARD ==========

// AdminDashboardResponse is the overview shown to admins and super admins
type AdminDashboardResponse struct {
	TotalEmployees  int64   `json:"total_employees"`  // profiles with role employee
	ActiveEmployees int64   `json:"active_employees"` // employees with is_active
	PendingRequests int64   `json:"pending_requests"` // admin access requests awaiting a decision
	TodayHours      float64 `json:"today_hours"`      // sum of today's time logs, all users
	GeneratedAt     string  `json:"generated_at"`
}

// ========== EMPLOYEE DASHBOARD ==========

// EmployeeDashboardResponse is the personal overview of the signed-in employee
type EmployeeDashboardResponse struct {
	TodayHours      float64 `json:"today_hours"`
	WeekHours       float64 `json:"week_hours"` // since Sunday 00:00
	Screenshots     int64   `json:"screenshots"`
	KeystrokesToday int64   `json:"keystrokes_today"`
	GeneratedAt     string  `json:"generated_at"`
}

// MinutesToHours converts summed durations to hours rounded to two decimals
func MinutesToHours(minutes int64) float64 {
	hours := float64(minutes) / 60
	return float64(int64(hours*100+0.5)) / 100
}
