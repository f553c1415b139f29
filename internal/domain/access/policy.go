package access

// Destination names where a denied session is sent.
type Destination string

const (
	DestinationNone            Destination = ""
	DestinationLoginEmployee   Destination = "login_employee"
	DestinationLoginAdmin      Destination = "login_admin"
	DestinationEmployeeHome    Destination = "employee_home"
	DestinationAdminHome       Destination = "admin_home"
	DestinationPendingApproval Destination = "pending_approval"
	DestinationSuperAdminHome  Destination = "super_admin_home"
)

// IsLogin reports whether the destination is a sign-in screen.
func (d Destination) IsLogin() bool {
	return d == DestinationLoginEmployee || d == DestinationLoginAdmin
}

// Policy holds the configurable parts of the routing table.
type Policy struct {
	SuperAdminInAdminArea    bool
	SuperAdminInEmployeeArea bool
}

func DefaultPolicy() Policy {
	return Policy{
		SuperAdminInAdminArea:    true,
		SuperAdminInEmployeeArea: false,
	}
}

// Routes maps destinations to client paths.
type Routes struct {
	LoginEmployee   string
	LoginAdmin      string
	EmployeeHome    string
	AdminHome       string
	PendingApproval string
	SuperAdminHome  string
}

func DefaultRoutes() Routes {
	return Routes{
		LoginEmployee:   "/login/employee",
		LoginAdmin:      "/login/admin",
		EmployeeHome:    "/employee/dashboard",
		AdminHome:       "/admin/dashboard",
		PendingApproval: "/admin/pending-approval",
		SuperAdminHome:  "/admin/approval-requests",
	}
}

// Path returns the configured path for d, or "" for DestinationNone.
func (r Routes) Path(d Destination) string {
	switch d {
	case DestinationLoginEmployee:
		return r.LoginEmployee
	case DestinationLoginAdmin:
		return r.LoginAdmin
	case DestinationEmployeeHome:
		return r.EmployeeHome
	case DestinationAdminHome:
		return r.AdminHome
	case DestinationPendingApproval:
		return r.PendingApproval
	case DestinationSuperAdminHome:
		return r.SuperAdminHome
	default:
		return ""
	}
}

type Decision struct {
	Allowed     bool
	Destination Destination
	Level       Level
	Area        Area
}

func allow(level Level, area Area) Decision {
	return Decision{Allowed: true, Level: level, Area: area}
}

func redirect(level Level, area Area, to Destination) Decision {
	return Decision{Destination: to, Level: level, Area: area}
}

// Decide maps an access level and a requested area to allow or a redirect.
func Decide(level Level, area Area, policy Policy) Decision {
	switch level {
	case LevelEmployee:
		if area == AreaEmployee {
			return allow(level, area)
		}
		return redirect(level, area, DestinationEmployeeHome)

	case LevelPendingAdmin:
		if area == AreaEmployee {
			return allow(level, area)
		}
		return redirect(level, area, DestinationPendingApproval)

	case LevelAdmin:
		if area == AreaAdmin {
			return allow(level, area)
		}
		return redirect(level, area, DestinationAdminHome)

	case LevelSuperAdmin:
		switch area {
		case AreaSuperAdmin:
			return allow(level, area)
		case AreaAdmin:
			if policy.SuperAdminInAdminArea {
				return allow(level, area)
			}
			return redirect(level, area, DestinationSuperAdminHome)
		default:
			if policy.SuperAdminInEmployeeArea {
				return allow(level, area)
			}
			return redirect(level, area, DestinationAdminHome)
		}

	default:
		if area == AreaEmployee {
			return redirect(LevelAnonymous, area, DestinationLoginEmployee)
		}
		return redirect(LevelAnonymous, area, DestinationLoginAdmin)
	}
}
