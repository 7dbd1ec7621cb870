// Package guard decides whether the current session may enter a view.
// Guards are pure functions of session state: no network calls and no
// caching, re-evaluated on every navigation attempt.
package guard

import (
	"github.com/jasminek987/WageFlowApp/internal/payroll"
	"github.com/jasminek987/WageFlowApp/internal/session"
)

// Route names a navigable view.
type Route string

const (
	// RouteLogin is the unauthenticated entry point.
	RouteLogin Route = "login"
	// RouteManagerDashboard is manager-only.
	RouteManagerDashboard Route = "manager-dashboard"
	// RouteEmployeeDashboard is employee-only.
	RouteEmployeeDashboard Route = "employee-dashboard"
)

// Decision is the outcome of a guard check. When Allowed is false,
// RedirectTo names where to send the user instead.
type Decision struct {
	Allowed    bool
	RedirectTo Route
}

func allow() Decision {
	return Decision{Allowed: true}
}

func redirect(to Route) Decision {
	return Decision{RedirectTo: to}
}

// Check gatekeeps route against the session: no token denies every
// protected view, and a role-scoped view denies the wrong role by
// redirecting to that role's own dashboard.
func Check(sessions *session.Store, route Route) Decision {
	if route == RouteLogin {
		return allow()
	}
	if !sessions.LoggedIn() {
		return redirect(RouteLogin)
	}
	switch route {
	case RouteManagerDashboard:
		if sessions.Role() != payroll.RoleManager {
			return redirectForRole(sessions.Role())
		}
	case RouteEmployeeDashboard:
		if sessions.Role() != payroll.RoleEmployee {
			return redirectForRole(sessions.Role())
		}
	default:
		return redirect(RouteLogin)
	}
	return allow()
}

// Home returns the dashboard a role lands on after login; unknown
// roles have no home and go back to login.
func Home(role payroll.Role) Route {
	switch role {
	case payroll.RoleManager:
		return RouteManagerDashboard
	case payroll.RoleEmployee:
		return RouteEmployeeDashboard
	default:
		return RouteLogin
	}
}

// redirectForRole sends a denied user to the dashboard their own role
// permits, or to login when the role is unknown.
func redirectForRole(role payroll.Role) Decision {
	return redirect(Home(role))
}
