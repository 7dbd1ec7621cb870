package guard

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jasminek987/WageFlowApp/internal/payroll"
	"github.com/jasminek987/WageFlowApp/internal/session"
)

func newSession(t *testing.T, token string, role payroll.Role) *session.Store {
	t.Helper()
	storage, err := session.NewFileStorage(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	store, err := session.NewStore(context.Background(), storage)
	require.NoError(t, err)
	if token != "" {
		require.NoError(t, store.Set(context.Background(), token, role))
	}
	return store
}

func TestCheck(t *testing.T) {
	cases := []struct {
		name  string
		token string
		role  payroll.Role
		route Route
		want  Decision
	}{
		{"login always allowed", "", "", RouteLogin, Decision{Allowed: true}},
		{"no token denies manager view", "", "", RouteManagerDashboard, Decision{RedirectTo: RouteLogin}},
		{"no token denies employee view", "", "", RouteEmployeeDashboard, Decision{RedirectTo: RouteLogin}},
		{"manager enters manager view", "tok", payroll.RoleManager, RouteManagerDashboard, Decision{Allowed: true}},
		{"employee enters employee view", "tok", payroll.RoleEmployee, RouteEmployeeDashboard, Decision{Allowed: true}},
		{"employee denied manager view", "tok", payroll.RoleEmployee, RouteManagerDashboard, Decision{RedirectTo: RouteEmployeeDashboard}},
		{"manager denied employee view", "tok", payroll.RoleManager, RouteEmployeeDashboard, Decision{RedirectTo: RouteManagerDashboard}},
		{"unknown role denied everywhere", "tok", payroll.Role("admin"), RouteManagerDashboard, Decision{RedirectTo: RouteLogin}},
		{"unknown route falls back to login", "tok", payroll.RoleManager, Route("settings"), Decision{RedirectTo: RouteLogin}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newSession(t, tc.token, tc.role)
			require.Equal(t, tc.want, Check(store, tc.route))
		})
	}
}

func TestCheckReEvaluatesEveryNavigation(t *testing.T) {
	store := newSession(t, "tok", payroll.RoleManager)
	require.True(t, Check(store, RouteManagerDashboard).Allowed)

	require.NoError(t, store.Clear(context.Background()))
	require.Equal(t, Decision{RedirectTo: RouteLogin}, Check(store, RouteManagerDashboard))
}

func TestHome(t *testing.T) {
	require.Equal(t, RouteManagerDashboard, Home(payroll.RoleManager))
	require.Equal(t, RouteEmployeeDashboard, Home(payroll.RoleEmployee))
	require.Equal(t, RouteLogin, Home(payroll.Role("superuser")))
}
