package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/jasminek987/WageFlowApp/internal/payroll"
	"github.com/jasminek987/WageFlowApp/internal/session"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	storage, err := session.NewFileStorage(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	sessions, err := session.NewStore(context.Background(), storage)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(srv.URL, 5*time.Second, sessions, logger), sessions
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestLoginPersistsSession(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/auth/login", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		require.Equal(t, "boss@wageflow.io", body.Email)
		require.Equal(t, "secret", body.Password)
		writeJSON(t, w, http.StatusOK, map[string]string{"token": "tok-1", "role": "manager"})
	})
	client, sessions := newTestClient(t, r)

	role, err := client.Login(context.Background(), "boss@wageflow.io", "secret")
	require.NoError(t, err)
	require.Equal(t, payroll.RoleManager, role)
	require.Equal(t, "tok-1", sessions.Token())
	require.Equal(t, payroll.RoleManager, sessions.Role())
}

func TestLoginMissingCredentialsIssuesNoRequest(t *testing.T) {
	called := false
	client, sessions := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	_, err := client.Login(context.Background(), "  ", "pw")
	require.ErrorIs(t, err, ErrMissingCredentials)
	_, err = client.Login(context.Background(), "a@b.io", "")
	require.ErrorIs(t, err, ErrMissingCredentials)
	require.False(t, called)
	require.False(t, sessions.LoggedIn())
}

func TestBearerAndRequestIDAttached(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/timesheets/me", func(w http.ResponseWriter, req *http.Request) {
		require.Equal(t, "Bearer tok-2", req.Header.Get("Authorization"))
		require.NotEmpty(t, req.Header.Get("X-Request-ID"))
		writeJSON(t, w, http.StatusOK, []map[string]any{})
	})
	client, sessions := newTestClient(t, r)
	require.NoError(t, sessions.Set(context.Background(), "tok-2", payroll.RoleEmployee))

	_, err := client.MyTimesheets(context.Background())
	require.NoError(t, err)
}

func TestBearerNotAttachedOutsideNamespace(t *testing.T) {
	recorded := make(chan *http.Request, 1)
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		recorded <- req
		rec := httptest.NewRecorder()
		rec.WriteHeader(http.StatusOK)
		return rec.Result(), nil
	})
	transport := newBearerTransport(rt, staticToken("tok"))

	req := httptest.NewRequest(http.MethodGet, "http://wageflow.local/health", nil)
	_, err := transport.RoundTrip(req)
	require.NoError(t, err)
	sent := <-recorded
	require.Empty(t, sent.Header.Get("Authorization"))

	req = httptest.NewRequest(http.MethodGet, "http://wageflow.local/api/employees/", nil)
	_, err = transport.RoundTrip(req)
	require.NoError(t, err)
	sent = <-recorded
	require.Equal(t, "Bearer tok", sent.Header.Get("Authorization"))
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestTimesheetsLatestOnlyQuery(t *testing.T) {
	var gotLatest string
	r := chi.NewRouter()
	r.Get("/api/timesheets", func(w http.ResponseWriter, req *http.Request) {
		gotLatest = req.URL.Query().Get("latest")
		writeJSON(t, w, http.StatusOK, []map[string]any{
			{"id": 1, "employee_id": 2, "week_start": "2025-08-04", "hours": 40, "status": "PENDING"},
		})
	})
	client, sessions := newTestClient(t, r)
	require.NoError(t, sessions.Set(context.Background(), "tok", payroll.RoleManager))

	ts, err := client.Timesheets(context.Background(), true)
	require.NoError(t, err)
	require.Equal(t, "1", gotLatest)
	require.Len(t, ts, 1)
	require.Equal(t, payroll.StatusPending, ts[0].Status)

	_, err = client.Timesheets(context.Background(), false)
	require.NoError(t, err)
	require.Empty(t, gotLatest)
}

func TestApproveFallsBackToPost(t *testing.T) {
	var postCalls int
	r := chi.NewRouter()
	// Only POST is registered; chi answers PATCH with 405, which the
	// classifier treats as fallback-eligible.
	r.Post("/api/timesheets/{id}/approve", func(w http.ResponseWriter, req *http.Request) {
		postCalls++
		require.Equal(t, "7", chi.URLParam(req, "id"))
		writeJSON(t, w, http.StatusOK, map[string]bool{"ok": true})
	})
	client, sessions := newTestClient(t, r)
	require.NoError(t, sessions.Set(context.Background(), "tok", payroll.RoleManager))

	require.NoError(t, client.ApproveTimesheet(context.Background(), 7))
	require.Equal(t, 1, postCalls)
}

func TestApprovePatchSuccessSkipsFallback(t *testing.T) {
	var patchCalls, postCalls int
	r := chi.NewRouter()
	r.Patch("/api/timesheets/{id}/approve", func(w http.ResponseWriter, req *http.Request) {
		patchCalls++
		writeJSON(t, w, http.StatusOK, map[string]bool{"ok": true, "already": true})
	})
	r.Post("/api/timesheets/{id}/approve", func(w http.ResponseWriter, req *http.Request) {
		postCalls++
	})
	client, sessions := newTestClient(t, r)
	require.NoError(t, sessions.Set(context.Background(), "tok", payroll.RoleManager))

	require.NoError(t, client.ApproveTimesheet(context.Background(), 9))
	require.Equal(t, 1, patchCalls)
	require.Zero(t, postCalls)
}

func TestApproveDoesNotFallBackOnServerError(t *testing.T) {
	var postCalls int
	r := chi.NewRouter()
	r.Patch("/api/timesheets/{id}/approve", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(t, w, http.StatusInternalServerError, map[string]string{"message": "boom"})
	})
	r.Post("/api/timesheets/{id}/approve", func(w http.ResponseWriter, req *http.Request) {
		postCalls++
	})
	client, sessions := newTestClient(t, r)
	require.NoError(t, sessions.Set(context.Background(), "tok", payroll.RoleManager))

	err := client.ApproveTimesheet(context.Background(), 7)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusInternalServerError, apiErr.Status)
	require.Equal(t, "boom", apiErr.Message)
	require.Zero(t, postCalls, "500 must propagate without trying the alternate verb")
}

func TestFallbackClassifier(t *testing.T) {
	require.True(t, fallbackEligible(&Error{Status: http.StatusNotFound}))
	require.True(t, fallbackEligible(&Error{Status: http.StatusMethodNotAllowed}))
	require.True(t, fallbackEligible(io.ErrUnexpectedEOF), "transport failures are eligible")
	require.False(t, fallbackEligible(&Error{Status: http.StatusInternalServerError}))
	require.False(t, fallbackEligible(&Error{Status: http.StatusUnauthorized}))
	require.False(t, fallbackEligible(context.Canceled))
	require.False(t, fallbackEligible(context.DeadlineExceeded))
}

func TestServerMessageExtraction(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/auth/me", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
	})
	r.Get("/api/employees/", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]string{"message": "bad filter"})
	})
	client, sessions := newTestClient(t, r)
	require.NoError(t, sessions.Set(context.Background(), "tok", payroll.RoleEmployee))

	_, err := client.Me(context.Background())
	require.True(t, IsUnauthorized(err))
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "invalid or expired token", apiErr.Message)

	_, err = client.Employees(context.Background())
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Equal(t, "bad filter", apiErr.Message)
	require.False(t, IsUnauthorized(err))
}

func TestMyPayslipsNormalized(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/payslips/me", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(t, w, http.StatusOK, []map[string]any{
			{"id": 1, "period_start": "2025-06-01", "period_end": "2025-06-30", "gross_pay": 5000, "net_pay": 3800},
			{"id": 2, "ps": "2025-07-01", "pe": "2025-07-31", "gross": 5100, "net": 3850, "tax": 1250},
		})
	})
	client, sessions := newTestClient(t, r)
	require.NoError(t, sessions.Set(context.Background(), "tok", payroll.RoleEmployee))

	ps, err := client.MyPayslips(context.Background())
	require.NoError(t, err)
	require.Len(t, ps, 2)
	require.Equal(t, "2025-06-01 to 2025-06-30", ps[0].Period)
	require.Equal(t, "2025-07-01", ps[1].Start)
	require.Equal(t, 1250.0, ps[1].Tax)
}

func TestCreateEmployee(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/employees/", func(w http.ResponseWriter, req *http.Request) {
		var in CreateEmployeeInput
		require.NoError(t, json.NewDecoder(req.Body).Decode(&in))
		writeJSON(t, w, http.StatusCreated, map[string]any{
			"id": 42, "name": in.Name, "email": in.Email, "rate": in.Rate,
		})
	})
	client, sessions := newTestClient(t, r)
	require.NoError(t, sessions.Set(context.Background(), "tok", payroll.RoleManager))

	created, err := client.CreateEmployee(context.Background(), CreateEmployeeInput{
		Name: "Ada", Email: "ada@wageflow.io", Rate: 30,
	})
	require.NoError(t, err)
	require.Equal(t, payroll.Employee{ID: 42, Name: "Ada", Email: "ada@wageflow.io", Rate: 30}, created)
}

func TestPayslipPDFURL(t *testing.T) {
	client, _ := newTestClient(t, chi.NewRouter())
	url := client.PayslipPDFURL(5)
	require.Contains(t, url, "/api/payslips/5/pdf")
}
