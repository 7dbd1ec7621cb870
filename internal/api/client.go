// Package api is the gateway to the WageFlow HTTP API. It owns
// credential attachment, response normalization and the verb-fallback
// retry for the approval endpoint; callers only ever see canonical
// payroll entities and structured errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jasminek987/WageFlowApp/internal/payroll"
	"github.com/jasminek987/WageFlowApp/internal/session"
)

// Client translates domain operations into HTTP calls against
// {baseURL}/api.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions *session.Store
	logger   *slog.Logger
	validate *validator.Validate
}

// NewClient constructs a Client. The session store doubles as the
// token source for the request interceptor.
func NewClient(baseURL string, timeout time.Duration, sessions *session.Store, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: newBearerTransport(nil, sessions),
		},
		sessions: sessions,
		logger:   logger,
		validate: validator.New(),
	}
}

type loginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// ErrMissingCredentials signals empty login input; surfaced as a form
// message, never sent over the wire.
var ErrMissingCredentials = errors.New("email and password are required")

// Login authenticates and persists the returned session. The returned
// role may be one the client cannot route; the caller decides what to
// do with an unknown role.
func (c *Client) Login(ctx context.Context, email, password string) (payroll.Role, error) {
	in := loginInput{Email: strings.TrimSpace(email), Password: strings.TrimSpace(password)}
	if err := c.validate.Struct(in); err != nil {
		return "", ErrMissingCredentials
	}
	var res loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", in, &res); err != nil {
		return "", err
	}
	role := payroll.Role(res.Role)
	if err := c.sessions.Set(ctx, res.Token, role); err != nil {
		return "", err
	}
	c.logger.Info("logged in", slog.String("role", res.Role))
	return role, nil
}

// Me fetches the authenticated employee's own profile.
func (c *Client) Me(ctx context.Context) (payroll.Profile, error) {
	var raw rawProfile
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &raw); err != nil {
		return payroll.Profile{}, err
	}
	return raw.normalize(), nil
}

// MyTimesheets fetches the caller's own timesheets.
func (c *Client) MyTimesheets(ctx context.Context) ([]payroll.Timesheet, error) {
	var raws []rawTimesheet
	if err := c.do(ctx, http.MethodGet, "/timesheets/me", nil, &raws); err != nil {
		return nil, err
	}
	out := make([]payroll.Timesheet, 0, len(raws))
	for _, r := range raws {
		out = append(out, r.normalize())
	}
	return out, nil
}

// MyPayslips fetches the caller's own payslips in server order.
func (c *Client) MyPayslips(ctx context.Context) ([]payroll.Payslip, error) {
	var raws []rawPayslip
	if err := c.do(ctx, http.MethodGet, "/payslips/me", nil, &raws); err != nil {
		return nil, err
	}
	out := make([]payroll.Payslip, 0, len(raws))
	for _, r := range raws {
		out = append(out, r.normalize())
	}
	return out, nil
}

// Employees fetches the full roster.
func (c *Client) Employees(ctx context.Context) ([]payroll.Employee, error) {
	var raws []rawEmployee
	if err := c.do(ctx, http.MethodGet, "/employees/", nil, &raws); err != nil {
		return nil, err
	}
	out := make([]payroll.Employee, 0, len(raws))
	for _, r := range raws {
		out = append(out, r.normalize())
	}
	return out, nil
}

// Timesheets fetches all timesheets; latestOnly requests the one most
// recent snapshot per employee.
func (c *Client) Timesheets(ctx context.Context, latestOnly bool) ([]payroll.Timesheet, error) {
	path := "/timesheets"
	if latestOnly {
		path += "?latest=1"
	}
	var raws []rawTimesheet
	if err := c.do(ctx, http.MethodGet, path, nil, &raws); err != nil {
		return nil, err
	}
	out := make([]payroll.Timesheet, 0, len(raws))
	for _, r := range raws {
		out = append(out, r.normalize())
	}
	return out, nil
}

// CreateEmployeeInput is the payload for a new roster entry.
type CreateEmployeeInput struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Rate  float64 `json:"rate"`
}

// CreateEmployee posts a new employee and returns the server record
// with its assigned id.
func (c *Client) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (payroll.Employee, error) {
	var raw rawEmployee
	if err := c.do(ctx, http.MethodPost, "/employees/", in, &raw); err != nil {
		return payroll.Employee{}, err
	}
	return raw.normalize(), nil
}

// ApproveTimesheet marks a timesheet approved. The endpoint's verb
// contract varies by deployment, so the call walks an ordered attempt
// list and falls through to the next verb only on failures the
// classifier allows; anything else propagates from the first attempt.
func (c *Client) ApproveTimesheet(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/timesheets/%d/approve", id)
	verbs := []string{http.MethodPatch, http.MethodPost}
	var res struct {
		OK      bool `json:"ok"`
		Already bool `json:"already"`
	}
	for i, verb := range verbs {
		err := c.do(ctx, verb, path, struct{}{}, &res)
		if err == nil {
			if res.Already {
				c.logger.Debug("timesheet already approved", slog.Int64("id", id))
			}
			return nil
		}
		if i == len(verbs)-1 || !fallbackEligible(err) {
			return err
		}
		c.logger.Debug("approve verb fallback",
			slog.String("verb", verb), slog.Int64("id", id), slog.Any("error", err))
	}
	return nil
}

// PayslipPDFURL builds the document URL for a payslip. The core never
// fetches it.
func (c *Client) PayslipPDFURL(id int64) string {
	return fmt.Sprintf("%s/api/payslips/%d/pdf", c.baseURL, id)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api"+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &Error{Status: res.StatusCode, Message: readServerMessage(res.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readServerMessage extracts the human-readable failure text; servers
// in the wild use either a "message" or an "error" field.
func readServerMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
