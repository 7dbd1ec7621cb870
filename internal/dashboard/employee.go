package dashboard

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jasminek987/WageFlowApp/internal/payroll"
	"github.com/jasminek987/WageFlowApp/internal/session"
)

// EmployeeAPI is the slice of the gateway client the employee
// dashboard consumes.
type EmployeeAPI interface {
	Me(ctx context.Context) (payroll.Profile, error)
	MyTimesheets(ctx context.Context) ([]payroll.Timesheet, error)
	MyPayslips(ctx context.Context) ([]payroll.Payslip, error)
}

// EmployeeController drives the employee dashboard: the user's own
// profile, timesheets and payslips, plus month/search filters and the
// derived quick stats. It is driven by a single user action at a time
// and is not safe for concurrent use.
type EmployeeController struct {
	api      EmployeeAPI
	sessions *session.Store
	logger   *slog.Logger

	state  State
	errMsg string

	me         payroll.Profile
	timesheets []payroll.Timesheet
	payslips   []payroll.Payslip

	selectedPayslipID int64
	hasSelection      bool

	month  string
	search string

	approvedHoursThisMonth float64
	pendingTimesheets      int
}

// NewEmployeeController constructs an idle controller with the month
// filter defaulted to the current month.
func NewEmployeeController(apiClient EmployeeAPI, sessions *session.Store, logger *slog.Logger) *EmployeeController {
	return &EmployeeController{
		api:      apiClient,
		sessions: sessions,
		logger:   logger,
		state:    StateIdle,
		month:    time.Now().Format("2006-01"),
	}
}

// Load fetches profile, own timesheets and own payslips concurrently
// and derives the initial view. With no session token it returns
// ErrLoginRequired before touching the network; a 401 from any fetch
// clears the session and does the same.
func (c *EmployeeController) Load(ctx context.Context) error {
	if !c.sessions.LoggedIn() {
		return ErrLoginRequired
	}
	c.state = StateLoading
	c.errMsg = ""

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		me, err := c.api.Me(gctx)
		if err != nil {
			return err
		}
		c.me = me
		return nil
	})
	g.Go(func() error {
		ts, err := c.api.MyTimesheets(gctx)
		if err != nil {
			return err
		}
		c.timesheets = ts
		return nil
	})
	g.Go(func() error {
		ps, err := c.api.MyPayslips(gctx)
		if err != nil {
			return err
		}
		c.payslips = ps
		return nil
	})
	if err := g.Wait(); err != nil {
		return c.failLoad(ctx, err)
	}

	// Default the detail view to the chronologically last payslip in
	// server order.
	c.hasSelection = false
	if n := len(c.payslips); n > 0 {
		c.selectedPayslipID = c.payslips[n-1].ID
		c.hasSelection = true
	}
	c.computeQuickStats()
	c.state = StateReady
	return nil
}

func (c *EmployeeController) failLoad(ctx context.Context, err error) error {
	if isUnauthorized(err) {
		if clearErr := c.sessions.Clear(ctx); clearErr != nil {
			c.logger.Warn("clear session", slog.Any("error", clearErr))
		}
		c.state = StateIdle
		return ErrLoginRequired
	}
	c.state = StateError
	c.errMsg = failureMessage(err, "Load failed")
	c.logger.Error("employee dashboard load", slog.Any("error", err))
	return err
}

// State returns the load lifecycle state.
func (c *EmployeeController) State() State {
	return c.state
}

// ErrorMessage returns the current view-level error, empty when none.
func (c *EmployeeController) ErrorMessage() string {
	return c.errMsg
}

// Me returns the loaded self profile.
func (c *EmployeeController) Me() payroll.Profile {
	return c.me
}

// Month returns the selected "YYYY-MM" month filter.
func (c *EmployeeController) Month() string {
	return c.month
}

// SetMonth changes the month filter and recomputes the quick stats.
// Source collections are never mutated by filter changes.
func (c *EmployeeController) SetMonth(month string) {
	c.month = month
	c.computeQuickStats()
}

// SetSearch changes the free-text filter.
func (c *EmployeeController) SetSearch(q string) {
	c.search = q
}

// FilteredTimesheets returns the timesheets whose week-start month is
// not after the selected month and whose week start contains the
// search text.
func (c *EmployeeController) FilteredTimesheets() []payroll.Timesheet {
	q := strings.ToLower(strings.TrimSpace(c.search))
	out := make([]payroll.Timesheet, 0, len(c.timesheets))
	for _, t := range c.timesheets {
		if c.month != "" && t.MonthKey() > c.month {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(t.WeekStart), q) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// FilteredPayslips returns the payslips whose start month is not after
// the selected month and whose formatted period contains the search
// text.
func (c *EmployeeController) FilteredPayslips() []payroll.Payslip {
	q := strings.ToLower(strings.TrimSpace(c.search))
	out := make([]payroll.Payslip, 0, len(c.payslips))
	for _, p := range c.payslips {
		if c.month != "" && p.MonthKey() > c.month {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Period), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SelectPayslip switches the detail view to the payslip with id;
// unknown ids leave the selection unchanged.
func (c *EmployeeController) SelectPayslip(id int64) {
	for _, p := range c.payslips {
		if p.ID == id {
			c.selectedPayslipID = id
			c.hasSelection = true
			return
		}
	}
}

// SelectedPayslip returns the payslip shown in the detail view.
func (c *EmployeeController) SelectedPayslip() (payroll.Payslip, bool) {
	if !c.hasSelection {
		return payroll.Payslip{}, false
	}
	for _, p := range c.payslips {
		if p.ID == c.selectedPayslipID {
			return p, true
		}
	}
	return payroll.Payslip{}, false
}

// ApprovedHoursThisMonth is the hour sum over approved timesheets
// whose week start falls exactly in the selected month.
func (c *EmployeeController) ApprovedHoursThisMonth() float64 {
	return c.approvedHoursThisMonth
}

// PendingTimesheets counts the user's pending timesheets, unfiltered.
func (c *EmployeeController) PendingTimesheets() int {
	return c.pendingTimesheets
}

// Logout clears the session.
func (c *EmployeeController) Logout(ctx context.Context) error {
	return c.sessions.Clear(ctx)
}

func (c *EmployeeController) computeQuickStats() {
	var hours float64
	pending := 0
	for _, t := range c.timesheets {
		if t.Status == payroll.StatusApproved && t.MonthKey() == c.month {
			hours += t.Hours
		}
		if t.Status == payroll.StatusPending {
			pending++
		}
	}
	c.approvedHoursThisMonth = hours
	c.pendingTimesheets = pending
}
