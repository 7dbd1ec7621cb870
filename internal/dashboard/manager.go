package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/jasminek987/WageFlowApp/internal/api"
	"github.com/jasminek987/WageFlowApp/internal/payroll"
	"github.com/jasminek987/WageFlowApp/internal/session"
)

// ManagerAPI is the slice of the gateway client the manager dashboard
// consumes.
type ManagerAPI interface {
	Employees(ctx context.Context) ([]payroll.Employee, error)
	Timesheets(ctx context.Context, latestOnly bool) ([]payroll.Timesheet, error)
	ApproveTimesheet(ctx context.Context, id int64) error
	CreateEmployee(ctx context.Context, in api.CreateEmployeeInput) (payroll.Employee, error)
}

// StatusFilter narrows the manager's timesheet table.
type StatusFilter string

const (
	// FilterAll shows every timesheet.
	FilterAll StatusFilter = "all"
	// FilterPending shows only pending timesheets (the default).
	FilterPending StatusFilter = "pending"
	// FilterApproved shows only approved timesheets.
	FilterApproved StatusFilter = "approved"
)

// ErrInvalidEmployee signals that the add-employee form failed local
// validation; no request was issued and the form stays open.
var ErrInvalidEmployee = errors.New("name, email and rate are required")

// unknownEmployeeName renders a timesheet whose employee id has no
// roster match.
const unknownEmployeeName = "—"

// ManagerController drives the manager dashboard: the roster, the
// latest timesheet snapshot, status/search filters, the optimistic
// approval protocol and the add-employee form. Approvals may overlap,
// so all state transitions happen under a mutex while the network
// calls themselves run outside it.
type ManagerController struct {
	api      ManagerAPI
	sessions *session.Store
	logger   *slog.Logger
	validate *validator.Validate

	mu sync.Mutex

	state   State
	errMsg  string
	formErr string
	showAdd bool

	employees  []payroll.Employee
	timesheets []payroll.Timesheet

	filter StatusFilter
	search string

	// ids with an approve call currently in flight; repeat triggers
	// for these are ignored.
	approving map[int64]struct{}

	pendingCount   int
	totalEmployees int
	shownPayroll   float64
}

// NewManagerController constructs an idle controller with the status
// filter defaulted to pending.
func NewManagerController(apiClient ManagerAPI, sessions *session.Store, logger *slog.Logger) *ManagerController {
	return &ManagerController{
		api:       apiClient,
		sessions:  sessions,
		logger:    logger,
		validate:  validator.New(),
		state:     StateIdle,
		filter:    FilterPending,
		approving: make(map[int64]struct{}),
	}
}

// Load fetches the roster and the latest-only timesheet snapshot
// concurrently. Guard behavior mirrors the employee dashboard: no
// token or a 401 yields ErrLoginRequired, anything else becomes a
// view-level error.
func (c *ManagerController) Load(ctx context.Context) error {
	if !c.sessions.LoggedIn() {
		return ErrLoginRequired
	}
	c.mu.Lock()
	c.state = StateLoading
	c.errMsg = ""
	c.mu.Unlock()

	var (
		emps []payroll.Employee
		ts   []payroll.Timesheet
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		emps, err = c.api.Employees(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		ts, err = c.api.Timesheets(gctx, true)
		return err
	})
	if err := g.Wait(); err != nil {
		if isUnauthorized(err) {
			if clearErr := c.sessions.Clear(ctx); clearErr != nil {
				c.logger.Warn("clear session", slog.Any("error", clearErr))
			}
			c.setState(StateIdle)
			return ErrLoginRequired
		}
		c.mu.Lock()
		c.state = StateError
		c.errMsg = failureMessage(err, "Failed to load data")
		c.mu.Unlock()
		c.logger.Error("manager dashboard load", slog.Any("error", err))
		return err
	}

	// Server casing for status varies by deployment; force every row
	// through the pending/approved rule.
	for i := range ts {
		ts[i].Status = payroll.NormalizeStatus(string(ts[i].Status))
	}

	c.mu.Lock()
	c.employees = emps
	c.timesheets = ts
	c.updateStatsLocked()
	c.state = StateReady
	c.mu.Unlock()
	return nil
}

// Approve runs the optimistic approval protocol for the timesheet with
// id: snapshot, mark approved locally (dropping the row from a pending
// view immediately), issue the remote call, and on failure restore the
// snapshot at its original position. Unknown ids and ids already in
// flight are no-ops with no network call.
func (c *ManagerController) Approve(ctx context.Context, id int64) error {
	c.mu.Lock()
	if _, busy := c.approving[id]; busy {
		c.mu.Unlock()
		return nil
	}
	idx := c.indexOfLocked(id)
	if idx < 0 {
		c.mu.Unlock()
		return nil
	}
	prev := c.timesheets[idx]
	prevIdx := idx

	c.timesheets[idx].Status = payroll.StatusApproved
	if c.filter == FilterPending {
		c.timesheets = append(c.timesheets[:idx], c.timesheets[idx+1:]...)
	}
	c.updateStatsLocked()
	c.approving[id] = struct{}{}
	c.mu.Unlock()

	err := c.api.ApproveTimesheet(ctx, id)

	c.mu.Lock()
	delete(c.approving, id)
	if err == nil {
		// Optimistic state already matches the server's end state.
		c.mu.Unlock()
		return nil
	}

	// Rollback: the record returns to its exact prior value at its
	// original position.
	if pos := c.indexOfLocked(id); pos >= 0 {
		c.timesheets[pos] = prev
	} else if prevIdx <= len(c.timesheets) {
		c.timesheets = append(c.timesheets[:prevIdx], append([]payroll.Timesheet{prev}, c.timesheets[prevIdx:]...)...)
	} else {
		c.timesheets = append(c.timesheets, prev)
	}
	c.updateStatsLocked()

	if isUnauthorized(err) {
		c.mu.Unlock()
		if clearErr := c.sessions.Clear(ctx); clearErr != nil {
			c.logger.Warn("clear session", slog.Any("error", clearErr))
		}
		return ErrLoginRequired
	}
	c.errMsg = failureMessage(err, "Approve failed")
	c.mu.Unlock()
	c.logger.Error("approve timesheet", slog.Int64("id", id), slog.Any("error", err))
	return err
}

// OpenAddForm shows the add-employee form.
func (c *ManagerController) OpenAddForm() {
	c.mu.Lock()
	c.showAdd = true
	c.formErr = ""
	c.mu.Unlock()
}

// CloseAddForm hides the add-employee form.
func (c *ManagerController) CloseAddForm() {
	c.mu.Lock()
	c.showAdd = false
	c.formErr = ""
	c.mu.Unlock()
}

// AddFormOpen reports whether the add-employee form is showing.
func (c *ManagerController) AddFormOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.showAdd
}

// FormError returns the current form-level validation message.
func (c *ManagerController) FormError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.formErr
}

type newEmployeeForm struct {
	Name  string  `validate:"required"`
	Email string  `validate:"required,email"`
	Rate  float64 `validate:"required,gt=0"`
}

// AddEmployee validates the form locally, creates the employee
// remotely and appends the server-assigned record to the roster. A
// validation failure issues no request and keeps the form open; a
// remote failure keeps the form open with a view-level error.
func (c *ManagerController) AddEmployee(ctx context.Context, in api.CreateEmployeeInput) error {
	form := newEmployeeForm{
		Name:  strings.TrimSpace(in.Name),
		Email: strings.TrimSpace(in.Email),
		Rate:  in.Rate,
	}
	if err := c.validate.Struct(form); err != nil {
		c.mu.Lock()
		c.formErr = ErrInvalidEmployee.Error()
		c.mu.Unlock()
		return ErrInvalidEmployee
	}

	created, err := c.api.CreateEmployee(ctx, in)
	if err != nil {
		if isUnauthorized(err) {
			if clearErr := c.sessions.Clear(ctx); clearErr != nil {
				c.logger.Warn("clear session", slog.Any("error", clearErr))
			}
			return ErrLoginRequired
		}
		c.mu.Lock()
		c.errMsg = failureMessage(err, "Add employee failed")
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.employees = append(c.employees, created)
	c.showAdd = false
	c.formErr = ""
	c.updateStatsLocked()
	c.mu.Unlock()
	return nil
}

// State returns the load lifecycle state.
func (c *ManagerController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ErrorMessage returns the current view-level error, empty when none.
func (c *ManagerController) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// DismissError clears the view-level error banner.
func (c *ManagerController) DismissError() {
	c.mu.Lock()
	c.errMsg = ""
	c.mu.Unlock()
}

// Filter returns the active status filter.
func (c *ManagerController) Filter() StatusFilter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// SetFilter changes the status filter and recomputes the shown
// statistics.
func (c *ManagerController) SetFilter(f StatusFilter) {
	c.mu.Lock()
	c.filter = f
	c.updateStatsLocked()
	c.mu.Unlock()
}

// SetSearch changes the employee-name search and recomputes the shown
// statistics.
func (c *ManagerController) SetSearch(q string) {
	c.mu.Lock()
	c.search = q
	c.updateStatsLocked()
	c.mu.Unlock()
}

// Employees returns the loaded roster.
func (c *ManagerController) Employees() []payroll.Employee {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]payroll.Employee, len(c.employees))
	copy(out, c.employees)
	return out
}

// EmployeeName resolves a timesheet's employee id to a display name.
func (c *ManagerController) EmployeeName(id int64) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.employeeNameLocked(id)
}

// FilteredTimesheets returns the rows the active status filter and
// name search leave visible.
func (c *ManagerController) FilteredTimesheets() []payroll.Timesheet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filteredLocked()
}

// PendingCount counts all pending timesheets regardless of filters.
func (c *ManagerController) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingCount
}

// TotalEmployees is the roster size.
func (c *ManagerController) TotalEmployees() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalEmployees
}

// ShownPayroll sums rate×hours over the currently visible timesheets;
// rows with no matching roster entry contribute nothing.
func (c *ManagerController) ShownPayroll() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shownPayroll
}

// Logout clears the session.
func (c *ManagerController) Logout(ctx context.Context) error {
	return c.sessions.Clear(ctx)
}

func (c *ManagerController) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *ManagerController) indexOfLocked(id int64) int {
	for i, t := range c.timesheets {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (c *ManagerController) employeeNameLocked(id int64) string {
	for _, e := range c.employees {
		if e.ID == id {
			return e.Name
		}
	}
	return unknownEmployeeName
}

func (c *ManagerController) filteredLocked() []payroll.Timesheet {
	q := strings.ToLower(strings.TrimSpace(c.search))
	out := make([]payroll.Timesheet, 0, len(c.timesheets))
	for _, t := range c.timesheets {
		if c.filter != FilterAll && t.Status != payroll.TimesheetStatus(c.filter) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(c.employeeNameLocked(t.EmployeeID)), q) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (c *ManagerController) updateStatsLocked() {
	pending := 0
	for _, t := range c.timesheets {
		if t.Status == payroll.StatusPending {
			pending++
		}
	}
	c.pendingCount = pending
	c.totalEmployees = len(c.employees)

	var payrollSum float64
	for _, t := range c.filteredLocked() {
		for _, e := range c.employees {
			if e.ID == t.EmployeeID {
				payrollSum += e.Rate * t.Hours
				break
			}
		}
	}
	c.shownPayroll = payrollSum
}
