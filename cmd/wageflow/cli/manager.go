package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/jasminek987/WageFlowApp/internal/api"
	"github.com/jasminek987/WageFlowApp/internal/dashboard"
	"github.com/jasminek987/WageFlowApp/internal/guard"
)

func (s *Shell) managerView(ctx context.Context) (guard.Route, error) {
	ctrl := dashboard.NewManagerController(s.client, s.sessions, s.logger)
	if err := ctrl.Load(ctx); err != nil {
		if errors.Is(err, dashboard.ErrLoginRequired) {
			return guard.RouteLogin, nil
		}
	}

	s.renderManager(ctrl)
	for {
		line, err := s.prompt("manager> ")
		if err != nil {
			return guard.RouteLogin, err
		}
		cmd, arg := splitCommand(line)
		switch cmd {
		case "refresh":
			if err := ctrl.Load(ctx); err != nil && errors.Is(err, dashboard.ErrLoginRequired) {
				return guard.RouteLogin, nil
			}
		case "filter":
			switch dashboard.StatusFilter(arg) {
			case dashboard.FilterAll, dashboard.FilterPending, dashboard.FilterApproved:
				ctrl.SetFilter(dashboard.StatusFilter(arg))
			default:
				fmt.Fprintln(s.out, "usage: filter <all|pending|approved>")
				continue
			}
		case "search":
			ctrl.SetSearch(arg)
		case "approve":
			id, convErr := strconv.ParseInt(arg, 10, 64)
			if convErr != nil {
				fmt.Fprintln(s.out, "usage: approve <timesheet id>")
				continue
			}
			if err := ctrl.Approve(ctx, id); err != nil && errors.Is(err, dashboard.ErrLoginRequired) {
				return guard.RouteLogin, nil
			}
		case "add":
			next, done, err := s.addEmployee(ctx, ctrl)
			if err != nil {
				return next, err
			}
			if done {
				return next, nil
			}
		case "dismiss":
			ctrl.DismissError()
		case "logout":
			if err := ctrl.Logout(ctx); err != nil {
				s.logger.Warn("logout", "error", err)
			}
			return guard.RouteLogin, nil
		case "quit":
			return guard.RouteLogin, errQuit
		case "help", "":
			fmt.Fprintln(s.out, "commands: refresh, filter <all|pending|approved>, search <text>, approve <id>, add, dismiss, logout, quit")
			continue
		default:
			fmt.Fprintf(s.out, "unknown command %q\n", cmd)
			continue
		}
		s.renderManager(ctrl)
	}
}

// addEmployee runs the add form. done reports that the view should be
// left (session expiry during the create call).
func (s *Shell) addEmployee(ctx context.Context, ctrl *dashboard.ManagerController) (next guard.Route, done bool, err error) {
	ctrl.OpenAddForm()
	fmt.Fprintln(s.out, "new employee (blank name cancels)")
	for ctrl.AddFormOpen() {
		name, err := s.prompt("name> ")
		if err != nil {
			return guard.RouteLogin, false, err
		}
		if strings.TrimSpace(name) == "" {
			ctrl.CloseAddForm()
			break
		}
		email, err := s.prompt("email> ")
		if err != nil {
			return guard.RouteLogin, false, err
		}
		rateText, err := s.prompt("hourly rate> ")
		if err != nil {
			return guard.RouteLogin, false, err
		}
		rate, _ := strconv.ParseFloat(rateText, 64)

		addErr := ctrl.AddEmployee(ctx, api.CreateEmployeeInput{Name: name, Email: email, Rate: rate})
		if addErr == nil {
			continue
		}
		if errors.Is(addErr, dashboard.ErrLoginRequired) {
			return guard.RouteLogin, true, nil
		}
		if errors.Is(addErr, dashboard.ErrInvalidEmployee) {
			fmt.Fprintln(s.out, ctrl.FormError())
			continue
		}
		// Remote failure: the form stays open so the user can retry.
		fmt.Fprintf(s.out, "error: %s\n", ctrl.ErrorMessage())
	}
	return "", false, nil
}

func (s *Shell) renderManager(ctrl *dashboard.ManagerController) {
	if msg := ctrl.ErrorMessage(); msg != "" {
		fmt.Fprintf(s.out, "error: %s (dismiss to clear)\n", msg)
	}
	fmt.Fprintf(s.out, "\nfilter %s | pending %d | employees %d | shown payroll %.2f\n",
		ctrl.Filter(), ctrl.PendingCount(), ctrl.TotalEmployees(), ctrl.ShownPayroll())

	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMPLOYEE\tWEEK START\tHOURS\tSTATUS")
	for _, t := range ctrl.FilteredTimesheets() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%s\n",
			t.ID, ctrl.EmployeeName(t.EmployeeID), t.WeekStart, t.Hours, t.Status)
	}
	_ = w.Flush()
}
