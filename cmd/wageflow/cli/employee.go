package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/jasminek987/WageFlowApp/internal/dashboard"
	"github.com/jasminek987/WageFlowApp/internal/guard"
)

func (s *Shell) employeeView(ctx context.Context) (guard.Route, error) {
	ctrl := dashboard.NewEmployeeController(s.client, s.sessions, s.logger)
	if err := ctrl.Load(ctx); err != nil {
		if errors.Is(err, dashboard.ErrLoginRequired) {
			return guard.RouteLogin, nil
		}
	}

	s.renderEmployee(ctrl)
	for {
		line, err := s.prompt("employee> ")
		if err != nil {
			return guard.RouteLogin, err
		}
		cmd, arg := splitCommand(line)
		switch cmd {
		case "refresh":
			if err := ctrl.Load(ctx); err != nil && errors.Is(err, dashboard.ErrLoginRequired) {
				return guard.RouteLogin, nil
			}
		case "month":
			ctrl.SetMonth(arg)
		case "search":
			ctrl.SetSearch(arg)
		case "select":
			if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
				ctrl.SelectPayslip(id)
			}
		case "pdf":
			if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
				fmt.Fprintln(s.out, s.client.PayslipPDFURL(id))
				continue
			}
			fmt.Fprintln(s.out, "usage: pdf <payslip id>")
			continue
		case "logout":
			if err := ctrl.Logout(ctx); err != nil {
				s.logger.Warn("logout", "error", err)
			}
			return guard.RouteLogin, nil
		case "quit":
			return guard.RouteLogin, errQuit
		case "help", "":
			fmt.Fprintln(s.out, "commands: refresh, month <YYYY-MM>, search <text>, select <id>, pdf <id>, logout, quit")
			continue
		default:
			fmt.Fprintf(s.out, "unknown command %q\n", cmd)
			continue
		}
		s.renderEmployee(ctrl)
	}
}

func (s *Shell) renderEmployee(ctrl *dashboard.EmployeeController) {
	if msg := ctrl.ErrorMessage(); msg != "" {
		fmt.Fprintf(s.out, "error: %s\n", msg)
		return
	}
	me := ctrl.Me()
	fmt.Fprintf(s.out, "\n%s <%s> rate %.2f\n", me.Name, me.Email, me.Rate)
	fmt.Fprintf(s.out, "month %s | approved hours this month %.2f | pending timesheets %d\n",
		ctrl.Month(), ctrl.ApprovedHoursThisMonth(), ctrl.PendingTimesheets())

	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWEEK START\tHOURS\tSTATUS")
	for _, t := range ctrl.FilteredTimesheets() {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\n", t.ID, t.WeekStart, t.Hours, t.Status)
	}
	_ = w.Flush()

	w = tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPERIOD\tGROSS\tNET\tTAX")
	for _, p := range ctrl.FilteredPayslips() {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%.2f\t%.2f\n", p.ID, p.Period, p.Gross, p.Net, p.Tax)
	}
	_ = w.Flush()

	if p, ok := ctrl.SelectedPayslip(); ok {
		fmt.Fprintf(s.out, "selected payslip %d: %s gross %.2f net %.2f tax %.2f\n",
			p.ID, p.Period, p.Gross, p.Net, p.Tax)
	}
}

func splitCommand(line string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(line), " ", 2)
	cmd := strings.ToLower(parts[0])
	if len(parts) == 1 {
		return cmd, ""
	}
	return cmd, strings.TrimSpace(parts[1])
}
