package api

import (
	"fmt"

	"github.com/jasminek987/WageFlowApp/internal/payroll"
)

// The raw* types are the only code in the client that reads server
// field names. Deployments disagree on casing (employee_id vs
// employeeId, week_start vs weekStart) and on which synonyms carry the
// numbers, so every alias is declared here and resolved into the
// canonical payroll entities before anything else sees the data.

type rawTimesheet struct {
	ID            int64    `json:"id"`
	EmployeeID    *int64   `json:"employeeId"`
	EmployeeIDAlt *int64   `json:"employee_id"`
	WeekStart     *string  `json:"weekStart"`
	WeekStartAlt  *string  `json:"week_start"`
	WeekEnd       *string  `json:"weekEnd"`
	WeekEndAlt    *string  `json:"week_end"`
	Hours         *float64 `json:"hours"`
	TotalHours    *float64 `json:"total_hours"`
	Status        string   `json:"status"`
}

func (r rawTimesheet) normalize() payroll.Timesheet {
	return payroll.Timesheet{
		ID:         r.ID,
		EmployeeID: firstInt64(r.EmployeeID, r.EmployeeIDAlt),
		WeekStart:  firstString(r.WeekStart, r.WeekStartAlt),
		WeekEnd:    firstString(r.WeekEnd, r.WeekEndAlt),
		Hours:      firstFloat(r.Hours, r.TotalHours),
		Status:     payroll.NormalizeStatus(r.Status),
	}
}

type rawPayslip struct {
	ID             int64    `json:"id"`
	Period         string   `json:"period"`
	PeriodStart    *string  `json:"period_start"`
	PeriodStartAlt *string  `json:"ps"`
	PeriodEnd      *string  `json:"period_end"`
	PeriodEndAlt   *string  `json:"pe"`
	Gross          *float64 `json:"gross"`
	GrossPay       *float64 `json:"gross_pay"`
	Net            *float64 `json:"net"`
	NetPay         *float64 `json:"net_pay"`
	Tax            *float64 `json:"tax"`
	TaxDeductions  *float64 `json:"tax_deductions"`
}

func (r rawPayslip) normalize() payroll.Payslip {
	start := firstString(r.PeriodStart, r.PeriodStartAlt)
	end := firstString(r.PeriodEnd, r.PeriodEndAlt)
	period := r.Period
	if period == "" {
		period = fmt.Sprintf("%s to %s", start, end)
	}
	return payroll.Payslip{
		ID:     r.ID,
		Period: period,
		Start:  start,
		End:    end,
		Gross:  firstFloat(r.Gross, r.GrossPay),
		Net:    firstFloat(r.Net, r.NetPay),
		Tax:    firstFloat(r.Tax, r.TaxDeductions),
	}
}

type rawProfile struct {
	EmployeeID *int64   `json:"employee_id"`
	UserID     *int64   `json:"user_id"`
	FullName   string   `json:"full_name"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Rate       *float64 `json:"rate"`
}

func (r rawProfile) normalize() payroll.Profile {
	name := r.FullName
	if name == "" {
		name = r.Name
	}
	if name == "" {
		name = r.Email
	}
	return payroll.Profile{
		ID:    firstInt64(r.EmployeeID, r.UserID),
		Name:  name,
		Email: r.Email,
		Rate:  firstFloat(r.Rate),
	}
}

type rawEmployee struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Rate  *float64 `json:"rate"`
}

func (r rawEmployee) normalize() payroll.Employee {
	return payroll.Employee{
		ID:    r.ID,
		Name:  r.Name,
		Email: r.Email,
		Rate:  firstFloat(r.Rate),
	}
}

func firstInt64(candidates ...*int64) int64 {
	for _, c := range candidates {
		if c != nil {
			return *c
		}
	}
	return 0
}

func firstString(candidates ...*string) string {
	for _, c := range candidates {
		if c != nil {
			return *c
		}
	}
	return ""
}

func firstFloat(candidates ...*float64) float64 {
	for _, c := range candidates {
		if c != nil {
			return *c
		}
	}
	return 0
}
