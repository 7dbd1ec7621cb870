// Package payroll defines the canonical domain entities shared by the
// dashboard controllers and the API client.
package payroll

import "strings"

// Role identifies which dashboard a user may enter.
type Role string

const (
	// RoleManager grants the manager dashboard.
	RoleManager Role = "manager"
	// RoleEmployee grants the employee dashboard.
	RoleEmployee Role = "employee"
)

// Known reports whether the role is one the client can route.
func (r Role) Known() bool {
	return r == RoleManager || r == RoleEmployee
}

// TimesheetStatus enumerates timesheet approval states.
type TimesheetStatus string

const (
	// StatusPending marks a timesheet awaiting approval.
	StatusPending TimesheetStatus = "pending"
	// StatusApproved marks an approved timesheet.
	StatusApproved TimesheetStatus = "approved"
)

// NormalizeStatus maps any server-supplied status string onto the
// client vocabulary. Only "approved" (any casing) maps to approved;
// everything else, including unknown values, is pending.
func NormalizeStatus(raw string) TimesheetStatus {
	if strings.EqualFold(strings.TrimSpace(raw), string(StatusApproved)) {
		return StatusApproved
	}
	return StatusPending
}

// Employee is a roster entry as seen by a manager.
type Employee struct {
	ID    int64
	Name  string
	Email string
	Rate  float64
}

// Timesheet is one submitted week of work. Dates are ISO "YYYY-MM-DD"
// strings: the server emits date-only values and lexical order equals
// chronological order, so they double as sort and bucket keys.
type Timesheet struct {
	ID         int64
	EmployeeID int64
	WeekStart  string
	WeekEnd    string
	Hours      float64
	Status     TimesheetStatus
}

// MonthKey returns the "YYYY-MM" bucket of the timesheet's week start.
func (t Timesheet) MonthKey() string {
	return MonthOf(t.WeekStart)
}

// Payslip is a read-only pay period summary.
type Payslip struct {
	ID     int64
	Period string
	Start  string
	End    string
	Gross  float64
	Net    float64
	Tax    float64
}

// MonthKey returns the "YYYY-MM" bucket of the payslip's period start.
func (p Payslip) MonthKey() string {
	return MonthOf(p.Start)
}

// Profile is the authenticated employee's own record.
type Profile struct {
	ID    int64
	Name  string
	Email string
	Rate  float64
}

// MonthOf truncates an ISO date to its "YYYY-MM" month bucket.
func MonthOf(isoDate string) string {
	if len(isoDate) < 7 {
		return isoDate
	}
	return isoDate[:7]
}
