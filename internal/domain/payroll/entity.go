package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Period identifies one payroll cycle.
type Period struct {
	Month int
	Year  int
}

// FirstDay returns the first instant of the period in UTC.
func (p Period) FirstDay() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// After reports whether p is a later period than other.
func (p Period) After(other Period) bool {
	if p.Year != other.Year {
		return p.Year > other.Year
	}
	return p.Month > other.Month
}

func (p Period) String() string {
	return fmt.Sprintf("%d/%d", p.Month, p.Year)
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	y, m, _ := t.Date()
	return Period{Month: int(m), Year: y}
}

// StatutoryDeductions are the policy-driven deductions computed from gross salary.
type StatutoryDeductions struct {
	PAYE decimal.Decimal
	NHIF decimal.Decimal
	NSSF decimal.Decimal
}

func (s StatutoryDeductions) Total() decimal.Decimal {
	return s.PAYE.Add(s.NHIF).Add(s.NSSF)
}

type Deductions struct {
	PAYE  decimal.Decimal
	NHIF  decimal.Decimal
	NSSF  decimal.Decimal
	Other decimal.Decimal
	Total decimal.Decimal
}

// Line is one computed payroll line, ready to persist.
type Line struct {
	BasicSalary decimal.Decimal
	Allowances  decimal.Decimal
	GrossSalary decimal.Decimal
	Deductions  Deductions
	NetSalary   decimal.Decimal
}

// PayrollRecord is one employee's payroll for one period.
type PayrollRecord struct {
	ID         string
	CompanyID  string
	EmployeeID string
	Month      int
	Year       int
	Line
	ProcessedDate time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Joined fields
	EmployeeName   *string
	EmployeeNumber *string
	Position       *string
	Department     *string
}

func (r PayrollRecord) Period() Period {
	return Period{Month: r.Month, Year: r.Year}
}

// PayrollRun marks a (company, month, year) period as claimed by a full run.
type PayrollRun struct {
	ID            string
	CompanyID     string
	Month         int
	Year          int
	ProcessedBy   *string
	ProcessedDate time.Time
}

// ProcessedStatus reports whether any payroll exists for a period.
type ProcessedStatus struct {
	Processed     bool
	ProcessedDate *time.Time
}
