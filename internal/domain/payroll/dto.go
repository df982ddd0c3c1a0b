package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stafma/stafma-backend-go/internal/pkg/validator"
)

// ========== PROCESS DTOs ==========

type ProcessPayrollRequest struct {
	Month       int     `json:"month"`
	Year        int     `json:"year"`
	ProcessedBy *string `json:"-"`
}

func (r *ProcessPayrollRequest) Validate() error {
	return validatePeriod(r.Month, r.Year)
}

func (r *ProcessPayrollRequest) Period() Period {
	return Period{Month: r.Month, Year: r.Year}
}

type ProcessEmployeeRequest struct {
	EmployeeID string `json:"employee_id"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`
}

func (r *ProcessEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if err := validatePeriod(r.Month, r.Year); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validatePeriod(month, year int) error {
	var errs validator.ValidationErrors

	if !validator.IsValidMonth(month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if !validator.IsValidYear(year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be 2000 or later"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// TransactionSummary is the per-employee disbursement outcome of a run.
type TransactionSummary struct {
	EmployeeID string          `json:"employee_id"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	Reference  string          `json:"reference"`
}

type ProcessPayrollResponse struct {
	Message        string               `json:"message"`
	ProcessedCount int                  `json:"count"`
	Warnings       []string             `json:"warnings,omitempty"`
	Transactions   []TransactionSummary `json:"transactions"`
}

type CheckProcessedResponse struct {
	Processed     bool       `json:"processed"`
	ProcessedDate *time.Time `json:"processed_date"`
}

// ========== RECORD DTOs ==========

type PayrollFilter struct {
	Month      *int
	Year       *int
	EmployeeID *string
}

type DeductionsResponse struct {
	PAYE            decimal.Decimal `json:"paye"`
	NHIF            decimal.Decimal `json:"nhif"`
	NSSF            decimal.Decimal `json:"nssf"`
	Other           decimal.Decimal `json:"other"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
}

type PayrollRecordResponse struct {
	ID             string             `json:"id"`
	EmployeeID     string             `json:"employee_id"`
	EmployeeName   *string            `json:"employee_name,omitempty"`
	EmployeeNumber *string            `json:"employee_number,omitempty"`
	Position       *string            `json:"position,omitempty"`
	Department     *string            `json:"department,omitempty"`
	Month          int                `json:"month"`
	Year           int                `json:"year"`
	BasicSalary    decimal.Decimal    `json:"basic_salary"`
	Allowances     decimal.Decimal    `json:"allowances"`
	GrossSalary    decimal.Decimal    `json:"gross_salary"`
	Deductions     DeductionsResponse `json:"deductions"`
	NetSalary      decimal.Decimal    `json:"net_salary"`
	ProcessedDate  time.Time          `json:"processed_date"`
}

func ToRecordResponse(r PayrollRecord) PayrollRecordResponse {
	return PayrollRecordResponse{
		ID:             r.ID,
		EmployeeID:     r.EmployeeID,
		EmployeeName:   r.EmployeeName,
		EmployeeNumber: r.EmployeeNumber,
		Position:       r.Position,
		Department:     r.Department,
		Month:          r.Month,
		Year:           r.Year,
		BasicSalary:    r.BasicSalary,
		Allowances:     r.Allowances,
		GrossSalary:    r.GrossSalary,
		Deductions: DeductionsResponse{
			PAYE:            r.Deductions.PAYE,
			NHIF:            r.Deductions.NHIF,
			NSSF:            r.Deductions.NSSF,
			Other:           r.Deductions.Other,
			TotalDeductions: r.Deductions.Total,
		},
		NetSalary:     r.NetSalary,
		ProcessedDate: r.ProcessedDate,
	}
}

func ToRecordResponses(records []PayrollRecord) []PayrollRecordResponse {
	result := make([]PayrollRecordResponse, 0, len(records))
	for _, r := range records {
		result = append(result, ToRecordResponse(r))
	}
	return result
}

// ========== SUMMARY DTOs ==========

type PayrollSummaryResponse struct {
	Month          int             `json:"month"`
	Year           int             `json:"year"`
	TotalEmployees int             `json:"total_employees"`
	TotalGross     decimal.Decimal `json:"total_gross"`
	TotalNet       decimal.Decimal `json:"total_net"`
	TotalPAYE      decimal.Decimal `json:"total_paye"`
	TotalNHIF      decimal.Decimal `json:"total_nhif"`
	TotalNSSF      decimal.Decimal `json:"total_nssf"`
}

// PayslipFile is a rendered payslip document.
type PayslipFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
