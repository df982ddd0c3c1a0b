package employee

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stafma/stafma-backend-go/internal/pkg/validator"
)

// ========== REQUEST DTOs ==========

type AllowancesRequest struct {
	Housing   decimal.Decimal `json:"housing"`
	Transport decimal.Decimal `json:"transport"`
	Medical   decimal.Decimal `json:"medical"`
	Other     decimal.Decimal `json:"other"`
}

type DeductionsRequest struct {
	Loans decimal.Decimal `json:"loans"`
	Other decimal.Decimal `json:"other"`
}

type SalaryRequest struct {
	Basic      decimal.Decimal   `json:"basic"`
	Allowances AllowancesRequest `json:"allowances"`
	Deductions DeductionsRequest `json:"deductions"`
}

type BankDetailsRequest struct {
	BankName      string  `json:"bank_name"`
	AccountName   string  `json:"account_name"`
	AccountNumber string  `json:"account_number"`
	BranchName    string  `json:"branch_name"`
	SwiftCode     *string `json:"swift_code,omitempty"`
	BankCode      *string `json:"bank_code,omitempty"`
}

func (r BankDetailsRequest) validate(prefix string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.BankName) {
		errs = append(errs, validator.ValidationError{Field: prefix + "bank_name", Message: "bank_name is required"})
	}
	if validator.IsEmpty(r.AccountName) {
		errs = append(errs, validator.ValidationError{Field: prefix + "account_name", Message: "account_name is required"})
	}
	if validator.IsEmpty(r.AccountNumber) {
		errs = append(errs, validator.ValidationError{Field: prefix + "account_number", Message: "account_number is required"})
	}
	if validator.IsEmpty(r.BranchName) {
		errs = append(errs, validator.ValidationError{Field: prefix + "branch_name", Message: "branch_name is required"})
	}
	return errs
}

func (r BankDetailsRequest) ToEntity() BankDetails {
	return BankDetails{
		BankName:      strings.TrimSpace(r.BankName),
		AccountName:   strings.TrimSpace(r.AccountName),
		AccountNumber: strings.TrimSpace(r.AccountNumber),
		BranchName:    strings.TrimSpace(r.BranchName),
		SwiftCode:     r.SwiftCode,
		BankCode:      r.BankCode,
	}
}

type CreateEmployeeRequest struct {
	FirstName         string              `json:"first_name"`
	LastName          string              `json:"last_name"`
	Email             string              `json:"email"`
	Position          string              `json:"position"`
	Department        string              `json:"department"`
	EmploymentType    string              `json:"employment_type"`
	EmploymentEndDate *string             `json:"employment_end_date,omitempty"`
	StartDate         string              `json:"start_date"`
	Salary            SalaryRequest       `json:"salary"`
	BankDetails       *BankDetailsRequest `json:"bank_details,omitempty"`
}

var employmentTypes = []string{
	string(EmploymentTypePermanent),
	string(EmploymentTypeContract),
	string(EmploymentTypeProbation),
	string(EmploymentTypeAttachment),
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FirstName) {
		errs = append(errs, validator.ValidationError{Field: "first_name", Message: "first_name is required"})
	}
	if validator.IsEmpty(r.LastName) {
		errs = append(errs, validator.ValidationError{Field: "last_name", Message: "last_name is required"})
	}
	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email address"})
	}
	if validator.IsEmpty(r.Position) {
		errs = append(errs, validator.ValidationError{Field: "position", Message: "position is required"})
	}
	if validator.IsEmpty(r.Department) {
		errs = append(errs, validator.ValidationError{Field: "department", Message: "department is required"})
	}
	if r.EmploymentType == "" {
		r.EmploymentType = string(EmploymentTypePermanent)
	}
	if !validator.IsInSlice(r.EmploymentType, employmentTypes) {
		errs = append(errs, validator.ValidationError{Field: "employment_type", Message: "employment_type must be one of permanent, contract, probation, attachment"})
	}
	if r.EmploymentType != string(EmploymentTypePermanent) {
		if r.EmploymentEndDate == nil {
			errs = append(errs, validator.ValidationError{Field: "employment_end_date", Message: "employment_end_date is required for non-permanent employees"})
		} else if _, ok := validator.IsValidDate(*r.EmploymentEndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "employment_end_date", Message: "employment_end_date must be in YYYY-MM-DD format"})
		}
	}
	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
	}

	if !r.Salary.Basic.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "salary.basic", Message: "basic salary must be positive"})
	}
	nonNegative := map[string]decimal.Decimal{
		"salary.allowances.housing":   r.Salary.Allowances.Housing,
		"salary.allowances.transport": r.Salary.Allowances.Transport,
		"salary.allowances.medical":   r.Salary.Allowances.Medical,
		"salary.allowances.other":     r.Salary.Allowances.Other,
		"salary.deductions.loans":     r.Salary.Deductions.Loans,
		"salary.deductions.other":     r.Salary.Deductions.Other,
	}
	for field, amount := range nonNegative {
		if amount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be non-negative"})
		}
	}

	if r.BankDetails != nil {
		errs = append(errs, r.BankDetails.validate("bank_details.")...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *CreateEmployeeRequest) Compensation() Compensation {
	return Compensation{
		Basic: r.Salary.Basic,
		Allowances: Allowances{
			Housing:   r.Salary.Allowances.Housing,
			Transport: r.Salary.Allowances.Transport,
			Medical:   r.Salary.Allowances.Medical,
			Other:     r.Salary.Allowances.Other,
		},
		Deductions: Deductions{
			Loans: r.Salary.Deductions.Loans,
			Other: r.Salary.Deductions.Other,
		},
	}
}

type UpdateBankDetailsRequest struct {
	EmployeeID string `json:"-"`
	BankDetailsRequest
}

func (r *UpdateBankDetailsRequest) Validate() error {
	errs := r.BankDetailsRequest.validate("")
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateStatusRequest struct {
	EmployeeID string `json:"-"`
	Status     string `json:"status"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Status != string(StatusActive) && r.Status != string(StatusInactive) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be 'active' or 'inactive'"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeFilter struct {
	Status     *string
	Department *string
	Search     *string
}

// ========== RESPONSE DTOs ==========

type SalaryResponse struct {
	Basic      decimal.Decimal   `json:"basic"`
	Allowances AllowancesRequest `json:"allowances"`
	Deductions DeductionsRequest `json:"deductions"`
}

type EmployeeResponse struct {
	ID                string              `json:"id"`
	EmployeeNumber    string              `json:"employee_number"`
	FirstName         string              `json:"first_name"`
	LastName          string              `json:"last_name"`
	Email             string              `json:"email"`
	Position          string              `json:"position"`
	Department        string              `json:"department"`
	EmploymentType    string              `json:"employment_type"`
	EmploymentEndDate *string             `json:"employment_end_date,omitempty"`
	StartDate         string              `json:"start_date"`
	Status            string              `json:"status"`
	Salary            SalaryResponse      `json:"salary"`
	BankDetails       *BankDetailsRequest `json:"bank_details,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

func ToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:             e.ID,
		EmployeeNumber: e.EmployeeNumber,
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		Email:          e.Email,
		Position:       e.Position,
		Department:     e.Department,
		EmploymentType: string(e.EmploymentType),
		StartDate:      e.StartDate.Format("2006-01-02"),
		Status:         string(e.Status),
		Salary: SalaryResponse{
			Basic: e.Compensation.Basic,
			Allowances: AllowancesRequest{
				Housing:   e.Compensation.Allowances.Housing,
				Transport: e.Compensation.Allowances.Transport,
				Medical:   e.Compensation.Allowances.Medical,
				Other:     e.Compensation.Allowances.Other,
			},
			Deductions: DeductionsRequest{
				Loans: e.Compensation.Deductions.Loans,
				Other: e.Compensation.Deductions.Other,
			},
		},
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
	if e.EmploymentEndDate != nil {
		end := e.EmploymentEndDate.Format("2006-01-02")
		resp.EmploymentEndDate = &end
	}
	if e.BankDetails != nil {
		resp.BankDetails = &BankDetailsRequest{
			BankName:      e.BankDetails.BankName,
			AccountName:   e.BankDetails.AccountName,
			AccountNumber: e.BankDetails.AccountNumber,
			BranchName:    e.BankDetails.BranchName,
			SwiftCode:     e.BankDetails.SwiftCode,
			BankCode:      e.BankDetails.BankCode,
		}
	}
	return resp
}
