package employee

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type EmploymentType string

const (
	EmploymentTypePermanent  EmploymentType = "permanent"
	EmploymentTypeContract   EmploymentType = "contract"
	EmploymentTypeProbation  EmploymentType = "probation"
	EmploymentTypeAttachment EmploymentType = "attachment"
)

// Allowances are the fixed allowance categories paid on top of basic salary.
type Allowances struct {
	Housing   decimal.Decimal
	Transport decimal.Decimal
	Medical   decimal.Decimal
	Other     decimal.Decimal
}

func (a Allowances) Total() decimal.Decimal {
	return a.Housing.Add(a.Transport).Add(a.Medical).Add(a.Other)
}

// Deductions are employee-specific deductions, separate from statutory ones.
type Deductions struct {
	Loans decimal.Decimal
	Other decimal.Decimal
}

func (d Deductions) Total() decimal.Decimal {
	return d.Loans.Add(d.Other)
}

type Compensation struct {
	Basic      decimal.Decimal
	Allowances Allowances
	Deductions Deductions
}

type BankDetails struct {
	BankName      string
	AccountName   string
	AccountNumber string
	BranchName    string
	SwiftCode     *string
	BankCode      *string
}

// IsComplete reports whether a transfer can be addressed to these details.
func (b BankDetails) IsComplete() bool {
	return strings.TrimSpace(b.BankName) != "" &&
		strings.TrimSpace(b.AccountName) != "" &&
		strings.TrimSpace(b.AccountNumber) != ""
}

type Employee struct {
	ID                string
	CompanyID         string
	EmployeeNumber    string
	FirstName         string
	LastName          string
	Email             string
	Position          string
	Department        string
	EmploymentType    EmploymentType
	EmploymentEndDate *time.Time
	StartDate         time.Time
	Status            Status
	Compensation      Compensation
	BankDetails       *BankDetails
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// HasBankDetails reports whether the employee can receive a disbursement.
func (e Employee) HasBankDetails() bool {
	return e.BankDetails != nil && e.BankDetails.IsComplete()
}
