package disbursement

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// SourceType tells what a transaction pays out.
type SourceType string

const (
	SourcePayroll SourceType = "payroll"
	SourceAdvance SourceType = "advance"
)

// Account is a bank account snapshot taken when the transaction is created.
type Account struct {
	BankName      string
	AccountName   string
	AccountNumber string
	BranchName    string
	SwiftCode     *string
	BankCode      *string
}

// Transaction is one disbursement attempt.
type Transaction struct {
	ID           string
	CompanyID    string
	SourceType   SourceType
	SourceID     string
	EmployeeID   string
	Amount       decimal.Decimal
	From         Account
	To           Account
	Status       Status
	Reference    string
	ErrorMessage *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
