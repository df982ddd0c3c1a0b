package advance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusDisbursed Status = "disbursed"
	StatusFailed    Status = "failed"
)

type RepaymentStatus string

const (
	RepaymentPending   RepaymentStatus = "pending"
	RepaymentPartial   RepaymentStatus = "partial"
	RepaymentCompleted RepaymentStatus = "completed"
)

// SalaryAdvance is a fee-bearing advance requested for a group of employees.
type SalaryAdvance struct {
	ID                   string
	CompanyID            string
	EmployeeIDs          []string
	Amount               decimal.Decimal
	Fee                  decimal.Decimal
	TotalAmount          decimal.Decimal
	Reason               string
	Status               Status
	RequestDate          time.Time
	RepaymentDate        time.Time
	RepaymentStatus      RepaymentStatus
	ApprovedBy           *string
	ApprovalDate         *time.Time
	Comments             *string
	TransactionReference *string
	DisbursementDate     *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// StatusUpdate carries the fields written with a status transition. Nil
// fields are left unchanged.
type StatusUpdate struct {
	Status               Status
	ApprovedBy           *string
	ApprovalDate         *time.Time
	Comments             *string
	TransactionReference *string
	DisbursementDate     *time.Time
}
