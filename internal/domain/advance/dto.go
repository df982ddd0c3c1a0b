package advance

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type CreateAdvanceRequest struct {
	EmployeeIDs []string        `json:"employee_ids"`
	Amount      decimal.Decimal `json:"amount"`
	Reason      string          `json:"reason"`
}

// Validate checks the request in the order a client sees the errors.
func (r *CreateAdvanceRequest) Validate() error {
	if len(r.EmployeeIDs) == 0 {
		return ErrNoEmployeesSelected
	}
	if !r.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(r.Reason) == "" {
		return ErrReasonRequired
	}
	return nil
}

// ReviewAdvanceRequest approves or rejects a pending advance.
type ReviewAdvanceRequest struct {
	AdvanceID  string  `json:"-"`
	ReviewedBy *string `json:"-"`
	Status     string  `json:"status"`
	Comments   *string `json:"comments,omitempty"`
}

func (r *ReviewAdvanceRequest) Validate() error {
	if r.Status != string(StatusApproved) && r.Status != string(StatusRejected) {
		return ErrInvalidStatus
	}
	return nil
}

type AdvanceResponse struct {
	ID                   string          `json:"id"`
	EmployeeIDs          []string        `json:"employee_ids"`
	Amount               decimal.Decimal `json:"amount"`
	Fee                  decimal.Decimal `json:"fee"`
	TotalAmount          decimal.Decimal `json:"total_amount"`
	Reason               string          `json:"reason"`
	Status               string          `json:"status"`
	RequestDate          time.Time       `json:"request_date"`
	RepaymentDate        time.Time       `json:"repayment_date"`
	RepaymentStatus      string          `json:"repayment_status"`
	ApprovedBy           *string         `json:"approved_by,omitempty"`
	ApprovalDate         *time.Time      `json:"approval_date,omitempty"`
	Comments             *string         `json:"comments,omitempty"`
	TransactionReference *string         `json:"transaction_reference,omitempty"`
	DisbursementDate     *time.Time      `json:"disbursement_date,omitempty"`
}

func ToResponse(a SalaryAdvance) AdvanceResponse {
	return AdvanceResponse{
		ID:                   a.ID,
		EmployeeIDs:          a.EmployeeIDs,
		Amount:               a.Amount,
		Fee:                  a.Fee,
		TotalAmount:          a.TotalAmount,
		Reason:               a.Reason,
		Status:               string(a.Status),
		RequestDate:          a.RequestDate,
		RepaymentDate:        a.RepaymentDate,
		RepaymentStatus:      string(a.RepaymentStatus),
		ApprovedBy:           a.ApprovedBy,
		ApprovalDate:         a.ApprovalDate,
		Comments:             a.Comments,
		TransactionReference: a.TransactionReference,
		DisbursementDate:     a.DisbursementDate,
	}
}
