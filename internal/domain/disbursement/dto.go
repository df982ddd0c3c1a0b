package disbursement

import (
	"time"

	"github.com/shopspring/decimal"
)

type DisburseRequest struct {
	CompanyID  string
	SourceType SourceType
	SourceID   string
	EmployeeID string
	Amount     decimal.Decimal
	From       Account
	To         Account
}

type TransactionStatusResponse struct {
	Reference    string  `json:"reference"`
	Status       string  `json:"status"`
	ErrorMessage *string `json:"error_message,omitempty"`
}

type AccountResponse struct {
	BankName      string  `json:"bank_name"`
	AccountName   string  `json:"account_name"`
	AccountNumber string  `json:"account_number"`
	BranchName    string  `json:"branch_name,omitempty"`
	SwiftCode     *string `json:"swift_code,omitempty"`
	BankCode      *string `json:"bank_code,omitempty"`
}

type TransactionResponse struct {
	ID           string          `json:"id"`
	SourceType   string          `json:"source_type"`
	SourceID     string          `json:"source_id"`
	EmployeeID   string          `json:"employee_id"`
	Amount       decimal.Decimal `json:"amount"`
	From         AccountResponse `json:"from_account"`
	To           AccountResponse `json:"to_account"`
	Status       string          `json:"status"`
	Reference    string          `json:"reference"`
	ErrorMessage *string         `json:"error_message,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

func toAccountResponse(a Account) AccountResponse {
	return AccountResponse{
		BankName:      a.BankName,
		AccountName:   a.AccountName,
		AccountNumber: a.AccountNumber,
		BranchName:    a.BranchName,
		SwiftCode:     a.SwiftCode,
		BankCode:      a.BankCode,
	}
}

func ToTransactionResponse(t Transaction) TransactionResponse {
	return TransactionResponse{
		ID:           t.ID,
		SourceType:   string(t.SourceType),
		SourceID:     t.SourceID,
		EmployeeID:   t.EmployeeID,
		Amount:       t.Amount,
		From:         toAccountResponse(t.From),
		To:           toAccountResponse(t.To),
		Status:       string(t.Status),
		Reference:    t.Reference,
		ErrorMessage: t.ErrorMessage,
		CreatedAt:    t.CreatedAt,
	}
}
