package disbursement

import (
	"context"
	"time"
)

type DisbursementService interface {
	// Disburse records and performs one transfer. The returned transaction is
	// always completed or failed; a declined transfer is not an error.
	Disburse(ctx context.Context, req DisburseRequest) (Transaction, error)
	GetTransactionStatus(ctx context.Context, companyID string, reference string) (TransactionStatusResponse, error)
	ListBySource(ctx context.Context, companyID string, sourceID string) ([]TransactionResponse, error)
	FailStalePending(ctx context.Context, olderThan time.Time) (int, error)
}
