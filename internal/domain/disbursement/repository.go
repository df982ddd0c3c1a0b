package disbursement

import (
	"context"
	"time"
)

// TransactionRepository stores disbursement attempts. Status changes only
// move a transaction out of pending.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction) (Transaction, error)
	// Resolve moves a pending transaction to a terminal status. It returns
	// ErrTransactionNotPending when the transaction was already resolved.
	Resolve(ctx context.Context, id string, status Status, errorMessage *string) (Transaction, error)
	GetByReference(ctx context.Context, companyID string, reference string) (Transaction, error)
	ListBySource(ctx context.Context, companyID string, sourceID string) ([]Transaction, error)
	// FailStalePending fails every transaction still pending that was created before olderThan.
	FailStalePending(ctx context.Context, olderThan time.Time, errorMessage string) ([]Transaction, error)
}
