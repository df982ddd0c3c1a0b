package disbursement

import "context"

// Transferer performs the bank transfer for a pending transaction. It returns
// false when the bank declined the transfer and an error when the attempt
// could not be made, for example when ctx expires.
type Transferer interface {
	Attempt(ctx context.Context, tx Transaction) (bool, error)
}
