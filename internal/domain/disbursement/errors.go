package disbursement

import "errors"

var (
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrTransactionNotPending  = errors.New("transaction is no longer pending")
	ErrReferenceExists        = errors.New("transaction reference already exists")
	ErrInvalidAmount          = errors.New("disbursement amount must be positive")
	ErrMissingDestination     = errors.New("destination bank details are incomplete")
	ErrTransferFailed         = errors.New("Bank transfer simulation failed")
	ErrTransferTimedOut       = errors.New("bank transfer timed out")
	ErrTransferNeverCompleted = errors.New("transfer did not complete")
)
