package advance

import "context"

type AdvanceRepository interface {
	Create(ctx context.Context, advance SalaryAdvance) (SalaryAdvance, error)
	GetByID(ctx context.Context, companyID string, id string) (SalaryAdvance, error)
	// List returns the company's advances newest first.
	List(ctx context.Context, companyID string) ([]SalaryAdvance, error)
	// UpdateStatus applies update only while the advance is in status from.
	// It returns ErrInvalidStatusTransition otherwise.
	UpdateStatus(ctx context.Context, companyID string, id string, from Status, update StatusUpdate) (SalaryAdvance, error)
}
