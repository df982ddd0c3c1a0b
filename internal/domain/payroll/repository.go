package payroll

import "context"

// PayrollRepository defines data access methods for payroll.
// All methods include companyID parameter to prevent cross-company data access attacks.
type PayrollRepository interface {
	// Runs
	// ClaimPeriod atomically records a full run for the period. It returns
	// ErrPeriodAlreadyClaimed when another run holds the period.
	ClaimPeriod(ctx context.Context, run PayrollRun) (PayrollRun, error)
	GetRun(ctx context.Context, companyID string, month, year int) (PayrollRun, error)
	CheckProcessed(ctx context.Context, companyID string, month, year int) (ProcessedStatus, error)

	// Records
	CreateRecord(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	UpsertRecord(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	GetRecordByID(ctx context.Context, companyID string, id string) (PayrollRecord, error)
	ListRecords(ctx context.Context, companyID string, filter PayrollFilter) ([]PayrollRecord, error)

	// Aggregations
	GetSummary(ctx context.Context, companyID string, month, year int) (PayrollSummaryResponse, error)
}
