package payroll

import "context"

type PayrollService interface {
	ProcessPayroll(ctx context.Context, companyID string, req ProcessPayrollRequest) (ProcessPayrollResponse, error)
	// ProcessSingleEmployee recomputes one employee's record for a period,
	// overwriting any existing record. It skips the once-per-period check.
	ProcessSingleEmployee(ctx context.Context, companyID string, req ProcessEmployeeRequest) (PayrollRecordResponse, error)
	CheckProcessed(ctx context.Context, companyID string, month, year int) (CheckProcessedResponse, error)
	GetHistory(ctx context.Context, companyID string, filter PayrollFilter) ([]PayrollRecordResponse, error)
	GetEmployeeHistory(ctx context.Context, companyID string, employeeID string) ([]PayrollRecordResponse, error)
	GetSummary(ctx context.Context, companyID string, month, year int) (PayrollSummaryResponse, error)
	GetPayslip(ctx context.Context, companyID string, recordID string) (PayslipFile, error)
}
