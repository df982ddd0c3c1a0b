package employee

import "context"

// EmployeeRepository is the tenant-scoped employee roster store.
// Every method takes companyID so one tenant can never read another's roster.
type EmployeeRepository interface {
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	GetByID(ctx context.Context, companyID string, id string) (Employee, error)
	GetByIDs(ctx context.Context, companyID string, ids []string) ([]Employee, error)
	List(ctx context.Context, companyID string, filter EmployeeFilter) ([]Employee, error)
	// ListActive returns active employees ordered by employee number.
	ListActive(ctx context.Context, companyID string) ([]Employee, error)
	CountByCompany(ctx context.Context, companyID string) (int, error)
	UpdateBankDetails(ctx context.Context, companyID string, id string, details BankDetails) error
	UpdateStatus(ctx context.Context, companyID string, id string, status Status) error
}
