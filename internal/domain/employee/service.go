package employee

import "context"

type EmployeeService interface {
	Create(ctx context.Context, companyID string, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetByID(ctx context.Context, companyID string, id string) (EmployeeResponse, error)
	List(ctx context.Context, companyID string, filter EmployeeFilter) ([]EmployeeResponse, error)
	UpdateBankDetails(ctx context.Context, companyID string, req UpdateBankDetailsRequest) (EmployeeResponse, error)
	UpdateStatus(ctx context.Context, companyID string, req UpdateStatusRequest) (EmployeeResponse, error)
}
