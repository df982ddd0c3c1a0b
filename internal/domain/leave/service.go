package leave

import "context"

type LeaveService interface {
	CreateRequest(ctx context.Context, companyID string, req CreateLeaveRequest) (LeaveRequestResponse, error)
	GetRequest(ctx context.Context, companyID string, id string) (LeaveRequestResponse, error)
	ListEmployeeRequests(ctx context.Context, companyID string, employeeID string) ([]LeaveRequestResponse, error)
	ListCompanyRequests(ctx context.Context, companyID string, filter LeaveRequestFilter) ([]LeaveRequestResponse, error)
	UpdateStatus(ctx context.Context, companyID string, req UpdateLeaveStatusRequest) (LeaveRequestResponse, error)
}
