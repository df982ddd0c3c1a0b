package leave

import (
	"context"
	"time"
)

type LeaveRequestRepository interface {
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, companyID string, id string) (LeaveRequest, error)
	ListByEmployee(ctx context.Context, companyID string, employeeID string) ([]LeaveRequest, error)
	ListByCompany(ctx context.Context, companyID string, filter LeaveRequestFilter) ([]LeaveRequest, error)
	// HasOverlap reports whether a non-rejected request of the employee
	// shares a day with [start, end].
	HasOverlap(ctx context.Context, companyID string, employeeID string, start, end time.Time) (bool, error)
	// LockEmployee serialises leave writes for one employee within the
	// surrounding transaction.
	LockEmployee(ctx context.Context, employeeID string) error
	// UpdateStatus applies update only while the request is pending.
	UpdateStatus(ctx context.Context, companyID string, id string, update StatusUpdate) (LeaveRequest, error)
}
