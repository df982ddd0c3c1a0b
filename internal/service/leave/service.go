package leave

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/stafma/stafma-backend-go/internal/domain/employee"
	"github.com/stafma/stafma-backend-go/internal/domain/leave"
	"github.com/stafma/stafma-backend-go/internal/pkg/database"
	"github.com/stafma/stafma-backend-go/internal/pkg/validator"
)

type LeaveServiceImpl struct {
	transactor   database.Transactor
	leaveRepo    leave.LeaveRequestRepository
	employeeRepo employee.EmployeeRepository
	now          func() time.Time
}

func NewLeaveService(transactor database.Transactor, leaveRepo leave.LeaveRequestRepository, employeeRepo employee.EmployeeRepository) leave.LeaveService {
	return &LeaveServiceImpl{
		transactor:   transactor,
		leaveRepo:    leaveRepo,
		employeeRepo: employeeRepo,
		now:          time.Now,
	}
}

// CreateRequest stores a pending leave request. The overlap check and the
// insert run under a per-employee lock so two concurrent requests for the
// same days cannot both pass.
func (s *LeaveServiceImpl) CreateRequest(ctx context.Context, companyID string, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error) {
	start, end, err := req.Validate()
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !validator.IsValidUUID(req.EmployeeID) {
		return leave.LeaveRequestResponse{}, employee.ErrEmployeeNotFound
	}

	var created leave.LeaveRequest
	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.employeeRepo.GetByID(txCtx, companyID, req.EmployeeID); err != nil {
			return err
		}
		if err := s.leaveRepo.LockEmployee(txCtx, req.EmployeeID); err != nil {
			return fmt.Errorf("failed to lock employee leave: %w", err)
		}

		overlaps, err := s.leaveRepo.HasOverlap(txCtx, companyID, req.EmployeeID, start, end)
		if err != nil {
			return fmt.Errorf("failed to check leave overlap: %w", err)
		}
		if overlaps {
			return leave.ErrOverlappingLeave
		}

		created, err = s.leaveRepo.Create(txCtx, leave.LeaveRequest{
			CompanyID:  companyID,
			EmployeeID: req.EmployeeID,
			LeaveType:  leave.LeaveType(req.LeaveType),
			StartDate:  start,
			EndDate:    end,
			Reason:     strings.TrimSpace(req.Reason),
			Status:     leave.LeaveRequestStatusPending,
		})
		return err
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("Leave request created",
		"company_id", companyID,
		"employee_id", created.EmployeeID,
		"leave_request_id", created.ID,
		"days", created.TotalDays(),
	)
	return leave.ToResponse(created), nil
}

func (s *LeaveServiceImpl) GetRequest(ctx context.Context, companyID string, id string) (leave.LeaveRequestResponse, error) {
	req, err := s.leaveRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.ToResponse(req), nil
}

func (s *LeaveServiceImpl) ListEmployeeRequests(ctx context.Context, companyID string, employeeID string) ([]leave.LeaveRequestResponse, error) {
	if _, err := s.employeeRepo.GetByID(ctx, companyID, employeeID); err != nil {
		return nil, err
	}
	requests, err := s.leaveRepo.ListByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee leave requests: %w", err)
	}
	return leave.ToResponses(requests), nil
}

func (s *LeaveServiceImpl) ListCompanyRequests(ctx context.Context, companyID string, filter leave.LeaveRequestFilter) ([]leave.LeaveRequestResponse, error) {
	requests, err := s.leaveRepo.ListByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return leave.ToResponses(requests), nil
}

// UpdateStatus approves or rejects a pending request. Approval records the
// reviewer and the approval date.
func (s *LeaveServiceImpl) UpdateStatus(ctx context.Context, companyID string, req leave.UpdateLeaveStatusRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	update := leave.StatusUpdate{
		Status:   leave.LeaveRequestStatus(req.Status),
		Comments: req.Comments,
	}
	if update.Status == leave.LeaveRequestStatusApproved {
		now := s.now().UTC()
		update.ApprovedBy = req.ReviewedBy
		update.ApprovalDate = &now
	}

	updated, err := s.leaveRepo.UpdateStatus(ctx, companyID, req.ID, update)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("Leave request reviewed",
		"company_id", companyID,
		"leave_request_id", updated.ID,
		"status", updated.Status,
	)
	return leave.ToResponse(updated), nil
}
