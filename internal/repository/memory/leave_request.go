package memory

import (
	"context"
	"sort"
	"time"

	"github.com/stafma/stafma-backend-go/internal/domain/leave"
)

type leaveRequestRepository struct {
	s *Store
}

func NewLeaveRequestRepository(s *Store) leave.LeaveRequestRepository {
	return &leaveRequestRepository{s: s}
}

func (r *leaveRequestRepository) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.timestamp()
	req.ID = newID()
	if req.Status == "" {
		req.Status = leave.LeaveRequestStatusPending
	}
	req.CreatedAt = now
	req.UpdatedAt = now
	r.s.leaves[req.ID] = req
	return r.joinLocked(req), nil
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, companyID string, id string) (leave.LeaveRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	req, ok := r.s.leaves[id]
	if !ok || req.CompanyID != companyID {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return r.joinLocked(req), nil
}

func (r *leaveRequestRepository) ListByEmployee(ctx context.Context, companyID string, employeeID string) ([]leave.LeaveRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var result []leave.LeaveRequest
	for _, req := range r.s.leaves {
		if req.CompanyID == companyID && req.EmployeeID == employeeID {
			result = append(result, r.joinLocked(req))
		}
	}
	sortByStartDesc(result)
	return result, nil
}

func (r *leaveRequestRepository) ListByCompany(ctx context.Context, companyID string, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var result []leave.LeaveRequest
	for _, req := range r.s.leaves {
		if req.CompanyID != companyID {
			continue
		}
		if filter.Status != nil && string(req.Status) != *filter.Status {
			continue
		}
		result = append(result, r.joinLocked(req))
	}
	sortByStartDesc(result)
	return result, nil
}

func (r *leaveRequestRepository) HasOverlap(ctx context.Context, companyID string, employeeID string, start, end time.Time) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, req := range r.s.leaves {
		if req.CompanyID != companyID || req.EmployeeID != employeeID {
			continue
		}
		if req.Status == leave.LeaveRequestStatusRejected {
			continue
		}
		if req.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}

// LockEmployee is a no-op; WithinTransaction already serialises writers.
func (r *leaveRequestRepository) LockEmployee(ctx context.Context, employeeID string) error {
	return nil
}

func (r *leaveRequestRepository) UpdateStatus(ctx context.Context, companyID string, id string, update leave.StatusUpdate) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req, ok := r.s.leaves[id]
	if !ok || req.CompanyID != companyID {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if req.Status != leave.LeaveRequestStatusPending {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}
	req.Status = update.Status
	req.ApprovedBy = update.ApprovedBy
	req.ApprovalDate = update.ApprovalDate
	req.Comments = update.Comments
	req.UpdatedAt = r.s.timestamp()
	r.s.leaves[id] = req
	return r.joinLocked(req), nil
}

func (r *leaveRequestRepository) joinLocked(req leave.LeaveRequest) leave.LeaveRequest {
	if e, ok := r.s.employees[req.EmployeeID]; ok {
		name := e.FullName()
		req.EmployeeName = &name
	}
	return req
}

func sortByStartDesc(reqs []leave.LeaveRequest) {
	sort.Slice(reqs, func(i, j int) bool {
		return reqs[i].StartDate.After(reqs[j].StartDate)
	})
}
