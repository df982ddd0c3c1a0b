package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/stafma/stafma-backend-go/internal/domain/advance"
)

type advanceRepository struct {
	s *Store
}

func NewAdvanceRepository(s *Store) advance.AdvanceRepository {
	return &advanceRepository{s: s}
}

func (r *advanceRepository) Create(ctx context.Context, a advance.SalaryAdvance) (advance.SalaryAdvance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.timestamp()
	a.ID = newID()
	a.EmployeeIDs = slices.Clone(a.EmployeeIDs)
	a.CreatedAt = now
	a.UpdatedAt = now
	r.s.advances[a.ID] = a
	return clone(a), nil
}

func (r *advanceRepository) GetByID(ctx context.Context, companyID string, id string) (advance.SalaryAdvance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.advances[id]
	if !ok || a.CompanyID != companyID {
		return advance.SalaryAdvance{}, advance.ErrAdvanceNotFound
	}
	return clone(a), nil
}

func (r *advanceRepository) List(ctx context.Context, companyID string) ([]advance.SalaryAdvance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var result []advance.SalaryAdvance
	for _, a := range r.s.advances {
		if a.CompanyID == companyID {
			result = append(result, clone(a))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].RequestDate.After(result[j].RequestDate)
	})
	return result, nil
}

func (r *advanceRepository) UpdateStatus(ctx context.Context, companyID string, id string, from advance.Status, update advance.StatusUpdate) (advance.SalaryAdvance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.advances[id]
	if !ok || a.CompanyID != companyID {
		return advance.SalaryAdvance{}, advance.ErrAdvanceNotFound
	}
	if a.Status != from {
		return advance.SalaryAdvance{}, advance.ErrInvalidStatusTransition
	}

	a.Status = update.Status
	if update.ApprovedBy != nil {
		a.ApprovedBy = update.ApprovedBy
	}
	if update.ApprovalDate != nil {
		a.ApprovalDate = update.ApprovalDate
	}
	if update.Comments != nil {
		a.Comments = update.Comments
	}
	if update.TransactionReference != nil {
		a.TransactionReference = update.TransactionReference
	}
	if update.DisbursementDate != nil {
		a.DisbursementDate = update.DisbursementDate
	}
	a.UpdatedAt = r.s.timestamp()
	r.s.advances[id] = a
	return clone(a), nil
}

func clone(a advance.SalaryAdvance) advance.SalaryAdvance {
	a.EmployeeIDs = slices.Clone(a.EmployeeIDs)
	return a
}
