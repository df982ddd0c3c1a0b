package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/stafma/stafma-backend-go/internal/domain/employee"
)

type employeeRepository struct {
	s *Store
}

func NewEmployeeRepository(s *Store) employee.EmployeeRepository {
	return &employeeRepository{s: s}
}

func (r *employeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, e := range r.s.employees {
		if e.CompanyID != newEmployee.CompanyID {
			continue
		}
		if e.EmployeeNumber == newEmployee.EmployeeNumber {
			return employee.Employee{}, employee.ErrEmployeeNumberExists
		}
		if strings.EqualFold(e.Email, newEmployee.Email) {
			return employee.Employee{}, employee.ErrEmailExists
		}
	}

	now := r.s.timestamp()
	if newEmployee.ID == "" {
		newEmployee.ID = newID()
	}
	if newEmployee.Status == "" {
		newEmployee.Status = employee.StatusActive
	}
	newEmployee.CreatedAt = now
	newEmployee.UpdatedAt = now
	r.s.employees[newEmployee.ID] = newEmployee
	return newEmployee, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, companyID string, id string) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.employees[id]
	if !ok || e.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *employeeRepository) GetByIDs(ctx context.Context, companyID string, ids []string) ([]employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]employee.Employee, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if e, ok := r.s.employees[id]; ok && e.CompanyID == companyID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *employeeRepository) List(ctx context.Context, companyID string, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var result []employee.Employee
	for _, e := range r.s.employees {
		if e.CompanyID != companyID {
			continue
		}
		if filter.Status != nil && string(e.Status) != *filter.Status {
			continue
		}
		if filter.Department != nil && !strings.EqualFold(e.Department, *filter.Department) {
			continue
		}
		if filter.Search != nil {
			q := strings.ToLower(*filter.Search)
			if !strings.Contains(strings.ToLower(e.FullName()), q) &&
				!strings.Contains(strings.ToLower(e.Email), q) &&
				!strings.Contains(strings.ToLower(e.EmployeeNumber), q) {
				continue
			}
		}
		result = append(result, e)
	}
	sortByEmployeeNumber(result)
	return result, nil
}

func (r *employeeRepository) ListActive(ctx context.Context, companyID string) ([]employee.Employee, error) {
	active := string(employee.StatusActive)
	return r.List(ctx, companyID, employee.EmployeeFilter{Status: &active})
}

func (r *employeeRepository) CountByCompany(ctx context.Context, companyID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, e := range r.s.employees {
		if e.CompanyID == companyID {
			count++
		}
	}
	return count, nil
}

func (r *employeeRepository) UpdateBankDetails(ctx context.Context, companyID string, id string, details employee.BankDetails) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.employees[id]
	if !ok || e.CompanyID != companyID {
		return employee.ErrEmployeeNotFound
	}
	e.BankDetails = &details
	e.UpdatedAt = r.s.timestamp()
	r.s.employees[id] = e
	return nil
}

func (r *employeeRepository) UpdateStatus(ctx context.Context, companyID string, id string, status employee.Status) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.employees[id]
	if !ok || e.CompanyID != companyID {
		return employee.ErrEmployeeNotFound
	}
	e.Status = status
	e.UpdatedAt = r.s.timestamp()
	r.s.employees[id] = e
	return nil
}

func sortByEmployeeNumber(employees []employee.Employee) {
	sort.Slice(employees, func(i, j int) bool {
		return employees[i].EmployeeNumber < employees[j].EmployeeNumber
	})
}
