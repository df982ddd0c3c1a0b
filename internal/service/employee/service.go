package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/stafma/stafma-backend-go/internal/domain/company"
	"github.com/stafma/stafma-backend-go/internal/domain/employee"
	"github.com/stafma/stafma-backend-go/internal/pkg/database"
	"github.com/stafma/stafma-backend-go/internal/pkg/validator"
)

const (
	employeeNumberPrefix = "STAFMA"
	maxNumberAttempts    = 3
)

type EmployeeServiceImpl struct {
	transactor   database.Transactor
	employeeRepo employee.EmployeeRepository
	companyRepo  company.CompanyRepository
}

func NewEmployeeService(
	transactor database.Transactor,
	employeeRepo employee.EmployeeRepository,
	companyRepo company.CompanyRepository,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		transactor:   transactor,
		employeeRepo: employeeRepo,
		companyRepo:  companyRepo,
	}
}

// FormatEmployeeNumber renders the n-th employee number of a company.
func FormatEmployeeNumber(n int) string {
	return fmt.Sprintf("%s%04d", employeeNumberPrefix, n)
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, companyID string, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if _, err := s.companyRepo.GetByID(ctx, companyID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	startDate, _ := validator.IsValidDate(req.StartDate)
	newEmployee := employee.Employee{
		CompanyID:      companyID,
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Position:       strings.TrimSpace(req.Position),
		Department:     strings.TrimSpace(req.Department),
		EmploymentType: employee.EmploymentType(req.EmploymentType),
		StartDate:      startDate,
		Status:         employee.StatusActive,
		Compensation:   req.Compensation(),
	}
	if newEmployee.EmploymentType != employee.EmploymentTypePermanent && req.EmploymentEndDate != nil {
		end, _ := validator.IsValidDate(*req.EmploymentEndDate)
		newEmployee.EmploymentEndDate = &end
	}
	if req.BankDetails != nil {
		details := req.BankDetails.ToEntity()
		newEmployee.BankDetails = &details
	}

	// Numbers follow the roster size; a concurrent insert can take the same
	// number, so the count is re-read and the insert retried.
	var created employee.Employee
	var err error
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
			count, err := s.employeeRepo.CountByCompany(txCtx, companyID)
			if err != nil {
				return fmt.Errorf("failed to count employees: %w", err)
			}
			newEmployee.EmployeeNumber = FormatEmployeeNumber(count + 1)
			created, err = s.employeeRepo.Create(txCtx, newEmployee)
			return err
		})
		if !errors.Is(err, employee.ErrEmployeeNumberExists) {
			break
		}
	}
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("Employee created",
		"company_id", companyID,
		"employee_id", created.ID,
		"employee_number", created.EmployeeNumber,
	)
	return employee.ToResponse(created), nil
}

// GetByID implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetByID(ctx context.Context, companyID string, id string) (employee.EmployeeResponse, error) {
	if !validator.IsValidUUID(id) {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}
	emp, err := s.employeeRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(emp), nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, companyID string, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.List(ctx, companyID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	result := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		result = append(result, employee.ToResponse(e))
	}
	return result, nil
}

// UpdateBankDetails implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateBankDetails(ctx context.Context, companyID string, req employee.UpdateBankDetailsRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !validator.IsValidUUID(req.EmployeeID) {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}

	if err := s.employeeRepo.UpdateBankDetails(ctx, companyID, req.EmployeeID, req.BankDetailsRequest.ToEntity()); err != nil {
		return employee.EmployeeResponse{}, err
	}
	return s.GetByID(ctx, companyID, req.EmployeeID)
}

// UpdateStatus implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateStatus(ctx context.Context, companyID string, req employee.UpdateStatusRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !validator.IsValidUUID(req.EmployeeID) {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}

	emp, err := s.employeeRepo.GetByID(ctx, companyID, req.EmployeeID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	target := employee.Status(req.Status)
	if emp.Status == target {
		if target == employee.StatusActive {
			return employee.EmployeeResponse{}, employee.ErrEmployeeAlreadyActive
		}
		return employee.EmployeeResponse{}, employee.ErrEmployeeAlreadyInactive
	}

	if err := s.employeeRepo.UpdateStatus(ctx, companyID, emp.ID, target); err != nil {
		return employee.EmployeeResponse{}, err
	}
	emp.Status = target
	emp.UpdatedAt = time.Now().UTC()

	slog.Info("Employee status changed", "company_id", companyID, "employee_id", emp.ID, "status", target)
	return employee.ToResponse(emp), nil
}
