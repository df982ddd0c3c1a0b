package company

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/stafma/stafma-backend-go/internal/domain/company"
	"github.com/stafma/stafma-backend-go/internal/pkg/validator"
)

type CompanyServiceImpl struct {
	company.CompanyRepository
	now func() time.Time
}

func NewCompanyService(companyRepository company.CompanyRepository) company.CompanyService {
	return &CompanyServiceImpl{
		CompanyRepository: companyRepository,
		now:               time.Now,
	}
}

// Create implements company.CompanyService.
// The registration date defaults to today and bounds the earliest payroll period.
func (c *CompanyServiceImpl) Create(ctx context.Context, req company.CreateCompanyRequest) (company.CompanyResponse, error) {
	if err := req.Validate(); err != nil {
		return company.CompanyResponse{}, err
	}

	registered := c.now().UTC()
	if req.RegistrationDate != nil {
		registered, _ = validator.IsValidDate(*req.RegistrationDate)
	}

	newCompany, err := c.CompanyRepository.Create(ctx, company.Company{
		Name:             strings.TrimSpace(req.Name),
		Email:            req.Email,
		RegistrationDate: time.Date(registered.Year(), registered.Month(), registered.Day(), 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		return company.CompanyResponse{}, fmt.Errorf("failed to create company: %w", err)
	}

	slog.Info("Company registered", "company_id", newCompany.ID, "registration_date", newCompany.RegistrationDate.Format("2006-01-02"))
	return toResponse(newCompany), nil
}

// GetByID implements company.CompanyService.
func (c *CompanyServiceImpl) GetByID(ctx context.Context, companyID string) (company.CompanyResponse, error) {
	if !validator.IsValidUUID(companyID) {
		return company.CompanyResponse{}, company.ErrCompanyNotFound
	}
	found, err := c.CompanyRepository.GetByID(ctx, companyID)
	if err != nil {
		return company.CompanyResponse{}, err
	}
	return toResponse(found), nil
}

func toResponse(c company.Company) company.CompanyResponse {
	return company.CompanyResponse{
		ID:               c.ID,
		Name:             c.Name,
		Email:            c.Email,
		RegistrationDate: c.RegistrationDate.Format("2006-01-02"),
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}
