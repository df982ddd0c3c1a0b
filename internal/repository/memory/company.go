package memory

import (
	"context"

	"github.com/stafma/stafma-backend-go/internal/domain/company"
)

type companyRepository struct {
	s *Store
}

func NewCompanyRepository(s *Store) company.CompanyRepository {
	return &companyRepository{s: s}
}

func (r *companyRepository) Create(ctx context.Context, newCompany company.Company) (company.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.timestamp()
	if newCompany.ID == "" {
		newCompany.ID = newID()
	}
	if newCompany.RegistrationDate.IsZero() {
		newCompany.RegistrationDate = now
	}
	newCompany.CreatedAt = now
	newCompany.UpdatedAt = now
	r.s.companies[newCompany.ID] = newCompany
	return newCompany, nil
}

func (r *companyRepository) GetByID(ctx context.Context, id string) (company.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.companies[id]
	if !ok {
		return company.Company{}, company.ErrCompanyNotFound
	}
	return c, nil
}
