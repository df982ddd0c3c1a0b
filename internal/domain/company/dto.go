package company

import (
	"time"

	"github.com/stafma/stafma-backend-go/internal/pkg/validator"
)

type CompanyResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"company_name"`
	Email            *string   `json:"company_email,omitempty"`
	RegistrationDate string    `json:"registration_date"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type CreateCompanyRequest struct {
	Name             string  `json:"company_name"`
	Email            *string `json:"company_email,omitempty"`
	RegistrationDate *string `json:"registration_date,omitempty"` // YYYY-MM-DD, defaults to today
}

func (r *CreateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "company_name",
			Message: "company_name is required",
		})
	}
	if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "company_name",
			Message: "company_name must not exceed 255 characters",
		})
	}
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "company_email",
			Message: "company_email must be a valid email address",
		})
	}
	if r.RegistrationDate != nil {
		if _, ok := validator.IsValidDate(*r.RegistrationDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "registration_date",
				Message: "registration_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
