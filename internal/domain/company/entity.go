package company

import "time"

// Company is the tenant that owns employees, payroll records and leave data.
type Company struct {
	ID               string
	Name             string
	Email            *string
	RegistrationDate time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RegistrationMonth returns the first day of the month the company registered in.
func (c Company) RegistrationMonth() time.Time {
	y, m, _ := c.RegistrationDate.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}
