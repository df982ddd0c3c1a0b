package payroll

import (
	"fmt"

	"github.com/stafma/stafma-backend-go/internal/domain/employee"
	"github.com/stafma/stafma-backend-go/internal/domain/payroll"
)

// Calculator turns a compensation structure into a payroll line. It has no
// side effects.
type Calculator struct {
	policy DeductionPolicy
}

func NewCalculator(policy DeductionPolicy) *Calculator {
	return &Calculator{policy: policy}
}

// Calculate returns the payroll line for comp. Net salary may be negative
// when deductions exceed gross; callers decide how to treat that.
func (c *Calculator) Calculate(comp employee.Compensation) (payroll.Line, error) {
	if err := checkCompensation(comp); err != nil {
		return payroll.Line{}, err
	}

	allowances := comp.Allowances.Total()
	gross := comp.Basic.Add(allowances)
	statutory := c.policy.Apply(gross)
	other := comp.Deductions.Total()
	total := statutory.Total().Add(other)

	return payroll.Line{
		BasicSalary: comp.Basic,
		Allowances:  allowances,
		GrossSalary: gross,
		Deductions: payroll.Deductions{
			PAYE:  statutory.PAYE,
			NHIF:  statutory.NHIF,
			NSSF:  statutory.NSSF,
			Other: other,
			Total: total,
		},
		NetSalary: gross.Sub(total),
	}, nil
}

func checkCompensation(comp employee.Compensation) error {
	if !comp.Basic.IsPositive() {
		return fmt.Errorf("%w: basic salary must be positive", payroll.ErrInvalidCompensation)
	}
	parts := []struct {
		name   string
		amount interface{ IsNegative() bool }
	}{
		{"housing allowance", comp.Allowances.Housing},
		{"transport allowance", comp.Allowances.Transport},
		{"medical allowance", comp.Allowances.Medical},
		{"other allowance", comp.Allowances.Other},
		{"loan deduction", comp.Deductions.Loans},
		{"other deduction", comp.Deductions.Other},
	}
	for _, p := range parts {
		if p.amount.IsNegative() {
			return fmt.Errorf("%w: %s must be non-negative", payroll.ErrInvalidCompensation, p.name)
		}
	}
	return nil
}
