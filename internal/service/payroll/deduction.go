package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/stafma/stafma-backend-go/internal/domain/payroll"
)

// TaxBracket applies Rate to the whole gross amount when gross <= Ceiling.
// A nil Ceiling matches every amount.
type TaxBracket struct {
	Ceiling *decimal.Decimal
	Rate    decimal.Decimal
}

// HealthBand charges a flat Amount when gross <= Ceiling.
// A nil Ceiling matches every amount.
type HealthBand struct {
	Ceiling *decimal.Decimal
	Amount  decimal.Decimal
}

// DeductionPolicy computes statutory deductions from gross salary.
//
// Tax brackets are flat, not marginal: the first bracket whose ceiling covers
// the gross applies its rate to the entire gross. Both tables are evaluated
// in order, so they must be sorted by ascending ceiling and end with an
// open bracket.
type DeductionPolicy struct {
	TaxBrackets []TaxBracket
	HealthBands []HealthBand
	PensionRate decimal.Decimal
	PensionCap  decimal.Decimal
}

func ceiling(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// DefaultTaxBrackets is the PAYE table.
func DefaultTaxBrackets() []TaxBracket {
	return []TaxBracket{
		{Ceiling: ceiling(24000), Rate: decimal.Zero},
		{Ceiling: ceiling(32333), Rate: decimal.RequireFromString("0.10")},
		{Ceiling: ceiling(50000), Rate: decimal.RequireFromString("0.15")},
		{Ceiling: nil, Rate: decimal.RequireFromString("0.20")},
	}
}

// DefaultHealthBands is the NHIF table.
func DefaultHealthBands() []HealthBand {
	return []HealthBand{
		{Ceiling: ceiling(5999), Amount: decimal.NewFromInt(150)},
		{Ceiling: ceiling(7999), Amount: decimal.NewFromInt(300)},
		{Ceiling: ceiling(11999), Amount: decimal.NewFromInt(400)},
		{Ceiling: ceiling(14999), Amount: decimal.NewFromInt(500)},
		{Ceiling: nil, Amount: decimal.NewFromInt(600)},
	}
}

// NewDeductionPolicy builds the default tables with the given pension settings.
func NewDeductionPolicy(pensionRate, pensionCap decimal.Decimal) DeductionPolicy {
	return DeductionPolicy{
		TaxBrackets: DefaultTaxBrackets(),
		HealthBands: DefaultHealthBands(),
		PensionRate: pensionRate,
		PensionCap:  pensionCap,
	}
}

// DefaultDeductionPolicy uses a 6% pension rate capped at 1080.
func DefaultDeductionPolicy() DeductionPolicy {
	return NewDeductionPolicy(decimal.RequireFromString("0.06"), decimal.NewFromInt(1080))
}

// Tax returns the PAYE deduction for gross.
func (p DeductionPolicy) Tax(gross decimal.Decimal) decimal.Decimal {
	gross = nonNegative(gross)
	for _, b := range p.TaxBrackets {
		if b.Ceiling == nil || gross.LessThanOrEqual(*b.Ceiling) {
			return nonNegative(gross.Mul(b.Rate).Round(2))
		}
	}
	return decimal.Zero
}

// Health returns the NHIF deduction for gross.
func (p DeductionPolicy) Health(gross decimal.Decimal) decimal.Decimal {
	gross = nonNegative(gross)
	for _, b := range p.HealthBands {
		if b.Ceiling == nil || gross.LessThanOrEqual(*b.Ceiling) {
			return nonNegative(b.Amount)
		}
	}
	return decimal.Zero
}

// Pension returns min(gross*rate, cap), the NSSF deduction.
func (p DeductionPolicy) Pension(gross decimal.Decimal) decimal.Decimal {
	gross = nonNegative(gross)
	contribution := gross.Mul(p.PensionRate).Round(2)
	return nonNegative(decimal.Min(contribution, p.PensionCap))
}

// Apply computes all statutory deductions for gross.
func (p DeductionPolicy) Apply(gross decimal.Decimal) payroll.StatutoryDeductions {
	return payroll.StatutoryDeductions{
		PAYE: p.Tax(gross),
		NHIF: p.Health(gross),
		NSSF: p.Pension(gross),
	}
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
