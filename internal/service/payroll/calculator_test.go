package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stafma/stafma-backend-go/internal/domain/employee"
	"github.com/stafma/stafma-backend-go/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compensation(basic string) employee.Compensation {
	return employee.Compensation{Basic: dec(basic)}
}

func TestCalculator_Calculate(t *testing.T) {
	calc := NewCalculator(DefaultDeductionPolicy())

	comp := employee.Compensation{
		Basic: dec("30000"),
		Allowances: employee.Allowances{
			Housing:   dec("5000"),
			Transport: dec("3000"),
			Medical:   dec("1500"),
			Other:     dec("500"),
		},
		Deductions: employee.Deductions{
			Loans: dec("2000"),
			Other: dec("250"),
		},
	}

	line, err := calc.Calculate(comp)
	require.NoError(t, err)

	assert.True(t, dec("30000").Equal(line.BasicSalary))
	assert.True(t, dec("10000").Equal(line.Allowances))
	assert.True(t, dec("40000").Equal(line.GrossSalary))
	assert.True(t, dec("6000").Equal(line.Deductions.PAYE))
	assert.True(t, dec("600").Equal(line.Deductions.NHIF))
	assert.True(t, dec("1080").Equal(line.Deductions.NSSF))
	assert.True(t, dec("2250").Equal(line.Deductions.Other))
	assert.True(t, dec("9930").Equal(line.Deductions.Total))
	assert.True(t, dec("30070").Equal(line.NetSalary))
}

func TestCalculator_GrossIsBasicPlusAllowances(t *testing.T) {
	calc := NewCalculator(DefaultDeductionPolicy())

	for _, basic := range []string{"1", "5999", "24000", "32333.33", "75000"} {
		comp := compensation(basic)
		comp.Allowances.Housing = dec("1200")
		comp.Allowances.Medical = dec("300.50")

		line, err := calc.Calculate(comp)
		require.NoError(t, err)

		assert.True(t, dec(basic).Add(dec("1500.50")).Equal(line.GrossSalary))
		assert.True(t, line.GrossSalary.Sub(line.Deductions.Total).Equal(line.NetSalary))
		assert.True(t, line.Deductions.PAYE.Add(line.Deductions.NHIF).Add(line.Deductions.NSSF).Add(line.Deductions.Other).Equal(line.Deductions.Total))
	}
}

func TestCalculator_NetMayBeNegative(t *testing.T) {
	calc := NewCalculator(DefaultDeductionPolicy())

	comp := compensation("1000")
	comp.Deductions.Loans = dec("5000")

	line, err := calc.Calculate(comp)
	require.NoError(t, err)
	assert.True(t, line.NetSalary.IsNegative())
}

func TestCalculator_RejectsInvalidCompensation(t *testing.T) {
	calc := NewCalculator(DefaultDeductionPolicy())

	tests := []struct {
		name string
		comp employee.Compensation
	}{
		{"zero basic", compensation("0")},
		{"negative basic", compensation("-10")},
		{"negative allowance", employee.Compensation{
			Basic:      dec("1000"),
			Allowances: employee.Allowances{Transport: dec("-1")},
		}},
		{"negative deduction", employee.Compensation{
			Basic:      dec("1000"),
			Deductions: employee.Deductions{Other: dec("-1")},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.Calculate(tt.comp)
			assert.ErrorIs(t, err, payroll.ErrInvalidCompensation)
		})
	}
}

func TestCalculator_IsDeterministic(t *testing.T) {
	calc := NewCalculator(DefaultDeductionPolicy())
	comp := compensation("27500.75")
	comp.Allowances.Other = decimal.NewFromInt(499)

	first, err := calc.Calculate(comp)
	require.NoError(t, err)
	second, err := calc.Calculate(comp)
	require.NoError(t, err)

	assert.True(t, first.NetSalary.Equal(second.NetSalary))
	assert.True(t, first.Deductions.Total.Equal(second.Deductions.Total))
}
