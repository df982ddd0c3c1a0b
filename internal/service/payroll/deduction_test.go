package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDeductionPolicy_Tax(t *testing.T) {
	policy := DefaultDeductionPolicy()

	tests := []struct {
		name  string
		gross string
		want  string
	}{
		{"zero gross", "0", "0"},
		{"below first ceiling", "20000", "0"},
		{"at first ceiling", "24000", "0"},
		{"just above first ceiling", "24001", "2400.1"},
		{"at second ceiling", "32333", "3233.3"},
		{"third bracket", "40000", "6000"},
		{"at third ceiling", "50000", "7500"},
		{"open bracket", "60000", "12000"},
		{"negative gross clamps", "-500", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.Tax(dec(tt.gross))
			assert.True(t, dec(tt.want).Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestDeductionPolicy_Health(t *testing.T) {
	policy := DefaultDeductionPolicy()

	tests := []struct {
		gross string
		want  int64
	}{
		{"0", 150},
		{"5999", 150},
		{"6000", 300},
		{"7999", 300},
		{"8000", 400},
		{"11999", 400},
		{"12000", 500},
		{"14999", 500},
		{"15000", 600},
		{"250000", 600},
	}

	for _, tt := range tests {
		t.Run(tt.gross, func(t *testing.T) {
			got := policy.Health(dec(tt.gross))
			assert.True(t, decimal.NewFromInt(tt.want).Equal(got), "want %d got %s", tt.want, got)
		})
	}
}

func TestDeductionPolicy_Pension(t *testing.T) {
	policy := DefaultDeductionPolicy()

	assert.True(t, dec("600").Equal(policy.Pension(dec("10000"))))
	assert.True(t, dec("1080").Equal(policy.Pension(dec("18000"))))
	assert.True(t, dec("1080").Equal(policy.Pension(dec("20000"))))
	assert.True(t, decimal.Zero.Equal(policy.Pension(dec("-1"))))
}

func TestDeductionPolicy_PensionIsCappedForAnyGross(t *testing.T) {
	policy := NewDeductionPolicy(dec("0.06"), dec("1080"))

	for _, g := range []string{"0", "1", "999.99", "17999", "18000", "18001", "1000000"} {
		gross := dec(g)
		got := policy.Pension(gross)
		want := decimal.Min(gross.Mul(dec("0.06")), dec("1080")).Round(2)
		assert.True(t, want.Equal(got), "gross %s: want %s got %s", g, want, got)
	}
}

func TestDeductionPolicy_RoundsEachComponentToCents(t *testing.T) {
	policy := DefaultDeductionPolicy()

	// 0.06 * 12345.67 = 740.7402
	assert.True(t, dec("740.74").Equal(policy.Pension(dec("12345.67"))))
	// 0.1 * 24000.05 = 2400.005
	assert.True(t, dec("2400.01").Equal(policy.Tax(dec("24000.05"))))

	for _, g := range []string{"12345.67", "15000.01", "24000.05", "33333.33"} {
		d := policy.Apply(dec(g))
		for _, v := range []decimal.Decimal{d.PAYE, d.NHIF, d.NSSF} {
			assert.True(t, v.Equal(v.Round(2)), "gross %s: %s has sub-cent digits", g, v)
		}
	}
}

func TestDeductionPolicy_Apply(t *testing.T) {
	policy := DefaultDeductionPolicy()

	got := policy.Apply(dec("40000"))

	assert.True(t, dec("6000").Equal(got.PAYE))
	assert.True(t, dec("600").Equal(got.NHIF))
	assert.True(t, dec("1080").Equal(got.NSSF))
	assert.True(t, dec("7680").Equal(got.Total()))
}
