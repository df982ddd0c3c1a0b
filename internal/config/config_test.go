package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("JWT_SECRET_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.AllowedOrigins)
	assert.True(t, decimal.RequireFromString("0.06").Equal(cfg.Payroll.PensionRate))
	assert.True(t, decimal.NewFromInt(1080).Equal(cfg.Payroll.PensionCap))
	assert.True(t, decimal.RequireFromString("0.05").Equal(cfg.Advance.FeeRate))
	assert.Equal(t, 30, cfg.Advance.RepaymentDays)
	assert.Equal(t, time.Second, cfg.Disbursement.TransferLatency)
	assert.Equal(t, 0.95, cfg.Disbursement.SuccessRate)
	assert.Equal(t, "TRX", cfg.Disbursement.ReferencePrefix)

	_, _, ok := cfg.Payroll.BypassMonthYear()
	assert.False(t, ok)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_HOST", "db")
	t.Setenv("PAYROLL_BYPASS_PERIOD", "2024-11")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test,https://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://postgres:pw@db:5432/stafma?sslmode=disable", cfg.DatabaseURL())
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.App.AllowedOrigins)

	month, year, ok := cfg.Payroll.BypassMonthYear()
	require.True(t, ok)
	assert.Equal(t, 11, month)
	assert.Equal(t, 2024, year)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing jwt secret", map[string]string{"STORAGE_DRIVER": "memory"}},
		{"unknown driver", map[string]string{"STORAGE_DRIVER": "mongo", "JWT_SECRET_KEY": "s"}},
		{"postgres without password", map[string]string{"STORAGE_DRIVER": "postgres", "JWT_SECRET_KEY": "s"}},
		{"bad port", map[string]string{"STORAGE_DRIVER": "memory", "JWT_SECRET_KEY": "s", "APP_PORT": "http"}},
		{"pension rate above one", map[string]string{"STORAGE_DRIVER": "memory", "JWT_SECRET_KEY": "s", "PAYROLL_PENSION_RATE": "1.5"}},
		{"bad bypass period", map[string]string{"STORAGE_DRIVER": "memory", "JWT_SECRET_KEY": "s", "PAYROLL_BYPASS_PERIOD": "11/2024"}},
		{"success rate out of range", map[string]string{"STORAGE_DRIVER": "memory", "JWT_SECRET_KEY": "s", "TRANSFER_SUCCESS_RATE": "2"}},
		{"zero concurrency", map[string]string{"STORAGE_DRIVER": "memory", "JWT_SECRET_KEY": "s", "PAYROLL_CONCURRENCY": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET_KEY", "")
			t.Setenv("DB_PASSWORD", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
