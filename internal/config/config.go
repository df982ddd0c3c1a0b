package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database     DatabaseConfig
	JWT          JWTConfig
	App          AppConfig
	Payroll      PayrollConfig
	Disbursement DisbursementConfig
	Advance      AdvanceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	Migrate  bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	StorageDriver  string
	AllowedOrigins []string
}

// PayrollConfig holds the statutory deduction policy and run settings.
type PayrollConfig struct {
	PensionRate decimal.Decimal
	PensionCap  decimal.Decimal
	// BypassPeriod is a "YYYY-MM" period exempt from the future-period check.
	// Empty disables the exemption.
	BypassPeriod string
	Concurrency  int
}

// DisbursementConfig holds the simulated bank transfer settings.
type DisbursementConfig struct {
	TransferLatency    time.Duration
	SuccessRate        float64
	TransferTimeout    time.Duration
	ReferencePrefix    string
	SourceBankName     string
	SourceAccountName  string
	SourceAccountNo    string
	AdvanceAccountName string
	AdvanceAccountNo   string
	StalePendingAfter  time.Duration
	SweepInterval      time.Duration
}

// AdvanceConfig holds salary advance pricing.
type AdvanceConfig struct {
	FeeRate       decimal.Decimal
	RepaymentDays int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded, using environment only", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "stafma"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		Migrate:  getEnv("DB_MIGRATE", "true") == "true",
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		StorageDriver:  getEnv("STORAGE_DRIVER", "postgres"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Payroll configuration
	pensionRate, err := decimal.NewFromString(getEnv("PAYROLL_PENSION_RATE", "0.06"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_PENSION_RATE: %w", err)
	}
	pensionCap, err := decimal.NewFromString(getEnv("PAYROLL_PENSION_CAP", "1080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_PENSION_CAP: %w", err)
	}
	concurrency, err := strconv.Atoi(getEnv("PAYROLL_CONCURRENCY", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_CONCURRENCY: %w", err)
	}

	config.Payroll = PayrollConfig{
		PensionRate:  pensionRate,
		PensionCap:   pensionCap,
		BypassPeriod: getEnv("PAYROLL_BYPASS_PERIOD", ""),
		Concurrency:  concurrency,
	}

	// Disbursement configuration
	latency, err := time.ParseDuration(getEnv("TRANSFER_LATENCY", "1s"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRANSFER_LATENCY: %w", err)
	}
	timeout, err := time.ParseDuration(getEnv("TRANSFER_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRANSFER_TIMEOUT: %w", err)
	}
	successRate, err := strconv.ParseFloat(getEnv("TRANSFER_SUCCESS_RATE", "0.95"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TRANSFER_SUCCESS_RATE: %w", err)
	}
	staleAfter, err := time.ParseDuration(getEnv("TRANSFER_STALE_AFTER", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRANSFER_STALE_AFTER: %w", err)
	}
	sweepInterval, err := time.ParseDuration(getEnv("TRANSFER_SWEEP_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRANSFER_SWEEP_INTERVAL: %w", err)
	}

	config.Disbursement = DisbursementConfig{
		TransferLatency:    latency,
		SuccessRate:        successRate,
		TransferTimeout:    timeout,
		ReferencePrefix:    getEnv("TRANSFER_REFERENCE_PREFIX", "TRX"),
		SourceBankName:     getEnv("SOURCE_BANK_NAME", "Stafma Bank"),
		SourceAccountName:  getEnv("SOURCE_ACCOUNT_NAME", "Stafma Payroll Account"),
		SourceAccountNo:    getEnv("SOURCE_ACCOUNT_NUMBER", "1234567890"),
		AdvanceAccountName: getEnv("ADVANCE_ACCOUNT_NAME", "Stafma Salary Advance Account"),
		AdvanceAccountNo:   getEnv("ADVANCE_ACCOUNT_NUMBER", "9876543210"),
		StalePendingAfter:  staleAfter,
		SweepInterval:      sweepInterval,
	}

	// Salary advance configuration
	feeRate, err := decimal.NewFromString(getEnv("ADVANCE_FEE_RATE", "0.05"))
	if err != nil {
		return nil, fmt.Errorf("invalid ADVANCE_FEE_RATE: %w", err)
	}
	repaymentDays, err := strconv.Atoi(getEnv("ADVANCE_REPAYMENT_DAYS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid ADVANCE_REPAYMENT_DAYS: %w", err)
	}

	config.Advance = AdvanceConfig{
		FeeRate:       feeRate,
		RepaymentDays: repaymentDays,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.StorageDriver != "postgres" && c.App.StorageDriver != "memory" {
		return fmt.Errorf("STORAGE_DRIVER must be postgres or memory")
	}
	if c.App.StorageDriver == "postgres" && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if !isRate(c.Payroll.PensionRate) {
		return fmt.Errorf("PAYROLL_PENSION_RATE must be between 0 and 1")
	}
	if c.Payroll.PensionCap.IsNegative() {
		return fmt.Errorf("PAYROLL_PENSION_CAP must be non-negative")
	}
	if c.Payroll.BypassPeriod != "" {
		if _, err := time.Parse("2006-01", c.Payroll.BypassPeriod); err != nil {
			return fmt.Errorf("PAYROLL_BYPASS_PERIOD must be formatted YYYY-MM")
		}
	}
	if c.Payroll.Concurrency < 1 {
		return fmt.Errorf("PAYROLL_CONCURRENCY must be at least 1")
	}
	if c.Disbursement.SuccessRate < 0 || c.Disbursement.SuccessRate > 1 {
		return fmt.Errorf("TRANSFER_SUCCESS_RATE must be between 0 and 1")
	}
	if c.Disbursement.TransferTimeout <= 0 {
		return fmt.Errorf("TRANSFER_TIMEOUT must be positive")
	}
	if !isRate(c.Advance.FeeRate) {
		return fmt.Errorf("ADVANCE_FEE_RATE must be between 0 and 1")
	}
	if c.Advance.RepaymentDays < 0 {
		return fmt.Errorf("ADVANCE_REPAYMENT_DAYS must be non-negative")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// BypassMonthYear returns the exempt period, if one is configured.
func (c PayrollConfig) BypassMonthYear() (month, year int, ok bool) {
	if c.BypassPeriod == "" {
		return 0, 0, false
	}
	t, err := time.Parse("2006-01", c.BypassPeriod)
	if err != nil {
		return 0, 0, false
	}
	return int(t.Month()), t.Year(), true
}

func isRate(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(decimal.NewFromInt(1))
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string = strings.Split(value, ",")
	return result
}
