package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/stafma/stafma-backend-go/internal/domain/company"
	"github.com/stafma/stafma-backend-go/internal/domain/payroll"
)

// PeriodGuard decides whether a company may run payroll for a period. It only
// reads; the period is claimed atomically later by the orchestrator.
type PeriodGuard struct {
	companyRepo company.CompanyRepository
	payrollRepo payroll.PayrollRepository
	now         func() time.Time
	bypass      *payroll.Period
}

type GuardOption func(*PeriodGuard)

// WithClock overrides the clock used for the future-period check.
func WithClock(now func() time.Time) GuardOption {
	return func(g *PeriodGuard) {
		g.now = now
	}
}

// WithBypassPeriod allows one future period to be processed ahead of time.
func WithBypassPeriod(p payroll.Period) GuardOption {
	return func(g *PeriodGuard) {
		g.bypass = &p
	}
}

func NewPeriodGuard(companyRepo company.CompanyRepository, payrollRepo payroll.PayrollRepository, opts ...GuardOption) *PeriodGuard {
	g := &PeriodGuard{
		companyRepo: companyRepo,
		payrollRepo: payrollRepo,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Check returns a *payroll.PeriodError when the period cannot be processed.
func (g *PeriodGuard) Check(ctx context.Context, companyID string, period payroll.Period) error {
	status, err := g.payrollRepo.CheckProcessed(ctx, companyID, period.Month, period.Year)
	if err != nil {
		return fmt.Errorf("failed to check processed period: %w", err)
	}
	if status.Processed {
		return &payroll.PeriodError{
			Reason:        payroll.ReasonAlreadyProcessed,
			Period:        period,
			ProcessedDate: status.ProcessedDate,
		}
	}

	tenant, err := g.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return err
	}
	if period.FirstDay().Before(tenant.RegistrationMonth()) {
		return &payroll.PeriodError{Reason: payroll.ReasonBeforeRegistration, Period: period}
	}

	current := payroll.PeriodOf(g.now().UTC())
	if period.After(current) && !g.isBypass(period) {
		return &payroll.PeriodError{Reason: payroll.ReasonFuturePeriod, Period: period}
	}

	return nil
}

func (g *PeriodGuard) isBypass(p payroll.Period) bool {
	return g.bypass != nil && *g.bypass == p
}
