package payroll

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrPeriodInvalid              = errors.New("invalid payroll period")
	ErrPeriodAlreadyClaimed       = errors.New("payroll period already claimed")
	ErrNoActiveEmployees          = errors.New("no active employees found")
	ErrPayrollRecordNotFound      = errors.New("payroll record not found")
	ErrPayrollRecordAlreadyExists = errors.New("payroll record already exists for this period")
	ErrPayrollRunNotFound         = errors.New("payroll run not found")
	ErrInvalidCompensation        = errors.New("invalid compensation structure")
)

type PeriodReason string

const (
	ReasonAlreadyProcessed   PeriodReason = "already_processed"
	ReasonBeforeRegistration PeriodReason = "before_registration"
	ReasonFuturePeriod       PeriodReason = "future_period"
)

// PeriodError explains why a period cannot be processed. It matches
// ErrPeriodInvalid under errors.Is.
type PeriodError struct {
	Reason        PeriodReason
	Period        Period
	ProcessedDate *time.Time
}

func (e *PeriodError) Error() string {
	switch e.Reason {
	case ReasonAlreadyProcessed:
		if e.ProcessedDate != nil {
			return fmt.Sprintf("Payroll for %s has already been processed on %s. Cannot process multiple times.", e.Period, e.ProcessedDate.Format("2006-01-02"))
		}
		return fmt.Sprintf("Payroll for %s has already been processed. Cannot process multiple times.", e.Period)
	case ReasonFuturePeriod:
		return fmt.Sprintf("Cannot process payroll for %s: period is in the future", e.Period)
	default:
		return "Cannot process payroll for this period. You can only process payroll from your registration month onwards."
	}
}

func (e *PeriodError) Is(target error) bool {
	return target == ErrPeriodInvalid
}

// IsDuplicate reports whether the period was rejected because it was already processed.
func (e *PeriodError) IsDuplicate() bool {
	return e.Reason == ReasonAlreadyProcessed
}
