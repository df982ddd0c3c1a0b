package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/stafma/stafma-backend-go/internal/domain/disbursement"
)

// DisbursementJobs holds the transaction housekeeping jobs.
type DisbursementJobs struct {
	service    disbursement.DisbursementService
	staleAfter time.Duration
	interval   time.Duration
	now        func() time.Time
}

func NewDisbursementJobs(service disbursement.DisbursementService, staleAfter, interval time.Duration) *DisbursementJobs {
	return &DisbursementJobs{
		service:    service,
		staleAfter: staleAfter,
		interval:   interval,
		now:        time.Now,
	}
}

// RegisterJobs adds the disbursement jobs to scheduler.
func (j *DisbursementJobs) RegisterJobs(scheduler *Scheduler) error {
	return scheduler.AddJob(Job{
		Name:     "fail_stale_pending_transactions",
		Interval: j.interval,
		Fn:       j.FailStalePending,
	})
}

// FailStalePending fails transactions left pending by a crashed process.
func (j *DisbursementJobs) FailStalePending(ctx context.Context) error {
	n, err := j.service.FailStalePending(ctx, j.now().Add(-j.staleAfter))
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Warn("Failed stale pending transactions", "count", n)
	}
	return nil
}
