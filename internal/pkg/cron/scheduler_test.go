package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stafma/stafma-backend-go/internal/domain/company"
	"github.com/stafma/stafma-backend-go/internal/domain/disbursement"
	"github.com/stafma/stafma-backend-go/internal/repository/memory"
	disbursementservice "github.com/stafma/stafma-backend-go/internal/service/disbursement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_AddJobValidation(t *testing.T) {
	s := NewScheduler()
	assert.Error(t, s.AddJob(Job{Name: "no-interval", Fn: func(context.Context) error { return nil }}))
	assert.Error(t, s.AddJob(Job{Name: "no-fn", Interval: time.Second}))
}

func TestScheduler_RunOnceJoinsErrors(t *testing.T) {
	s := NewScheduler()
	var runs atomic.Int32
	boom := errors.New("boom")

	require.NoError(t, s.AddJob(Job{Name: "ok", Interval: time.Hour, Fn: func(context.Context) error {
		runs.Add(1)
		return nil
	}}))
	require.NoError(t, s.AddJob(Job{Name: "broken", Interval: time.Hour, Fn: func(context.Context) error {
		runs.Add(1)
		return boom
	}}))

	err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "broken")
	assert.EqualValues(t, 2, runs.Load())
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler()
	ran := make(chan struct{}, 1)
	require.NoError(t, s.AddJob(Job{Name: "tick", Interval: time.Hour, Fn: func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}}))

	s.Start(context.Background())
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}

type stuckTransferer struct{}

func (stuckTransferer) Attempt(ctx context.Context, tx disbursement.Transaction) (bool, error) {
	return true, nil
}

func TestDisbursementJobs_FailStalePending(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	c, err := memory.NewCompanyRepository(store).Create(ctx, company.Company{Name: "Acme Ltd"})
	require.NoError(t, err)

	txRepo := memory.NewTransactionRepository(store)
	stale, err := txRepo.Create(ctx, disbursement.Transaction{
		CompanyID:  c.ID,
		SourceType: disbursement.SourcePayroll,
		EmployeeID: "emp-1",
		Amount:     decimal.NewFromInt(100),
		Status:     disbursement.StatusPending,
		Reference:  "TRX-STALE",
	})
	require.NoError(t, err)

	svc := disbursementservice.NewDisbursementService(txRepo, stuckTransferer{}, disbursementservice.Options{})
	jobs := NewDisbursementJobs(svc, time.Minute, time.Hour)
	jobs.now = func() time.Time { return time.Now().Add(time.Hour) }

	s := NewScheduler()
	require.NoError(t, jobs.RegisterJobs(s))
	require.NoError(t, s.RunOnce(ctx))

	got, err := txRepo.GetByReference(ctx, c.ID, stale.Reference)
	require.NoError(t, err)
	assert.Equal(t, disbursement.StatusFailed, got.Status)
	require.NotNil(t, got.ErrorMessage)
}
