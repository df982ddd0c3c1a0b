package disbursement

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/stafma/stafma-backend-go/internal/domain/disbursement"
)

// SimulatedTransferer stands in for a bank API. Each attempt waits Latency
// and then succeeds with probability SuccessRate.
type SimulatedTransferer struct {
	Latency     time.Duration
	SuccessRate float64
	// Float64 returns a number in [0, 1). Defaults to math/rand/v2.
	Float64 func() float64
}

func NewSimulatedTransferer(latency time.Duration, successRate float64) *SimulatedTransferer {
	return &SimulatedTransferer{
		Latency:     latency,
		SuccessRate: successRate,
		Float64:     rand.Float64,
	}
}

func (s *SimulatedTransferer) Attempt(ctx context.Context, tx disbursement.Transaction) (bool, error) {
	if s.Latency > 0 {
		timer := time.NewTimer(s.Latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return false, err
	}

	roll := s.Float64
	if roll == nil {
		roll = rand.Float64
	}
	return roll() < s.SuccessRate, nil
}
