package disbursement

import (
	"context"
	"sync"

	"github.com/stafma/stafma-backend-go/internal/domain/disbursement"
	"github.com/stafma/stafma-backend-go/internal/pkg/sse"
	"github.com/stretchr/testify/mock"
)

type mockTransferer struct {
	mock.Mock
}

func (m *mockTransferer) Attempt(ctx context.Context, tx disbursement.Transaction) (bool, error) {
	args := m.Called(ctx, tx)
	return args.Bool(0), args.Error(1)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(companyID string, event sse.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event.Event)
}

// flakyResolveRepository fails the first failures calls to Resolve.
type flakyResolveRepository struct {
	disbursement.TransactionRepository
	failures int
	calls    int
}

func (r *flakyResolveRepository) Resolve(ctx context.Context, id string, status disbursement.Status, errorMessage *string) (disbursement.Transaction, error) {
	r.calls++
	if r.calls <= r.failures {
		return disbursement.Transaction{}, errResolveUnavailable
	}
	return r.TransactionRepository.Resolve(ctx, id, status, errorMessage)
}
