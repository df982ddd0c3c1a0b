package memory

import (
	"context"
	"sort"
	"time"

	"github.com/stafma/stafma-backend-go/internal/domain/disbursement"
)

type transactionRepository struct {
	s *Store
}

func NewTransactionRepository(s *Store) disbursement.TransactionRepository {
	return &transactionRepository{s: s}
}

func (r *transactionRepository) Create(ctx context.Context, tx disbursement.Transaction) (disbursement.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.transactions {
		if existing.Reference == tx.Reference {
			return disbursement.Transaction{}, disbursement.ErrReferenceExists
		}
	}

	now := r.s.timestamp()
	tx.ID = newID()
	if tx.Status == "" {
		tx.Status = disbursement.StatusPending
	}
	tx.CreatedAt = now
	tx.UpdatedAt = now
	r.s.transactions[tx.ID] = tx
	return tx, nil
}

func (r *transactionRepository) Resolve(ctx context.Context, id string, status disbursement.Status, errorMessage *string) (disbursement.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tx, ok := r.s.transactions[id]
	if !ok {
		return disbursement.Transaction{}, disbursement.ErrTransactionNotFound
	}
	if tx.Status != disbursement.StatusPending {
		return disbursement.Transaction{}, disbursement.ErrTransactionNotPending
	}
	tx.Status = status
	tx.ErrorMessage = errorMessage
	tx.UpdatedAt = r.s.timestamp()
	r.s.transactions[id] = tx
	return tx, nil
}

func (r *transactionRepository) GetByReference(ctx context.Context, companyID string, reference string) (disbursement.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, tx := range r.s.transactions {
		if tx.Reference == reference && tx.CompanyID == companyID {
			return tx, nil
		}
	}
	return disbursement.Transaction{}, disbursement.ErrTransactionNotFound
}

func (r *transactionRepository) ListBySource(ctx context.Context, companyID string, sourceID string) ([]disbursement.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var result []disbursement.Transaction
	for _, tx := range r.s.transactions {
		if tx.CompanyID == companyID && tx.SourceID == sourceID {
			result = append(result, tx)
		}
	}
	sortByCreated(result)
	return result, nil
}

func (r *transactionRepository) FailStalePending(ctx context.Context, olderThan time.Time, errorMessage string) ([]disbursement.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var failed []disbursement.Transaction
	now := r.s.timestamp()
	for id, tx := range r.s.transactions {
		if tx.Status != disbursement.StatusPending || !tx.CreatedAt.Before(olderThan) {
			continue
		}
		msg := errorMessage
		tx.Status = disbursement.StatusFailed
		tx.ErrorMessage = &msg
		tx.UpdatedAt = now
		r.s.transactions[id] = tx
		failed = append(failed, tx)
	}
	sortByCreated(failed)
	return failed, nil
}

func sortByCreated(txs []disbursement.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if txs[i].CreatedAt.Equal(txs[j].CreatedAt) {
			return txs[i].Reference < txs[j].Reference
		}
		return txs[i].CreatedAt.Before(txs[j].CreatedAt)
	})
}
