package disbursement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stafma/stafma-backend-go/internal/domain/disbursement"
	"github.com/stafma/stafma-backend-go/internal/pkg/sse"
)

const (
	maxReferenceAttempts = 3
	maxResolveAttempts   = 2
)

type Options struct {
	ReferencePrefix string
	// TransferTimeout bounds a single transfer attempt. Zero disables it.
	TransferTimeout time.Duration
	Events          sse.Publisher
}

type DisbursementServiceImpl struct {
	repo       disbursement.TransactionRepository
	transferer disbursement.Transferer
	refs       *ReferenceGenerator
	timeout    time.Duration
	events     sse.Publisher
}

func NewDisbursementService(repo disbursement.TransactionRepository, transferer disbursement.Transferer, opts Options) disbursement.DisbursementService {
	events := opts.Events
	if events == nil {
		events = sse.Discard
	}
	return &DisbursementServiceImpl{
		repo:       repo,
		transferer: transferer,
		refs:       NewReferenceGenerator(opts.ReferencePrefix),
		timeout:    opts.TransferTimeout,
		events:     events,
	}
}

// Disburse implements disbursement.DisbursementService. When the terminal
// status cannot be stored after a retry, the still-pending transaction is
// returned with the error and FailStalePending fails it later.
func (s *DisbursementServiceImpl) Disburse(ctx context.Context, req disbursement.DisburseRequest) (disbursement.Transaction, error) {
	if !req.Amount.IsPositive() {
		return disbursement.Transaction{}, disbursement.ErrInvalidAmount
	}
	if !isComplete(req.To) {
		return disbursement.Transaction{}, disbursement.ErrMissingDestination
	}

	pending, err := s.createPending(ctx, req)
	if err != nil {
		return disbursement.Transaction{}, err
	}

	status, errMsg := s.attempt(ctx, pending)

	// The pending row must always reach a terminal state, even if the caller
	// has gone away.
	resolved, err := s.resolve(context.WithoutCancel(ctx), pending, status, errMsg)
	if err != nil {
		return pending, fmt.Errorf("failed to resolve transaction %s: %w", pending.Reference, err)
	}

	logAttrs := []any{
		"reference", resolved.Reference,
		"source_type", resolved.SourceType,
		"employee_id", resolved.EmployeeID,
		"amount", resolved.Amount.StringFixed(2),
	}
	if resolved.Status == disbursement.StatusFailed {
		slog.Warn("Disbursement failed", append(logAttrs, "error", valueOf(resolved.ErrorMessage))...)
	} else {
		slog.Info("Disbursement completed", logAttrs...)
	}
	s.publish(resolved)

	return resolved, nil
}

func (s *DisbursementServiceImpl) resolve(ctx context.Context, pending disbursement.Transaction, status disbursement.Status, errMsg *string) (disbursement.Transaction, error) {
	var err error
	for i := 0; i < maxResolveAttempts; i++ {
		var resolved disbursement.Transaction
		resolved, err = s.repo.Resolve(ctx, pending.ID, status, errMsg)
		if err == nil || errors.Is(err, disbursement.ErrTransactionNotPending) {
			return resolved, err
		}
		slog.Warn("Failed to resolve transaction", "reference", pending.Reference, "attempt", i+1, "error", err)
	}
	return disbursement.Transaction{}, err
}

func (s *DisbursementServiceImpl) createPending(ctx context.Context, req disbursement.DisburseRequest) (disbursement.Transaction, error) {
	var lastErr error
	for i := 0; i < maxReferenceAttempts; i++ {
		created, err := s.repo.Create(ctx, disbursement.Transaction{
			CompanyID:  req.CompanyID,
			SourceType: req.SourceType,
			SourceID:   req.SourceID,
			EmployeeID: req.EmployeeID,
			Amount:     req.Amount,
			From:       req.From,
			To:         req.To,
			Status:     disbursement.StatusPending,
			Reference:  s.refs.Next(),
		})
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, disbursement.ErrReferenceExists) {
			return disbursement.Transaction{}, fmt.Errorf("failed to create transaction: %w", err)
		}
		lastErr = err
	}
	return disbursement.Transaction{}, fmt.Errorf("failed to create transaction: %w", lastErr)
}

func (s *DisbursementServiceImpl) attempt(ctx context.Context, tx disbursement.Transaction) (disbursement.Status, *string) {
	attemptCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	ok, err := s.transferer.Attempt(attemptCtx, tx)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		msg := disbursement.ErrTransferTimedOut.Error()
		return disbursement.StatusFailed, &msg
	case err != nil:
		msg := err.Error()
		return disbursement.StatusFailed, &msg
	case !ok:
		msg := disbursement.ErrTransferFailed.Error()
		return disbursement.StatusFailed, &msg
	default:
		return disbursement.StatusCompleted, nil
	}
}

func (s *DisbursementServiceImpl) publish(tx disbursement.Transaction) {
	event := sse.EventTransactionCompleted
	if tx.Status == disbursement.StatusFailed {
		event = sse.EventTransactionFailed
	}
	s.events.Publish(tx.CompanyID, sse.Event{
		Event: event,
		Data:  disbursement.ToTransactionResponse(tx),
	})
}

// GetTransactionStatus implements disbursement.DisbursementService.
func (s *DisbursementServiceImpl) GetTransactionStatus(ctx context.Context, companyID string, reference string) (disbursement.TransactionStatusResponse, error) {
	tx, err := s.repo.GetByReference(ctx, companyID, reference)
	if err != nil {
		return disbursement.TransactionStatusResponse{}, err
	}
	return disbursement.TransactionStatusResponse{
		Reference:    tx.Reference,
		Status:       string(tx.Status),
		ErrorMessage: tx.ErrorMessage,
	}, nil
}

// ListBySource implements disbursement.DisbursementService.
func (s *DisbursementServiceImpl) ListBySource(ctx context.Context, companyID string, sourceID string) ([]disbursement.TransactionResponse, error) {
	txs, err := s.repo.ListBySource(ctx, companyID, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	result := make([]disbursement.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		result = append(result, disbursement.ToTransactionResponse(tx))
	}
	return result, nil
}

// FailStalePending implements disbursement.DisbursementService.
func (s *DisbursementServiceImpl) FailStalePending(ctx context.Context, olderThan time.Time) (int, error) {
	failed, err := s.repo.FailStalePending(ctx, olderThan, disbursement.ErrTransferNeverCompleted.Error())
	if err != nil {
		return 0, fmt.Errorf("failed to fail stale transactions: %w", err)
	}
	for _, tx := range failed {
		slog.Warn("Stale pending transaction failed", "reference", tx.Reference, "created_at", tx.CreatedAt)
		s.publish(tx)
	}
	return len(failed), nil
}

func isComplete(a disbursement.Account) bool {
	return a.BankName != "" && a.AccountName != "" && a.AccountNumber != ""
}

func valueOf(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
