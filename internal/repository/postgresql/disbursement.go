package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stafma/stafma-backend-go/internal/domain/disbursement"
	"github.com/stafma/stafma-backend-go/internal/pkg/database"
)

type transactionRepository struct {
	db *database.DB
}

func NewTransactionRepository(db *database.DB) disbursement.TransactionRepository {
	return &transactionRepository{db: db}
}

const transactionColumns = `
	id, company_id, source_type, COALESCE(source_id::text, ''), employee_id, amount,
	source_bank_name, source_account_name, source_account_number,
	destination_bank_name, destination_account_name, destination_account_number,
	COALESCE(destination_branch_name, ''), destination_swift_code, destination_bank_code,
	status, reference, error_message, created_at, updated_at`

func scanTransaction(row pgx.Row) (disbursement.Transaction, error) {
	var t disbursement.Transaction
	err := row.Scan(
		&t.ID, &t.CompanyID, &t.SourceType, &t.SourceID, &t.EmployeeID, &t.Amount,
		&t.From.BankName, &t.From.AccountName, &t.From.AccountNumber,
		&t.To.BankName, &t.To.AccountName, &t.To.AccountNumber,
		&t.To.BranchName, &t.To.SwiftCode, &t.To.BankCode,
		&t.Status, &t.Reference, &t.ErrorMessage, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

func collectTransactions(rows pgx.Rows) ([]disbursement.Transaction, error) {
	defer rows.Close()

	var txs []disbursement.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txs, nil
}

func (r *transactionRepository) Create(ctx context.Context, tx disbursement.Transaction) (disbursement.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO transactions (
			company_id, source_type, source_id, employee_id, amount,
			source_bank_name, source_account_name, source_account_number,
			destination_bank_name, destination_account_name, destination_account_number,
			destination_branch_name, destination_swift_code, destination_bank_code,
			status, reference
		) VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, ''), $13, $14, $15, $16)
		RETURNING ` + transactionColumns

	status := tx.Status
	if status == "" {
		status = disbursement.StatusPending
	}

	created, err := scanTransaction(q.QueryRow(ctx, query,
		tx.CompanyID, tx.SourceType, tx.SourceID, tx.EmployeeID, tx.Amount,
		tx.From.BankName, tx.From.AccountName, tx.From.AccountNumber,
		tx.To.BankName, tx.To.AccountName, tx.To.AccountNumber,
		tx.To.BranchName, tx.To.SwiftCode, tx.To.BankCode,
		status, tx.Reference,
	))
	if err != nil {
		if database.IsUniqueViolation(err, "uk_transaction_reference") {
			return disbursement.Transaction{}, disbursement.ErrReferenceExists
		}
		return disbursement.Transaction{}, fmt.Errorf("failed to create transaction: %w", err)
	}
	return created, nil
}

func (r *transactionRepository) Resolve(ctx context.Context, id string, status disbursement.Status, errorMessage *string) (disbursement.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE transactions
		SET status = $1, error_message = $2, updated_at = NOW()
		WHERE id = $3 AND status = 'pending'
		RETURNING ` + transactionColumns

	resolved, err := scanTransaction(q.QueryRow(ctx, query, status, errorMessage, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM transactions WHERE id = $1)`, id).Scan(&exists); err != nil {
				return disbursement.Transaction{}, fmt.Errorf("failed to check transaction: %w", err)
			}
			if exists {
				return disbursement.Transaction{}, disbursement.ErrTransactionNotPending
			}
			return disbursement.Transaction{}, disbursement.ErrTransactionNotFound
		}
		return disbursement.Transaction{}, fmt.Errorf("failed to resolve transaction: %w", err)
	}
	return resolved, nil
}

func (r *transactionRepository) GetByReference(ctx context.Context, companyID string, reference string) (disbursement.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE reference = $1 AND company_id = $2`

	t, err := scanTransaction(q.QueryRow(ctx, query, reference, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return disbursement.Transaction{}, disbursement.ErrTransactionNotFound
		}
		return disbursement.Transaction{}, fmt.Errorf("failed to get transaction by reference: %w", err)
	}
	return t, nil
}

func (r *transactionRepository) ListBySource(ctx context.Context, companyID string, sourceID string) ([]disbursement.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE company_id = $1 AND source_id = $2
		ORDER BY created_at, reference`

	rows, err := q.Query(ctx, query, companyID, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return collectTransactions(rows)
}

func (r *transactionRepository) FailStalePending(ctx context.Context, olderThan time.Time, errorMessage string) ([]disbursement.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE transactions
		SET status = 'failed', error_message = $1, updated_at = NOW()
		WHERE status = 'pending' AND created_at < $2
		RETURNING ` + transactionColumns

	rows, err := q.Query(ctx, query, errorMessage, olderThan)
	if err != nil {
		return nil, fmt.Errorf("failed to fail stale transactions: %w", err)
	}
	return collectTransactions(rows)
}
