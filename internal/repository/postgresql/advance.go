package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stafma/stafma-backend-go/internal/domain/advance"
	"github.com/stafma/stafma-backend-go/internal/pkg/database"
)

type advanceRepository struct {
	db *database.DB
}

func NewAdvanceRepository(db *database.DB) advance.AdvanceRepository {
	return &advanceRepository{db: db}
}

const advanceColumns = `
	id, company_id, employee_ids::text[], amount, fee, total_amount, reason, status,
	request_date, repayment_date, repayment_status, approved_by, approval_date,
	comments, transaction_reference, disbursement_date, created_at, updated_at`

func scanAdvance(row pgx.Row) (advance.SalaryAdvance, error) {
	var a advance.SalaryAdvance
	err := row.Scan(
		&a.ID, &a.CompanyID, &a.EmployeeIDs, &a.Amount, &a.Fee, &a.TotalAmount, &a.Reason, &a.Status,
		&a.RequestDate, &a.RepaymentDate, &a.RepaymentStatus, &a.ApprovedBy, &a.ApprovalDate,
		&a.Comments, &a.TransactionReference, &a.DisbursementDate, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func (r *advanceRepository) Create(ctx context.Context, a advance.SalaryAdvance) (advance.SalaryAdvance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_advances (
			company_id, employee_ids, amount, fee, total_amount, reason, status,
			request_date, repayment_date, repayment_status
		) VALUES ($1, $2::uuid[], $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + advanceColumns

	created, err := scanAdvance(q.QueryRow(ctx, query,
		a.CompanyID, a.EmployeeIDs, a.Amount, a.Fee, a.TotalAmount, a.Reason, a.Status,
		a.RequestDate, a.RepaymentDate, a.RepaymentStatus,
	))
	if err != nil {
		return advance.SalaryAdvance{}, fmt.Errorf("failed to create salary advance: %w", err)
	}
	return created, nil
}

func (r *advanceRepository) GetByID(ctx context.Context, companyID string, id string) (advance.SalaryAdvance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + advanceColumns + ` FROM salary_advances WHERE id = $1 AND company_id = $2`

	a, err := scanAdvance(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return advance.SalaryAdvance{}, advance.ErrAdvanceNotFound
		}
		return advance.SalaryAdvance{}, fmt.Errorf("failed to get salary advance: %w", err)
	}
	return a, nil
}

func (r *advanceRepository) List(ctx context.Context, companyID string) ([]advance.SalaryAdvance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + advanceColumns + `
		FROM salary_advances
		WHERE company_id = $1
		ORDER BY request_date DESC`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary advances: %w", err)
	}
	defer rows.Close()

	var advances []advance.SalaryAdvance
	for rows.Next() {
		a, err := scanAdvance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary advance: %w", err)
		}
		advances = append(advances, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate salary advances: %w", err)
	}
	return advances, nil
}

// UpdateStatus is a compare-and-swap on status: the row changes only if it
// is still in status from.
func (r *advanceRepository) UpdateStatus(ctx context.Context, companyID string, id string, from advance.Status, update advance.StatusUpdate) (advance.SalaryAdvance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE salary_advances SET
			status = $1,
			approved_by = COALESCE($2, approved_by),
			approval_date = COALESCE($3, approval_date),
			comments = COALESCE($4, comments),
			transaction_reference = COALESCE($5, transaction_reference),
			disbursement_date = COALESCE($6, disbursement_date),
			updated_at = NOW()
		WHERE id = $7 AND company_id = $8 AND status = $9
		RETURNING ` + advanceColumns

	updated, err := scanAdvance(q.QueryRow(ctx, query,
		update.Status, update.ApprovedBy, update.ApprovalDate, update.Comments,
		update.TransactionReference, update.DisbursementDate,
		id, companyID, from,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, companyID, id); getErr != nil {
				return advance.SalaryAdvance{}, getErr
			}
			return advance.SalaryAdvance{}, advance.ErrInvalidStatusTransition
		}
		return advance.SalaryAdvance{}, fmt.Errorf("failed to update salary advance status: %w", err)
	}
	return updated, nil
}
