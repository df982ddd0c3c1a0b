package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stafma/stafma-backend-go/internal/domain/leave"
	"github.com/stafma/stafma-backend-go/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveColumns = `
	lr.id, lr.company_id, lr.employee_id, lr.leave_type, lr.start_date, lr.end_date, lr.reason,
	lr.status, lr.approved_by, lr.approval_date, lr.comments, lr.created_at, lr.updated_at,
	e.first_name || ' ' || e.last_name`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var l leave.LeaveRequest
	err := row.Scan(
		&l.ID, &l.CompanyID, &l.EmployeeID, &l.LeaveType, &l.StartDate, &l.EndDate, &l.Reason,
		&l.Status, &l.ApprovedBy, &l.ApprovalDate, &l.Comments, &l.CreatedAt, &l.UpdatedAt,
		&l.EmployeeName,
	)
	return l, err
}

func collectLeaveRequests(rows pgx.Rows) ([]leave.LeaveRequest, error) {
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		l, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave requests: %w", err)
	}
	return requests, nil
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH lr AS (
			INSERT INTO leave_requests (company_id, employee_id, leave_type, start_date, end_date, reason, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING *
		)
		SELECT ` + leaveColumns + `
		FROM lr
		JOIN employees e ON e.id = lr.employee_id
	`

	status := req.Status
	if status == "" {
		status = leave.LeaveRequestStatusPending
	}

	created, err := scanLeaveRequest(q.QueryRow(ctx, query,
		req.CompanyID, req.EmployeeID, req.LeaveType, req.StartDate, req.EndDate, req.Reason, status,
	))
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return created, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, companyID string, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveColumns + `
		FROM leave_requests lr
		JOIN employees e ON e.id = lr.employee_id
		WHERE lr.id = $1 AND lr.company_id = $2`

	l, err := scanLeaveRequest(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return l, nil
}

// ListByEmployee implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListByEmployee(ctx context.Context, companyID string, employeeID string) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveColumns + `
		FROM leave_requests lr
		JOIN employees e ON e.id = lr.employee_id
		WHERE lr.company_id = $1 AND lr.employee_id = $2
		ORDER BY lr.start_date DESC`

	rows, err := q.Query(ctx, query, companyID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee leave requests: %w", err)
	}
	return collectLeaveRequests(rows)
}

// ListByCompany implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListByCompany(ctx context.Context, companyID string, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveColumns + `
		FROM leave_requests lr
		JOIN employees e ON e.id = lr.employee_id
		WHERE lr.company_id = $1 AND ($2::text IS NULL OR lr.status = $2)
		ORDER BY lr.start_date DESC`

	rows, err := q.Query(ctx, query, companyID, filter.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return collectLeaveRequests(rows)
}

// HasOverlap implements leave.LeaveRequestRepository. Both ranges are inclusive.
func (r *leaveRequestRepositoryImpl) HasOverlap(ctx context.Context, companyID string, employeeID string, start, end time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leave_requests
			WHERE company_id = $1
			  AND employee_id = $2
			  AND status <> 'rejected'
			  AND start_date <= $4
			  AND end_date >= $3
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, companyID, employeeID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check overlapping leave: %w", err)
	}
	return exists, nil
}

// LockEmployee takes a transaction-scoped advisory lock keyed on the employee.
func (r *leaveRequestRepositoryImpl) LockEmployee(ctx context.Context, employeeID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, employeeID); err != nil {
		return fmt.Errorf("failed to lock employee leave: %w", err)
	}
	return nil
}

// UpdateStatus implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) UpdateStatus(ctx context.Context, companyID string, id string, update leave.StatusUpdate) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH lr AS (
			UPDATE leave_requests
			SET status = $1, approved_by = $2, approval_date = $3, comments = $4, updated_at = NOW()
			WHERE id = $5 AND company_id = $6 AND status = 'pending'
			RETURNING *
		)
		SELECT ` + leaveColumns + `
		FROM lr
		JOIN employees e ON e.id = lr.employee_id
	`

	updated, err := scanLeaveRequest(q.QueryRow(ctx, query,
		update.Status, update.ApprovedBy, update.ApprovalDate, update.Comments, id, companyID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, companyID, id); getErr != nil {
				return leave.LeaveRequest{}, getErr
			}
			return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request status: %w", err)
	}
	return updated, nil
}
