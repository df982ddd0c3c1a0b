package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stafma/stafma-backend-go/internal/domain/payroll"
	"github.com/stafma/stafma-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== RUNS ==========

func (r *payrollRepository) ClaimPeriod(ctx context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_runs (company_id, period_month, period_year, processed_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, company_id, period_month, period_year, processed_by, processed_date
	`

	var claimed payroll.PayrollRun
	err := q.QueryRow(ctx, query, run.CompanyID, run.Month, run.Year, run.ProcessedBy).Scan(
		&claimed.ID, &claimed.CompanyID, &claimed.Month, &claimed.Year, &claimed.ProcessedBy, &claimed.ProcessedDate,
	)
	if err != nil {
		if database.IsUniqueViolation(err, "uk_company_period") {
			return payroll.PayrollRun{}, payroll.ErrPeriodAlreadyClaimed
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to claim payroll period: %w", err)
	}
	return claimed, nil
}

func (r *payrollRepository) GetRun(ctx context.Context, companyID string, month, year int) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, period_month, period_year, processed_by, processed_date
		FROM payroll_runs
		WHERE company_id = $1 AND period_month = $2 AND period_year = $3
	`

	var run payroll.PayrollRun
	err := q.QueryRow(ctx, query, companyID, month, year).Scan(
		&run.ID, &run.CompanyID, &run.Month, &run.Year, &run.ProcessedBy, &run.ProcessedDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRun{}, payroll.ErrPayrollRunNotFound
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to get payroll run: %w", err)
	}
	return run, nil
}

// CheckProcessed treats a period as processed when a run claimed it or when
// any record exists for it.
func (r *payrollRepository) CheckProcessed(ctx context.Context, companyID string, month, year int) (payroll.ProcessedStatus, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT MIN(processed_date) FROM (
			SELECT processed_date FROM payroll_runs
			WHERE company_id = $1 AND period_month = $2 AND period_year = $3
			UNION ALL
			SELECT processed_date FROM payroll_records
			WHERE company_id = $1 AND period_month = $2 AND period_year = $3
		) p
	`

	var processedDate *time.Time
	if err := q.QueryRow(ctx, query, companyID, month, year).Scan(&processedDate); err != nil {
		return payroll.ProcessedStatus{}, fmt.Errorf("failed to check processed period: %w", err)
	}
	return payroll.ProcessedStatus{Processed: processedDate != nil, ProcessedDate: processedDate}, nil
}

// ========== RECORDS ==========

const recordColumns = `
	pr.id, pr.company_id, pr.employee_id, pr.period_month, pr.period_year,
	pr.basic_salary, pr.allowances, pr.gross_salary,
	pr.paye, pr.nhif, pr.nssf, pr.other_deductions, pr.total_deductions,
	pr.net_salary, pr.processed_date, pr.created_at, pr.updated_at,
	e.first_name || ' ' || e.last_name, e.employee_number, e.position, e.department`

func scanRecord(row pgx.Row) (payroll.PayrollRecord, error) {
	var rec payroll.PayrollRecord
	err := row.Scan(
		&rec.ID, &rec.CompanyID, &rec.EmployeeID, &rec.Month, &rec.Year,
		&rec.BasicSalary, &rec.Allowances, &rec.GrossSalary,
		&rec.Deductions.PAYE, &rec.Deductions.NHIF, &rec.Deductions.NSSF, &rec.Deductions.Other, &rec.Deductions.Total,
		&rec.NetSalary, &rec.ProcessedDate, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName, &rec.EmployeeNumber, &rec.Position, &rec.Department,
	)
	return rec, err
}

func (r *payrollRepository) writeRecord(ctx context.Context, record payroll.PayrollRecord, onConflict string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH pr AS (
			INSERT INTO payroll_records (
				company_id, employee_id, period_month, period_year,
				basic_salary, allowances, gross_salary,
				paye, nhif, nssf, other_deductions, total_deductions, net_salary
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			` + onConflict + `
			RETURNING *
		)
		SELECT ` + recordColumns + `
		FROM pr
		JOIN employees e ON e.id = pr.employee_id
	`

	return scanRecord(q.QueryRow(ctx, query,
		record.CompanyID, record.EmployeeID, record.Month, record.Year,
		record.BasicSalary, record.Allowances, record.GrossSalary,
		record.Deductions.PAYE, record.Deductions.NHIF, record.Deductions.NSSF,
		record.Deductions.Other, record.Deductions.Total, record.NetSalary,
	))
}

func (r *payrollRepository) CreateRecord(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	created, err := r.writeRecord(ctx, record, "")
	if err != nil {
		if database.IsUniqueViolation(err, "uk_employee_period") {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to create payroll record: %w", err)
	}
	return created, nil
}

func (r *payrollRepository) UpsertRecord(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	onConflict := `
			ON CONFLICT ON CONSTRAINT uk_employee_period DO UPDATE SET
				basic_salary = EXCLUDED.basic_salary,
				allowances = EXCLUDED.allowances,
				gross_salary = EXCLUDED.gross_salary,
				paye = EXCLUDED.paye,
				nhif = EXCLUDED.nhif,
				nssf = EXCLUDED.nssf,
				other_deductions = EXCLUDED.other_deductions,
				total_deductions = EXCLUDED.total_deductions,
				net_salary = EXCLUDED.net_salary,
				processed_date = NOW(),
				updated_at = NOW()`

	saved, err := r.writeRecord(ctx, record, onConflict)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to upsert payroll record: %w", err)
	}
	return saved, nil
}

func (r *payrollRepository) GetRecordByID(ctx context.Context, companyID string, id string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + recordColumns + `
		FROM payroll_records pr
		JOIN employees e ON e.id = pr.employee_id
		WHERE pr.id = $1 AND pr.company_id = $2`

	rec, err := scanRecord(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return rec, nil
}

func (r *payrollRepository) ListRecords(ctx context.Context, companyID string, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"pr.company_id = $1"}
	args := []interface{}{companyID}
	argIdx := 2

	if filter.Month != nil {
		conditions = append(conditions, fmt.Sprintf("pr.period_month = $%d", argIdx))
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("pr.period_year = $%d", argIdx))
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("pr.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
	}

	query := fmt.Sprintf(`SELECT %s
		FROM payroll_records pr
		JOIN employees e ON e.id = pr.employee_id
		WHERE %s
		ORDER BY pr.period_year DESC, pr.period_month DESC, e.employee_number`,
		recordColumns, strings.Join(conditions, " AND "))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payroll records: %w", err)
	}
	return records, nil
}

// ========== AGGREGATIONS ==========

func (r *payrollRepository) GetSummary(ctx context.Context, companyID string, month, year int) (payroll.PayrollSummaryResponse, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(gross_salary), 0),
			COALESCE(SUM(net_salary), 0),
			COALESCE(SUM(paye), 0),
			COALESCE(SUM(nhif), 0),
			COALESCE(SUM(nssf), 0)
		FROM payroll_records
		WHERE company_id = $1 AND period_month = $2 AND period_year = $3
	`

	s := payroll.PayrollSummaryResponse{Month: month, Year: year}
	err := q.QueryRow(ctx, query, companyID, month, year).Scan(
		&s.TotalEmployees, &s.TotalGross, &s.TotalNet, &s.TotalPAYE, &s.TotalNHIF, &s.TotalNSSF,
	)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}
	return s, nil
}
