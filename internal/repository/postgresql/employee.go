package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stafma/stafma-backend-go/internal/domain/employee"
	"github.com/stafma/stafma-backend-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	id, company_id, employee_number, first_name, last_name, email, position, department,
	employment_type, employment_end_date, start_date, status,
	basic_salary, housing_allowance, transport_allowance, medical_allowance, other_allowance,
	loan_deduction, other_deduction,
	bank_name, bank_account_name, bank_account_number, bank_branch_name, bank_swift_code, bank_code,
	created_at, updated_at`

// scanEmployee reads one row selected with employeeColumns.
func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var (
		e                                                     employee.Employee
		basic, housing, transport, medical, other, loan, dedu decimal.Decimal
		bankName, accountName, accountNumber, branchName      *string
		swiftCode, bankCode                                   *string
		endDate                                               *time.Time
	)
	err := row.Scan(
		&e.ID, &e.CompanyID, &e.EmployeeNumber, &e.FirstName, &e.LastName, &e.Email, &e.Position, &e.Department,
		&e.EmploymentType, &endDate, &e.StartDate, &e.Status,
		&basic, &housing, &transport, &medical, &other,
		&loan, &dedu,
		&bankName, &accountName, &accountNumber, &branchName, &swiftCode, &bankCode,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}

	e.EmploymentEndDate = endDate
	e.Compensation = employee.Compensation{
		Basic: basic,
		Allowances: employee.Allowances{
			Housing:   housing,
			Transport: transport,
			Medical:   medical,
			Other:     other,
		},
		Deductions: employee.Deductions{
			Loans: loan,
			Other: dedu,
		},
	}
	if bankName != nil && accountName != nil && accountNumber != nil {
		e.BankDetails = &employee.BankDetails{
			BankName:      *bankName,
			AccountName:   *accountName,
			AccountNumber: *accountNumber,
			BranchName:    stringOrEmpty(branchName),
			SwiftCode:     swiftCode,
			BankCode:      bankCode,
		}
	}
	return e, nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func collectEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return employees, nil
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		INSERT INTO employees (
			company_id, employee_number, first_name, last_name, email, position, department,
			employment_type, employment_end_date, start_date, status,
			basic_salary, housing_allowance, transport_allowance, medical_allowance, other_allowance,
			loan_deduction, other_deduction,
			bank_name, bank_account_name, bank_account_number, bank_branch_name, bank_swift_code, bank_code
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
		RETURNING ` + employeeColumns

	var bankName, accountName, accountNumber, branchName, swiftCode, bankCode *string
	if b := newEmployee.BankDetails; b != nil {
		bankName, accountName, accountNumber, branchName = &b.BankName, &b.AccountName, &b.AccountNumber, &b.BranchName
		swiftCode, bankCode = b.SwiftCode, b.BankCode
	}
	status := newEmployee.Status
	if status == "" {
		status = employee.StatusActive
	}
	comp := newEmployee.Compensation

	created, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.CompanyID, newEmployee.EmployeeNumber, newEmployee.FirstName, newEmployee.LastName,
		newEmployee.Email, newEmployee.Position, newEmployee.Department,
		newEmployee.EmploymentType, newEmployee.EmploymentEndDate, newEmployee.StartDate, status,
		comp.Basic, comp.Allowances.Housing, comp.Allowances.Transport, comp.Allowances.Medical, comp.Allowances.Other,
		comp.Deductions.Loans, comp.Deductions.Other,
		bankName, accountName, accountNumber, branchName, swiftCode, bankCode,
	))
	if err != nil {
		switch {
		case database.IsUniqueViolation(err, "uk_employee_number"):
			return employee.Employee{}, employee.ErrEmployeeNumberExists
		case database.IsUniqueViolation(err, "uk_employee_email"):
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, companyID string, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1 AND company_id = $2`

	found, err := scanEmployee(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by ID: %w", err)
	}
	return found, nil
}

// GetByIDs implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByIDs(ctx context.Context, companyID string, ids []string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + `
		FROM employees
		WHERE company_id = $1 AND id = ANY($2::uuid[])
		ORDER BY employee_number`

	rows, err := q.Query(ctx, query, companyID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get employees by IDs: %w", err)
	}
	return collectEmployees(rows)
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context, companyID string, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	conditions := []string{"company_id = $1"}
	args := []interface{}{companyID}
	argIdx := 2

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Department != nil {
		conditions = append(conditions, fmt.Sprintf("department ILIKE $%d", argIdx))
		args = append(args, *filter.Department)
		argIdx++
	}
	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf(
			"(first_name || ' ' || last_name ILIKE $%d OR email ILIKE $%d OR employee_number ILIKE $%d)",
			argIdx, argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
	}

	query := fmt.Sprintf(`SELECT %s FROM employees WHERE %s ORDER BY employee_number`,
		employeeColumns, strings.Join(conditions, " AND "))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return collectEmployees(rows)
}

// ListActive implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListActive(ctx context.Context, companyID string) ([]employee.Employee, error) {
	active := string(employee.StatusActive)
	return e.List(ctx, companyID, employee.EmployeeFilter{Status: &active})
}

// CountByCompany implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) CountByCompany(ctx context.Context, companyID string) (int, error) {
	q := GetQuerier(ctx, e.db)

	var count int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE company_id = $1`, companyID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return count, nil
}

// UpdateBankDetails implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) UpdateBankDetails(ctx context.Context, companyID string, id string, details employee.BankDetails) error {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET bank_name = $1, bank_account_name = $2, bank_account_number = $3,
			bank_branch_name = $4, bank_swift_code = $5, bank_code = $6, updated_at = NOW()
		WHERE id = $7 AND company_id = $8
	`

	tag, err := q.Exec(ctx, query,
		details.BankName, details.AccountName, details.AccountNumber,
		details.BranchName, details.SwiftCode, details.BankCode, id, companyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bank details: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// UpdateStatus implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) UpdateStatus(ctx context.Context, companyID string, id string, status employee.Status) error {
	q := GetQuerier(ctx, e.db)

	tag, err := q.Exec(ctx,
		`UPDATE employees SET status = $1, updated_at = NOW() WHERE id = $2 AND company_id = $3`,
		status, id, companyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update employee status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
