package postgresqltest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stafma/stafma-backend-go/internal/domain/advance"
	"github.com/stafma/stafma-backend-go/internal/domain/company"
	"github.com/stafma/stafma-backend-go/internal/domain/disbursement"
	"github.com/stafma/stafma-backend-go/internal/domain/employee"
	"github.com/stafma/stafma-backend-go/internal/domain/leave"
	"github.com/stafma/stafma-backend-go/internal/domain/payroll"
	"github.com/stafma/stafma-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *TestDatabaseSetup {
	t.Helper()
	ctx := context.Background()

	setup, err := NewTestDatabase(ctx)
	require.NoError(t, err)
	if setup == nil {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, setup.TruncateAllTables(ctx))
	t.Cleanup(setup.Close)
	return setup
}

func seedCompanyAndEmployee(t *testing.T, setup *TestDatabaseSetup) (company.Company, employee.Employee) {
	t.Helper()
	ctx := context.Background()

	c, err := postgresql.NewCompanyRepository(setup.DB).Create(ctx, company.Company{
		Name:             "Acme Ltd",
		RegistrationDate: time.Date(2023, time.March, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	e, err := postgresql.NewEmployeeRepository(setup.DB).Create(ctx, employee.Employee{
		CompanyID:      c.ID,
		EmployeeNumber: "STAFMA0001",
		FirstName:      "Jane",
		LastName:       "Doe",
		Email:          "jane@acme.test",
		Position:       "Engineer",
		Department:     "Engineering",
		EmploymentType: employee.EmploymentTypePermanent,
		StartDate:      time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC),
		Status:         employee.StatusActive,
		Compensation: employee.Compensation{
			Basic:      decimal.NewFromInt(38000),
			Allowances: employee.Allowances{Housing: decimal.NewFromInt(2000)},
		},
		BankDetails: &employee.BankDetails{BankName: "KCB", AccountName: "Jane Doe", AccountNumber: "0011", BranchName: "Moi Avenue"},
	})
	require.NoError(t, err)
	return c, e
}

func TestCompanyRepository(t *testing.T) {
	setup := setupDB(t)
	ctx := context.Background()
	repo := postgresql.NewCompanyRepository(setup.DB)

	created, err := repo.Create(ctx, company.Company{Name: "Acme Ltd"})
	require.NoError(t, err)
	assert.False(t, created.RegistrationDate.IsZero())

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", found.Name)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, company.ErrCompanyNotFound)
}

func TestEmployeeRepository(t *testing.T) {
	setup := setupDB(t)
	ctx := context.Background()
	c, e := seedCompanyAndEmployee(t, setup)
	repo := postgresql.NewEmployeeRepository(setup.DB)

	found, err := repo.GetByID(ctx, c.ID, e.ID)
	require.NoError(t, err)
	require.NotNil(t, found.BankDetails)
	assert.True(t, decimal.NewFromInt(38000).Equal(found.Compensation.Basic))

	dup := e
	dup.Email = "other@acme.test"
	_, err = repo.Create(ctx, dup)
	assert.ErrorIs(t, err, employee.ErrEmployeeNumberExists)

	dup = e
	dup.EmployeeNumber = "STAFMA0002"
	_, err = repo.Create(ctx, dup)
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	count, err := repo.CountByCompany(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, repo.UpdateStatus(ctx, c.ID, e.ID, employee.StatusInactive))
	active, err := repo.ListActive(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, active)

	err = repo.UpdateStatus(ctx, uuid.NewString(), e.ID, employee.StatusActive)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestPayrollRepository_ClaimAndRecords(t *testing.T) {
	setup := setupDB(t)
	ctx := context.Background()
	c, e := seedCompanyAndEmployee(t, setup)
	repo := postgresql.NewPayrollRepository(setup.DB)

	status, err := repo.CheckProcessed(ctx, c.ID, 6, 2023)
	require.NoError(t, err)
	assert.False(t, status.Processed)

	run, err := repo.ClaimPeriod(ctx, payroll.PayrollRun{CompanyID: c.ID, Month: 6, Year: 2023})
	require.NoError(t, err)
	_, err = repo.ClaimPeriod(ctx, payroll.PayrollRun{CompanyID: c.ID, Month: 6, Year: 2023})
	assert.ErrorIs(t, err, payroll.ErrPeriodAlreadyClaimed)

	line := payroll.Line{
		BasicSalary: decimal.NewFromInt(38000),
		Allowances:  decimal.NewFromInt(2000),
		GrossSalary: decimal.NewFromInt(40000),
		Deductions: payroll.Deductions{
			PAYE:  decimal.NewFromInt(6000),
			NHIF:  decimal.NewFromInt(600),
			NSSF:  decimal.NewFromInt(1080),
			Other: decimal.Zero,
			Total: decimal.NewFromInt(7680),
		},
		NetSalary: decimal.NewFromInt(32320),
	}
	record := payroll.PayrollRecord{CompanyID: c.ID, EmployeeID: e.ID, Month: 6, Year: 2023, Line: line, ProcessedDate: run.ProcessedDate}

	created, err := repo.CreateRecord(ctx, record)
	require.NoError(t, err)
	require.NotNil(t, created.EmployeeName)
	assert.Equal(t, "Jane Doe", *created.EmployeeName)

	_, err = repo.CreateRecord(ctx, record)
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordAlreadyExists)

	record.Line.NetSalary = decimal.NewFromInt(30000)
	upserted, err := repo.UpsertRecord(ctx, record)
	require.NoError(t, err)
	assert.Equal(t, created.ID, upserted.ID)
	assert.True(t, decimal.NewFromInt(30000).Equal(upserted.NetSalary))

	status, err = repo.CheckProcessed(ctx, c.ID, 6, 2023)
	require.NoError(t, err)
	assert.True(t, status.Processed)
	require.NotNil(t, status.ProcessedDate)

	summary, err := repo.GetSummary(ctx, c.ID, 6, 2023)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalEmployees)
	assert.True(t, decimal.NewFromInt(40000).Equal(summary.TotalGross))

	_, err = repo.GetRecordByID(ctx, uuid.NewString(), created.ID)
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)
}

func TestTransactionRepository(t *testing.T) {
	setup := setupDB(t)
	ctx := context.Background()
	c, e := seedCompanyAndEmployee(t, setup)
	repo := postgresql.NewTransactionRepository(setup.DB)

	tx := disbursement.Transaction{
		CompanyID:  c.ID,
		SourceType: disbursement.SourcePayroll,
		EmployeeID: e.ID,
		Amount:     decimal.NewFromInt(32320),
		From:       disbursement.Account{BankName: "Stafma Bank", AccountName: "Payroll", AccountNumber: "1"},
		To:         disbursement.Account{BankName: "KCB", AccountName: "Jane Doe", AccountNumber: "0011"},
		Status:     disbursement.StatusPending,
		Reference:  "TRX-" + uuid.NewString(),
	}
	created, err := repo.Create(ctx, tx)
	require.NoError(t, err)

	_, err = repo.Create(ctx, tx)
	assert.ErrorIs(t, err, disbursement.ErrReferenceExists)

	resolved, err := repo.Resolve(ctx, created.ID, disbursement.StatusCompleted, nil)
	require.NoError(t, err)
	assert.Equal(t, disbursement.StatusCompleted, resolved.Status)

	_, err = repo.Resolve(ctx, created.ID, disbursement.StatusFailed, nil)
	assert.ErrorIs(t, err, disbursement.ErrTransactionNotPending)

	_, err = repo.GetByReference(ctx, uuid.NewString(), tx.Reference)
	assert.ErrorIs(t, err, disbursement.ErrTransactionNotFound)

	stale := tx
	stale.Reference = "TRX-" + uuid.NewString()
	_, err = repo.Create(ctx, stale)
	require.NoError(t, err)
	failed, err := repo.FailStalePending(ctx, time.Now().Add(time.Minute), "transfer did not complete")
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, stale.Reference, failed[0].Reference)
}

func TestAdvanceRepository_StatusTransition(t *testing.T) {
	setup := setupDB(t)
	ctx := context.Background()
	c, e := seedCompanyAndEmployee(t, setup)
	repo := postgresql.NewAdvanceRepository(setup.DB)

	now := time.Now().UTC()
	created, err := repo.Create(ctx, advance.SalaryAdvance{
		CompanyID:       c.ID,
		EmployeeIDs:     []string{e.ID},
		Amount:          decimal.NewFromInt(1000),
		Fee:             decimal.NewFromInt(50),
		TotalAmount:     decimal.NewFromInt(1050),
		Reason:          "Rent",
		Status:          advance.StatusPending,
		RequestDate:     now,
		RepaymentDate:   now.AddDate(0, 0, 30),
		RepaymentStatus: advance.RepaymentPending,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{e.ID}, created.EmployeeIDs)

	approved, err := repo.UpdateStatus(ctx, c.ID, created.ID, advance.StatusPending, advance.StatusUpdate{Status: advance.StatusApproved, ApprovalDate: &now})
	require.NoError(t, err)
	assert.Equal(t, advance.StatusApproved, approved.Status)

	_, err = repo.UpdateStatus(ctx, c.ID, created.ID, advance.StatusPending, advance.StatusUpdate{Status: advance.StatusRejected})
	assert.ErrorIs(t, err, advance.ErrInvalidStatusTransition)

	_, err = repo.UpdateStatus(ctx, c.ID, uuid.NewString(), advance.StatusPending, advance.StatusUpdate{Status: advance.StatusRejected})
	assert.ErrorIs(t, err, advance.ErrAdvanceNotFound)
}

func TestLeaveRequestRepository_OverlapInsideTransaction(t *testing.T) {
	setup := setupDB(t)
	ctx := context.Background()
	c, e := seedCompanyAndEmployee(t, setup)
	repo := postgresql.NewLeaveRequestRepository(setup.DB)
	transactor := postgresql.NewTransactor(setup.DB)

	day := func(d int) time.Time { return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC) }

	err := transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		require.NoError(t, repo.LockEmployee(txCtx, e.ID))
		overlaps, err := repo.HasOverlap(txCtx, c.ID, e.ID, day(10), day(20))
		require.NoError(t, err)
		require.False(t, overlaps)
		_, err = repo.Create(txCtx, leave.LeaveRequest{
			CompanyID: c.ID, EmployeeID: e.ID, LeaveType: leave.LeaveTypeAnnual,
			StartDate: day(10), EndDate: day(20), Reason: "Holiday", Status: leave.LeaveRequestStatusPending,
		})
		return err
	})
	require.NoError(t, err)

	overlaps, err := repo.HasOverlap(ctx, c.ID, e.ID, day(15), day(25))
	require.NoError(t, err)
	assert.True(t, overlaps)

	overlaps, err = repo.HasOverlap(ctx, c.ID, e.ID, day(21), day(25))
	require.NoError(t, err)
	assert.False(t, overlaps)

	requests, err := repo.ListByEmployee(ctx, c.ID, e.ID)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	require.NotNil(t, requests[0].EmployeeName)
	assert.Equal(t, "Jane Doe", *requests[0].EmployeeName)
}
