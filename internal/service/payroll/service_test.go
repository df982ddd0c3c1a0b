package payroll

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stafma/stafma-backend-go/internal/domain/company"
	"github.com/stafma/stafma-backend-go/internal/domain/disbursement"
	"github.com/stafma/stafma-backend-go/internal/domain/employee"
	"github.com/stafma/stafma-backend-go/internal/domain/payroll"
	"github.com/stafma/stafma-backend-go/internal/repository/memory"
	disbursementservice "github.com/stafma/stafma-backend-go/internal/service/disbursement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transferFunc func(ctx context.Context, tx disbursement.Transaction) (bool, error)

func (f transferFunc) Attempt(ctx context.Context, tx disbursement.Transaction) (bool, error) {
	return f(ctx, tx)
}

var alwaysSucceeds = transferFunc(func(context.Context, disbursement.Transaction) (bool, error) {
	return true, nil
})

type payrollFixture struct {
	service      payroll.PayrollService
	employeeRepo employee.EmployeeRepository
	payrollRepo  payroll.PayrollRepository
	txRepo       disbursement.TransactionRepository
	companyID    string
}

func newPayrollFixture(t *testing.T, transferer disbursement.Transferer, concurrency int) *payrollFixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	companyRepo := memory.NewCompanyRepository(store)
	employeeRepo := memory.NewEmployeeRepository(store)
	payrollRepo := memory.NewPayrollRepository(store)
	txRepo := memory.NewTransactionRepository(store)

	c, err := companyRepo.Create(ctx, company.Company{
		Name:             "Acme Ltd",
		RegistrationDate: time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	disbursements := disbursementservice.NewDisbursementService(txRepo, transferer, disbursementservice.Options{
		ReferencePrefix: "TRX",
		TransferTimeout: time.Second,
	})
	guard := NewPeriodGuard(companyRepo, payrollRepo, WithClock(fixedClock(2024, time.June, 15)))

	svc := NewPayrollService(companyRepo, employeeRepo, payrollRepo, disbursements,
		NewCalculator(DefaultDeductionPolicy()), guard, Options{
			SourceAccount: disbursement.Account{
				BankName:      "Stafma Bank",
				AccountName:   "Stafma Payroll Account",
				AccountNumber: "1234567890",
			},
			Concurrency: concurrency,
		})

	return &payrollFixture{
		service:      svc,
		employeeRepo: employeeRepo,
		payrollRepo:  payrollRepo,
		txRepo:       txRepo,
		companyID:    c.ID,
	}
}

func (f *payrollFixture) addEmployee(t *testing.T, number, first, last string, basic int64, withBank bool) employee.Employee {
	t.Helper()
	e := employee.Employee{
		CompanyID:      f.companyID,
		EmployeeNumber: number,
		FirstName:      first,
		LastName:       last,
		Email:          number + "@acme.test",
		Position:       "Engineer",
		Department:     "Engineering",
		EmploymentType: employee.EmploymentTypePermanent,
		StartDate:      time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
		Status:         employee.StatusActive,
		Compensation: employee.Compensation{
			Basic:      decimal.NewFromInt(basic),
			Allowances: employee.Allowances{Housing: decimal.NewFromInt(2000)},
		},
	}
	if withBank {
		e.BankDetails = &employee.BankDetails{
			BankName:      "KCB",
			AccountName:   first + " " + last,
			AccountNumber: "ACC-" + number,
			BranchName:    "Moi Avenue",
		}
	}
	created, err := f.employeeRepo.Create(context.Background(), e)
	require.NoError(t, err)
	return created
}

func (f *payrollFixture) recordCount(t *testing.T) int {
	t.Helper()
	records, err := f.payrollRepo.ListRecords(context.Background(), f.companyID, payroll.PayrollFilter{})
	require.NoError(t, err)
	return len(records)
}

func TestProcessPayroll_SecondRunForSamePeriodIsRejected(t *testing.T) {
	f := newPayrollFixture(t, alwaysSucceeds, 1)
	f.addEmployee(t, "STAFMA0001", "Jane", "Doe", 30000, true)
	f.addEmployee(t, "STAFMA0002", "John", "Smith", 45000, true)
	ctx := context.Background()
	req := payroll.ProcessPayrollRequest{Month: 6, Year: 2023}

	first, err := f.service.ProcessPayroll(ctx, f.companyID, req)
	require.NoError(t, err)
	assert.Equal(t, 2, first.ProcessedCount)
	assert.Equal(t, "Payroll processed successfully for 2 employees", first.Message)
	require.Equal(t, 2, f.recordCount(t))

	_, err = f.service.ProcessPayroll(ctx, f.companyID, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, payroll.ErrPeriodInvalid)
	var periodErr *payroll.PeriodError
	require.ErrorAs(t, err, &periodErr)
	assert.True(t, periodErr.IsDuplicate())
	assert.NotNil(t, periodErr.ProcessedDate)

	assert.Equal(t, 2, f.recordCount(t))
}

func TestProcessPayroll_PartialFailureIsIsolated(t *testing.T) {
	f := newPayrollFixture(t, alwaysSucceeds, 1)
	f.addEmployee(t, "STAFMA0001", "Jane", "Doe", 30000, true)
	second := f.addEmployee(t, "STAFMA0002", "John", "Smith", 45000, false)
	f.addEmployee(t, "STAFMA0003", "Amina", "Otieno", 60000, true)

	resp, err := f.service.ProcessPayroll(context.Background(), f.companyID, payroll.ProcessPayrollRequest{Month: 6, Year: 2023})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.ProcessedCount)
	assert.Equal(t, 3, f.recordCount(t))
	assert.Len(t, resp.Transactions, 2)
	require.Len(t, resp.Warnings, 1)
	assert.Equal(t, "No bank details found for John Smith", resp.Warnings[0])

	for _, tx := range resp.Transactions {
		assert.NotEqual(t, second.ID, tx.EmployeeID)
		assert.Equal(t, "completed", tx.Status)
		assert.NotEmpty(t, tx.Reference)
	}
}

func TestProcessPayroll_TransactionAmountIsNetSalary(t *testing.T) {
	f := newPayrollFixture(t, alwaysSucceeds, 1)
	emp := f.addEmployee(t, "STAFMA0001", "Jane", "Doe", 38000, true)
	ctx := context.Background()

	resp, err := f.service.ProcessPayroll(ctx, f.companyID, payroll.ProcessPayrollRequest{Month: 6, Year: 2023})
	require.NoError(t, err)
	require.Len(t, resp.Transactions, 1)

	records, err := f.payrollRepo.ListRecords(ctx, f.companyID, payroll.PayrollFilter{EmployeeID: &emp.ID})
	require.NoError(t, err)
	require.Len(t, records, 1)

	// gross 40000: paye 6000, nhif 600, nssf 1080
	assert.True(t, decimal.NewFromInt(40000).Equal(records[0].GrossSalary))
	assert.True(t, decimal.NewFromInt(32320).Equal(records[0].NetSalary))
	assert.True(t, records[0].NetSalary.Equal(resp.Transactions[0].Amount))

	txs, err := f.txRepo.ListBySource(ctx, f.companyID, records[0].ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, disbursement.SourcePayroll, txs[0].SourceType)
	assert.Equal(t, "Stafma Payroll Account", txs[0].From.AccountName)
}

func TestProcessPayroll_FailedTransferIsReportedNotFatal(t *testing.T) {
	declines := transferFunc(func(context.Context, disbursement.Transaction) (bool, error) {
		return false, nil
	})
	f := newPayrollFixture(t, declines, 1)
	f.addEmployee(t, "STAFMA0001", "Jane", "Doe", 30000, true)

	resp, err := f.service.ProcessPayroll(context.Background(), f.companyID, payroll.ProcessPayrollRequest{Month: 6, Year: 2023})
	require.NoError(t, err)
	require.Len(t, resp.Transactions, 1)
	assert.Equal(t, "failed", resp.Transactions[0].Status)
	assert.Equal(t, 1, resp.ProcessedCount)
}

func TestProcessPayroll_NegativeNetIsRecordedWithoutTransfer(t *testing.T) {
	f := newPayrollFixture(t, alwaysSucceeds, 1)
	emp := employee.Employee{
		CompanyID:      f.companyID,
		EmployeeNumber: "STAFMA0001",
		FirstName:      "Jane",
		LastName:       "Doe",
		Email:          "jane@acme.test",
		EmploymentType: employee.EmploymentTypePermanent,
		Status:         employee.StatusActive,
		Compensation: employee.Compensation{
			Basic:      decimal.NewFromInt(1000),
			Deductions: employee.Deductions{Loans: decimal.NewFromInt(5000)},
		},
		BankDetails: &employee.BankDetails{BankName: "KCB", AccountName: "Jane Doe", AccountNumber: "1"},
	}
	_, err := f.employeeRepo.Create(context.Background(), emp)
	require.NoError(t, err)

	resp, err := f.service.ProcessPayroll(context.Background(), f.companyID, payroll.ProcessPayrollRequest{Month: 6, Year: 2023})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.ProcessedCount)
	assert.Empty(t, resp.Transactions)
	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], "Jane Doe")
}

func TestProcessPayroll_InvalidCompensationBecomesWarning(t *testing.T) {
	f := newPayrollFixture(t, alwaysSucceeds, 1)
	f.addEmployee(t, "STAFMA0001", "Jane", "Doe", 30000, true)
	f.addEmployee(t, "STAFMA0002", "Broken", "Record", 0, true)

	resp, err := f.service.ProcessPayroll(context.Background(), f.companyID, payroll.ProcessPayrollRequest{Month: 6, Year: 2023})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.ProcessedCount)
	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], "Error processing Broken Record")
}

func TestProcessPayroll_NoActiveEmployees(t *testing.T) {
	f := newPayrollFixture(t, alwaysSucceeds, 1)
	emp := f.addEmployee(t, "STAFMA0001", "Jane", "Doe", 30000, true)
	require.NoError(t, f.employeeRepo.UpdateStatus(context.Background(), f.companyID, emp.ID, employee.StatusInactive))

	_, err := f.service.ProcessPayroll(context.Background(), f.companyID, payroll.ProcessPayrollRequest{Month: 6, Year: 2023})
	assert.ErrorIs(t, err, payroll.ErrNoActiveEmployees)

	// The period stays open for a later run.
	status, err := f.payrollRepo.CheckProcessed(context.Background(), f.companyID, 6, 2023)
	require.NoError(t, err)
	assert.False(t, status.Processed)
}

func TestProcessPayroll_ValidationRunsFirst(t *testing.T) {
	f := newPayrollFixture(t, alwaysSucceeds, 1)

	_, err := f.service.ProcessPayroll(context.Background(), f.companyID, payroll.ProcessPayrollRequest{Month: 13, Year: 2023})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, payroll.ErrPeriodInvalid)
}

func TestProcessPayroll_ConcurrentRunsClaimPeriodOnce(t *testing.T) {
	var attempts atomic.Int32
	slow := transferFunc(func(context.Context, disbursement.Transaction) (bool, error) {
		attempts.Add(1)
		time.Sleep(5 * time.Millisecond)
		return true, nil
	})
	f := newPayrollFixture(t, slow, 4)
	for i, name := range []string{"Ann", "Ben", "Cid", "Dee", "Eve", "Fay"} {
		f.addEmployee(t, "STAFMA000"+string(rune('1'+i)), name, "Test", 25000, true)
	}

	const callers = 5
	results := make(chan error, callers)
	for i := 0; i < callers; i++ {
		go func() {
			_, err := f.service.ProcessPayroll(context.Background(), f.companyID, payroll.ProcessPayrollRequest{Month: 6, Year: 2023})
			results <- err
		}()
	}

	succeeded := 0
	for i := 0; i < callers; i++ {
		if err := <-results; err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, payroll.ErrPeriodInvalid)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 6, f.recordCount(t))
	assert.EqualValues(t, 6, attempts.Load())
}

func TestProcessPayroll_ConcurrentResultsKeepRosterOrder(t *testing.T) {
	f := newPayrollFixture(t, alwaysSucceeds, 3)
	f.addEmployee(t, "STAFMA0001", "Ann", "One", 30000, false)
	f.addEmployee(t, "STAFMA0002", "Ben", "Two", 30000, false)
	f.addEmployee(t, "STAFMA0003", "Cid", "Three", 30000, false)

	resp, err := f.service.ProcessPayroll(context.Background(), f.companyID, payroll.ProcessPayrollRequest{Month: 6, Year: 2023})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"No bank details found for Ann One",
		"No bank details found for Ben Two",
		"No bank details found for Cid Three",
	}, resp.Warnings)
}

func TestProcessSingleEmployee_UpsertsAfterFullRun(t *testing.T) {
	f := newPayrollFixture(t, alwaysSucceeds, 1)
	emp := f.addEmployee(t, "STAFMA0001", "Jane", "Doe", 30000, true)
	ctx := context.Background()

	_, err := f.service.ProcessPayroll(ctx, f.companyID, payroll.ProcessPayrollRequest{Month: 6, Year: 2023})
	require.NoError(t, err)

	rec, err := f.service.ProcessSingleEmployee(ctx, f.companyID, payroll.ProcessEmployeeRequest{
		EmployeeID: emp.ID, Month: 6, Year: 2023,
	})
	require.NoError(t, err)
	assert.Equal(t, emp.ID, rec.EmployeeID)
	assert.Equal(t, 1, f.recordCount(t))

	_, err = f.service.ProcessSingleEmployee(ctx, f.companyID, payroll.ProcessEmployeeRequest{
		EmployeeID: "missing", Month: 6, Year: 2023,
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestGetPayslip(t *testing.T) {
	f := newPayrollFixture(t, alwaysSucceeds, 1)
	emp := f.addEmployee(t, "STAFMA0001", "Jane", "Doe", 30000, true)
	ctx := context.Background()

	rec, err := f.service.ProcessSingleEmployee(ctx, f.companyID, payroll.ProcessEmployeeRequest{
		EmployeeID: emp.ID, Month: 5, Year: 2024,
	})
	require.NoError(t, err)

	file, err := f.service.GetPayslip(ctx, f.companyID, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, "payslip-STAFMA0001-2024-05.pdf", file.Filename)
	assert.True(t, len(file.Content) > 4)
	assert.Equal(t, "%PDF", string(file.Content[:4]))

	_, err = f.service.GetPayslip(ctx, "other-company", rec.ID)
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)
}

func TestHistoryAndSummary(t *testing.T) {
	f := newPayrollFixture(t, alwaysSucceeds, 1)
	jane := f.addEmployee(t, "STAFMA0001", "Jane", "Doe", 30000, true)
	f.addEmployee(t, "STAFMA0002", "John", "Smith", 45000, true)
	ctx := context.Background()

	_, err := f.service.ProcessPayroll(ctx, f.companyID, payroll.ProcessPayrollRequest{Month: 5, Year: 2023})
	require.NoError(t, err)
	_, err = f.service.ProcessPayroll(ctx, f.companyID, payroll.ProcessPayrollRequest{Month: 6, Year: 2023})
	require.NoError(t, err)

	history, err := f.service.GetHistory(ctx, f.companyID, payroll.PayrollFilter{})
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, 6, history[0].Month)

	janeHistory, err := f.service.GetEmployeeHistory(ctx, f.companyID, jane.ID)
	require.NoError(t, err)
	assert.Len(t, janeHistory, 2)

	summary, err := f.service.GetSummary(ctx, f.companyID, 6, 2023)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalEmployees)
	assert.True(t, decimal.NewFromInt(32000+47000).Equal(summary.TotalGross))

	checked, err := f.service.CheckProcessed(ctx, f.companyID, 6, 2023)
	require.NoError(t, err)
	assert.True(t, checked.Processed)

	checked, err = f.service.CheckProcessed(ctx, f.companyID, 7, 2023)
	require.NoError(t, err)
	assert.False(t, checked.Processed)
}
