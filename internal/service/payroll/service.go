package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stafma/stafma-backend-go/internal/domain/company"
	"github.com/stafma/stafma-backend-go/internal/domain/disbursement"
	"github.com/stafma/stafma-backend-go/internal/domain/employee"
	"github.com/stafma/stafma-backend-go/internal/domain/payroll"
	"github.com/stafma/stafma-backend-go/internal/pkg/sse"
	"github.com/stafma/stafma-backend-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	// SourceAccount is the company-side account salaries are paid from.
	SourceAccount disbursement.Account
	// Concurrency caps how many employees are processed at once. Values
	// below 2 process the roster sequentially.
	Concurrency int
	Events      sse.Publisher
}

type PayrollServiceImpl struct {
	companyRepo   company.CompanyRepository
	employeeRepo  employee.EmployeeRepository
	payrollRepo   payroll.PayrollRepository
	disbursements disbursement.DisbursementService
	calculator    *Calculator
	guard         *PeriodGuard
	opts          Options
}

func NewPayrollService(
	companyRepo company.CompanyRepository,
	employeeRepo employee.EmployeeRepository,
	payrollRepo payroll.PayrollRepository,
	disbursements disbursement.DisbursementService,
	calculator *Calculator,
	guard *PeriodGuard,
	opts Options,
) payroll.PayrollService {
	if opts.Events == nil {
		opts.Events = sse.Discard
	}
	return &PayrollServiceImpl{
		companyRepo:   companyRepo,
		employeeRepo:  employeeRepo,
		payrollRepo:   payrollRepo,
		disbursements: disbursements,
		calculator:    calculator,
		guard:         guard,
		opts:          opts,
	}
}

// employeeOutcome is what one roster entry contributed to a run.
type employeeOutcome struct {
	recorded    bool
	warning     string
	transaction *payroll.TransactionSummary
}

// ProcessPayroll implements payroll.PayrollService.
func (s *PayrollServiceImpl) ProcessPayroll(ctx context.Context, companyID string, req payroll.ProcessPayrollRequest) (payroll.ProcessPayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ProcessPayrollResponse{}, err
	}
	period := req.Period()

	if err := s.guard.Check(ctx, companyID, period); err != nil {
		return payroll.ProcessPayrollResponse{}, err
	}

	roster, err := s.employeeRepo.ListActive(ctx, companyID)
	if err != nil {
		return payroll.ProcessPayrollResponse{}, fmt.Errorf("failed to list active employees: %w", err)
	}
	if len(roster) == 0 {
		return payroll.ProcessPayrollResponse{}, payroll.ErrNoActiveEmployees
	}

	// The guard only reads; the claim is what makes the run exactly-once.
	run, err := s.payrollRepo.ClaimPeriod(ctx, payroll.PayrollRun{
		CompanyID:   companyID,
		Month:       period.Month,
		Year:        period.Year,
		ProcessedBy: req.ProcessedBy,
	})
	if err != nil {
		if errors.Is(err, payroll.ErrPeriodAlreadyClaimed) {
			return payroll.ProcessPayrollResponse{}, s.duplicateRunError(ctx, companyID, period)
		}
		return payroll.ProcessPayrollResponse{}, fmt.Errorf("failed to claim payroll period: %w", err)
	}

	slog.Info("Processing payroll", "company_id", companyID, "period", period.String(), "employees", len(roster))

	outcomes := make([]employeeOutcome, len(roster))
	if s.opts.Concurrency < 2 {
		for i, emp := range roster {
			outcomes[i] = s.processEmployee(ctx, run, emp)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(s.opts.Concurrency)
		for i, emp := range roster {
			g.Go(func() error {
				outcomes[i] = s.processEmployee(ctx, run, emp)
				return nil
			})
		}
		_ = g.Wait()
	}

	resp := payroll.ProcessPayrollResponse{Transactions: []payroll.TransactionSummary{}}
	for _, o := range outcomes {
		if o.recorded {
			resp.ProcessedCount++
		}
		if o.warning != "" {
			slog.Warn("Payroll employee warning", "company_id", companyID, "period", period.String(), "warning", o.warning)
			resp.Warnings = append(resp.Warnings, o.warning)
		}
		if o.transaction != nil {
			resp.Transactions = append(resp.Transactions, *o.transaction)
		}
	}
	resp.Message = fmt.Sprintf("Payroll processed successfully for %d employees", resp.ProcessedCount)

	slog.Info("Payroll processed",
		"company_id", companyID,
		"period", period.String(),
		"records", resp.ProcessedCount,
		"transactions", len(resp.Transactions),
		"warnings", len(resp.Warnings),
	)
	s.opts.Events.Publish(companyID, sse.Event{
		Event: sse.EventPayrollProcessed,
		Data: map[string]interface{}{
			"month": period.Month,
			"year":  period.Year,
			"count": resp.ProcessedCount,
		},
	})

	return resp, nil
}

func (s *PayrollServiceImpl) duplicateRunError(ctx context.Context, companyID string, period payroll.Period) error {
	periodErr := &payroll.PeriodError{Reason: payroll.ReasonAlreadyProcessed, Period: period}
	if run, err := s.payrollRepo.GetRun(ctx, companyID, period.Month, period.Year); err == nil {
		processed := run.ProcessedDate
		periodErr.ProcessedDate = &processed
	}
	return periodErr
}

// processEmployee never fails the run; problems become a warning.
func (s *PayrollServiceImpl) processEmployee(ctx context.Context, run payroll.PayrollRun, emp employee.Employee) employeeOutcome {
	name := emp.FullName()

	line, err := s.calculator.Calculate(emp.Compensation)
	if err != nil {
		return employeeOutcome{warning: fmt.Sprintf("Error processing %s: %s", name, err.Error())}
	}

	record, err := s.payrollRepo.CreateRecord(ctx, payroll.PayrollRecord{
		CompanyID:     run.CompanyID,
		EmployeeID:    emp.ID,
		Month:         run.Month,
		Year:          run.Year,
		Line:          line,
		ProcessedDate: run.ProcessedDate,
	})
	if err != nil {
		slog.Error("Failed to create payroll record", "employee_id", emp.ID, "error", err)
		return employeeOutcome{warning: fmt.Sprintf("Error processing %s: %s", name, err.Error())}
	}

	out := employeeOutcome{recorded: true}
	if !emp.HasBankDetails() {
		out.warning = fmt.Sprintf("No bank details found for %s", name)
		return out
	}
	if !line.NetSalary.IsPositive() {
		out.warning = fmt.Sprintf("Net salary for %s is %s, no transfer made", name, line.NetSalary.StringFixed(2))
		return out
	}

	bank := emp.BankDetails
	tx, err := s.disbursements.Disburse(ctx, disbursement.DisburseRequest{
		CompanyID:  run.CompanyID,
		SourceType: disbursement.SourcePayroll,
		SourceID:   record.ID,
		EmployeeID: emp.ID,
		Amount:     line.NetSalary,
		From:       s.opts.SourceAccount,
		To: disbursement.Account{
			BankName:      bank.BankName,
			AccountName:   bank.AccountName,
			AccountNumber: bank.AccountNumber,
			BranchName:    bank.BranchName,
			SwiftCode:     bank.SwiftCode,
			BankCode:      bank.BankCode,
		},
	})
	if err != nil {
		slog.Error("Failed to disburse salary", "employee_id", emp.ID, "error", err)
		out.warning = fmt.Sprintf("Error processing %s: %s", name, err.Error())
		return out
	}

	out.transaction = &payroll.TransactionSummary{
		EmployeeID: tx.EmployeeID,
		Amount:     tx.Amount,
		Status:     string(tx.Status),
		Reference:  tx.Reference,
	}
	return out
}

// ProcessSingleEmployee implements payroll.PayrollService. It is an admin
// correction path: it overwrites the employee's record for the period and
// does not disburse.
func (s *PayrollServiceImpl) ProcessSingleEmployee(ctx context.Context, companyID string, req payroll.ProcessEmployeeRequest) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	if !validator.IsValidUUID(req.EmployeeID) {
		return payroll.PayrollRecordResponse{}, employee.ErrEmployeeNotFound
	}

	emp, err := s.employeeRepo.GetByID(ctx, companyID, req.EmployeeID)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	line, err := s.calculator.Calculate(emp.Compensation)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	record, err := s.payrollRepo.UpsertRecord(ctx, payroll.PayrollRecord{
		CompanyID:     companyID,
		EmployeeID:    emp.ID,
		Month:         req.Month,
		Year:          req.Year,
		Line:          line,
		ProcessedDate: time.Now().UTC(),
	})
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	slog.Info("Employee payroll reprocessed",
		"company_id", companyID,
		"employee_id", emp.ID,
		"period", record.Period().String(),
	)
	return payroll.ToRecordResponse(record), nil
}

// CheckProcessed implements payroll.PayrollService.
func (s *PayrollServiceImpl) CheckProcessed(ctx context.Context, companyID string, month, year int) (payroll.CheckProcessedResponse, error) {
	status, err := s.payrollRepo.CheckProcessed(ctx, companyID, month, year)
	if err != nil {
		return payroll.CheckProcessedResponse{}, err
	}
	return payroll.CheckProcessedResponse{Processed: status.Processed, ProcessedDate: status.ProcessedDate}, nil
}

// GetHistory implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetHistory(ctx context.Context, companyID string, filter payroll.PayrollFilter) ([]payroll.PayrollRecordResponse, error) {
	records, err := s.payrollRepo.ListRecords(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	return payroll.ToRecordResponses(records), nil
}

// GetEmployeeHistory implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetEmployeeHistory(ctx context.Context, companyID string, employeeID string) ([]payroll.PayrollRecordResponse, error) {
	if _, err := s.employeeRepo.GetByID(ctx, companyID, employeeID); err != nil {
		return nil, err
	}
	records, err := s.payrollRepo.ListRecords(ctx, companyID, payroll.PayrollFilter{EmployeeID: &employeeID})
	if err != nil {
		return nil, err
	}
	return payroll.ToRecordResponses(records), nil
}

// GetSummary implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetSummary(ctx context.Context, companyID string, month, year int) (payroll.PayrollSummaryResponse, error) {
	return s.payrollRepo.GetSummary(ctx, companyID, month, year)
}

// GetPayslip implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPayslip(ctx context.Context, companyID string, recordID string) (payroll.PayslipFile, error) {
	record, err := s.payrollRepo.GetRecordByID(ctx, companyID, recordID)
	if err != nil {
		return payroll.PayslipFile{}, err
	}
	tenant, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return payroll.PayslipFile{}, err
	}

	content, err := renderPayslip(tenant.Name, record)
	if err != nil {
		return payroll.PayslipFile{}, err
	}

	number := record.EmployeeID
	if record.EmployeeNumber != nil {
		number = *record.EmployeeNumber
	}
	return payroll.PayslipFile{
		Filename:    fmt.Sprintf("payslip-%s-%d-%02d.pdf", number, record.Year, record.Month),
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}
