package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/stafma/stafma-backend-go/internal/domain/payroll"
)

type payrollRepository struct {
	s *Store
}

func NewPayrollRepository(s *Store) payroll.PayrollRepository {
	return &payrollRepository{s: s}
}

// ========== RUNS ==========

func (r *payrollRepository) ClaimPeriod(ctx context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := runKey{companyID: run.CompanyID, month: run.Month, year: run.Year}
	if _, exists := r.s.runs[key]; exists {
		return payroll.PayrollRun{}, payroll.ErrPeriodAlreadyClaimed
	}
	if run.ID == "" {
		run.ID = newID()
	}
	if run.ProcessedDate.IsZero() {
		run.ProcessedDate = r.s.timestamp()
	}
	r.s.runs[key] = run
	return run, nil
}

func (r *payrollRepository) GetRun(ctx context.Context, companyID string, month, year int) (payroll.PayrollRun, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	run, ok := r.s.runs[runKey{companyID: companyID, month: month, year: year}]
	if !ok {
		return payroll.PayrollRun{}, payroll.ErrPayrollRunNotFound
	}
	return run, nil
}

func (r *payrollRepository) CheckProcessed(ctx context.Context, companyID string, month, year int) (payroll.ProcessedStatus, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if run, ok := r.s.runs[runKey{companyID: companyID, month: month, year: year}]; ok {
		processed := run.ProcessedDate
		return payroll.ProcessedStatus{Processed: true, ProcessedDate: &processed}, nil
	}

	var status payroll.ProcessedStatus
	for _, rec := range r.s.records {
		if rec.CompanyID != companyID || rec.Month != month || rec.Year != year {
			continue
		}
		processed := rec.ProcessedDate
		if !status.Processed || processed.Before(*status.ProcessedDate) {
			status = payroll.ProcessedStatus{Processed: true, ProcessedDate: &processed}
		}
	}
	return status, nil
}

// ========== RECORDS ==========

func (r *payrollRepository) findRecordLocked(companyID, employeeID string, month, year int) (payroll.PayrollRecord, bool) {
	for _, rec := range r.s.records {
		if rec.CompanyID == companyID && rec.EmployeeID == employeeID && rec.Month == month && rec.Year == year {
			return rec, true
		}
	}
	return payroll.PayrollRecord{}, false
}

func (r *payrollRepository) CreateRecord(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.findRecordLocked(record.CompanyID, record.EmployeeID, record.Month, record.Year); exists {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
	}

	now := r.s.timestamp()
	record.ID = newID()
	if record.ProcessedDate.IsZero() {
		record.ProcessedDate = now
	}
	record.CreatedAt = now
	record.UpdatedAt = now
	r.s.records[record.ID] = record
	return r.joinLocked(record), nil
}

func (r *payrollRepository) UpsertRecord(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.timestamp()
	if existing, ok := r.findRecordLocked(record.CompanyID, record.EmployeeID, record.Month, record.Year); ok {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
	} else {
		record.ID = newID()
		record.CreatedAt = now
	}
	if record.ProcessedDate.IsZero() {
		record.ProcessedDate = now
	}
	record.UpdatedAt = now
	r.s.records[record.ID] = record
	return r.joinLocked(record), nil
}

func (r *payrollRepository) GetRecordByID(ctx context.Context, companyID string, id string) (payroll.PayrollRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.records[id]
	if !ok || rec.CompanyID != companyID {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return r.joinLocked(rec), nil
}

func (r *payrollRepository) ListRecords(ctx context.Context, companyID string, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var result []payroll.PayrollRecord
	for _, rec := range r.s.records {
		if rec.CompanyID != companyID {
			continue
		}
		if filter.Month != nil && rec.Month != *filter.Month {
			continue
		}
		if filter.Year != nil && rec.Year != *filter.Year {
			continue
		}
		if filter.EmployeeID != nil && rec.EmployeeID != *filter.EmployeeID {
			continue
		}
		result = append(result, r.joinLocked(rec))
	}

	// Newest period first, then by employee number.
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		if a.Month != b.Month {
			return a.Month > b.Month
		}
		return deref(a.EmployeeNumber) < deref(b.EmployeeNumber)
	})
	return result, nil
}

// ========== AGGREGATIONS ==========

func (r *payrollRepository) GetSummary(ctx context.Context, companyID string, month, year int) (payroll.PayrollSummaryResponse, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	summary := payroll.PayrollSummaryResponse{
		Month:      month,
		Year:       year,
		TotalGross: decimal.Zero,
		TotalNet:   decimal.Zero,
		TotalPAYE:  decimal.Zero,
		TotalNHIF:  decimal.Zero,
		TotalNSSF:  decimal.Zero,
	}
	for _, rec := range r.s.records {
		if rec.CompanyID != companyID || rec.Month != month || rec.Year != year {
			continue
		}
		summary.TotalEmployees++
		summary.TotalGross = summary.TotalGross.Add(rec.GrossSalary)
		summary.TotalNet = summary.TotalNet.Add(rec.NetSalary)
		summary.TotalPAYE = summary.TotalPAYE.Add(rec.Deductions.PAYE)
		summary.TotalNHIF = summary.TotalNHIF.Add(rec.Deductions.NHIF)
		summary.TotalNSSF = summary.TotalNSSF.Add(rec.Deductions.NSSF)
	}
	return summary, nil
}

// joinLocked fills the employee columns a SQL join would return.
func (r *payrollRepository) joinLocked(rec payroll.PayrollRecord) payroll.PayrollRecord {
	e, ok := r.s.employees[rec.EmployeeID]
	if !ok {
		return rec
	}
	name := e.FullName()
	number := e.EmployeeNumber
	position := e.Position
	department := e.Department
	rec.EmployeeName = &name
	rec.EmployeeNumber = &number
	rec.Position = &position
	rec.Department = &department
	return rec
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
