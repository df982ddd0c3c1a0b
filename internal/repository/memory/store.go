// Package memory provides in-process repositories used by the memory storage
// driver and by service tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stafma/stafma-backend-go/internal/domain/advance"
	"github.com/stafma/stafma-backend-go/internal/domain/company"
	"github.com/stafma/stafma-backend-go/internal/domain/disbursement"
	"github.com/stafma/stafma-backend-go/internal/domain/employee"
	"github.com/stafma/stafma-backend-go/internal/domain/leave"
	"github.com/stafma/stafma-backend-go/internal/domain/payroll"
)

// =============================================================================
// STORE - shared state behind every memory repository
// =============================================================================

type Store struct {
	mu sync.RWMutex
	// txMu serialises WithinTransaction callers. It is never held by plain
	// repository calls, so a transaction body may call any repository.
	txMu sync.Mutex

	companies    map[string]company.Company
	employees    map[string]employee.Employee
	runs         map[runKey]payroll.PayrollRun
	records      map[string]payroll.PayrollRecord
	transactions map[string]disbursement.Transaction
	advances     map[string]advance.SalaryAdvance
	leaves       map[string]leave.LeaveRequest

	now func() time.Time
}

type runKey struct {
	companyID string
	month     int
	year      int
}

func NewStore() *Store {
	return &Store{
		companies:    make(map[string]company.Company),
		employees:    make(map[string]employee.Employee),
		runs:         make(map[runKey]payroll.PayrollRun),
		records:      make(map[string]payroll.PayrollRecord),
		transactions: make(map[string]disbursement.Transaction),
		advances:     make(map[string]advance.SalaryAdvance),
		leaves:       make(map[string]leave.LeaveRequest),
		now:          time.Now,
	}
}

// WithinTransaction runs fn while holding the store-wide transaction lock.
// Writes are not rolled back when fn fails.
func (s *Store) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(ctx)
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

func newID() string {
	return uuid.NewString()
}
