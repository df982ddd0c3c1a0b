package advance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stafma/stafma-backend-go/internal/domain/advance"
	"github.com/stafma/stafma-backend-go/internal/domain/disbursement"
	"github.com/stafma/stafma-backend-go/internal/domain/employee"
	"github.com/stafma/stafma-backend-go/internal/pkg/sse"
	"github.com/stafma/stafma-backend-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

// SplitPolicy decides how an approved advance is divided over the selected
// employees. It returns one share per selected employee, in selection order.
type SplitPolicy func(amount decimal.Decimal, selected int) []decimal.Decimal

// EqualSplit divides the advance evenly over the whole selection, including
// employees that are later skipped for missing bank details. Shares are in
// cents and sum to amount; leftover cents go to the first employees.
func EqualSplit(amount decimal.Decimal, selected int) []decimal.Decimal {
	if selected <= 0 {
		return nil
	}
	count := decimal.NewFromInt(int64(selected))
	base := amount.Div(count).RoundDown(2)
	remainder := amount.Sub(base.Mul(count))
	cent := decimal.New(1, -2)

	shares := make([]decimal.Decimal, selected)
	for i := range shares {
		shares[i] = base
		if remainder.IsPositive() {
			shares[i] = shares[i].Add(cent)
			remainder = remainder.Sub(cent)
		}
	}
	return shares
}

type Options struct {
	FeeRate       decimal.Decimal
	RepaymentDays int
	// SourceAccount is the account advances are paid from.
	SourceAccount disbursement.Account
	Split         SplitPolicy
	Concurrency   int
	Events        sse.Publisher
	Now           func() time.Time
}

type AdvanceServiceImpl struct {
	advanceRepo   advance.AdvanceRepository
	employeeRepo  employee.EmployeeRepository
	disbursements disbursement.DisbursementService
	opts          Options
}

func NewAdvanceService(
	advanceRepo advance.AdvanceRepository,
	employeeRepo employee.EmployeeRepository,
	disbursements disbursement.DisbursementService,
	opts Options,
) advance.AdvanceService {
	if opts.Split == nil {
		opts.Split = EqualSplit
	}
	if opts.Events == nil {
		opts.Events = sse.Discard
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &AdvanceServiceImpl{
		advanceRepo:   advanceRepo,
		employeeRepo:  employeeRepo,
		disbursements: disbursements,
		opts:          opts,
	}
}

// RequestAdvance implements advance.AdvanceService.
func (s *AdvanceServiceImpl) RequestAdvance(ctx context.Context, companyID string, req advance.CreateAdvanceRequest) (advance.AdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return advance.AdvanceResponse{}, err
	}

	ids := uniqueIDs(req.EmployeeIDs)
	for _, id := range ids {
		if !validator.IsValidUUID(id) {
			return advance.AdvanceResponse{}, advance.ErrEmployeeNotInCompany
		}
	}
	found, err := s.employeeRepo.GetByIDs(ctx, companyID, ids)
	if err != nil {
		return advance.AdvanceResponse{}, fmt.Errorf("failed to load selected employees: %w", err)
	}
	if len(found) != len(ids) {
		return advance.AdvanceResponse{}, advance.ErrEmployeeNotInCompany
	}

	now := s.opts.Now().UTC()
	amount := req.Amount.Round(2)
	fee := amount.Mul(s.opts.FeeRate).Round(2)

	created, err := s.advanceRepo.Create(ctx, advance.SalaryAdvance{
		CompanyID:       companyID,
		EmployeeIDs:     ids,
		Amount:          amount,
		Fee:             fee,
		TotalAmount:     amount.Add(fee),
		Reason:          strings.TrimSpace(req.Reason),
		Status:          advance.StatusPending,
		RequestDate:     now,
		RepaymentDate:   now.AddDate(0, 0, s.opts.RepaymentDays),
		RepaymentStatus: advance.RepaymentPending,
	})
	if err != nil {
		return advance.AdvanceResponse{}, fmt.Errorf("failed to create salary advance: %w", err)
	}

	slog.Info("Salary advance requested",
		"company_id", companyID,
		"advance_id", created.ID,
		"employees", len(ids),
		"amount", amount.StringFixed(2),
	)
	s.publish(created)

	return advance.ToResponse(created), nil
}

// ApproveAdvance approves a pending advance and pays it out. The advance
// ends disbursed when every attempted transfer completed, failed when any
// did not, and stays approved when no employee could be paid.
func (s *AdvanceServiceImpl) ApproveAdvance(ctx context.Context, companyID string, req advance.ReviewAdvanceRequest) (advance.AdvanceResponse, error) {
	now := s.opts.Now().UTC()
	approved, err := s.advanceRepo.UpdateStatus(ctx, companyID, req.AdvanceID, advance.StatusPending, advance.StatusUpdate{
		Status:       advance.StatusApproved,
		ApprovedBy:   req.ReviewedBy,
		ApprovalDate: &now,
		Comments:     req.Comments,
	})
	if err != nil {
		return advance.AdvanceResponse{}, err
	}

	employees, err := s.employeeRepo.GetByIDs(ctx, companyID, approved.EmployeeIDs)
	if err != nil {
		return advance.AdvanceResponse{}, fmt.Errorf("failed to load advance employees: %w", err)
	}
	byID := make(map[string]employee.Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}

	shares := s.opts.Split(approved.Amount, len(approved.EmployeeIDs))
	var payees []payee
	for i, id := range approved.EmployeeIDs {
		e, ok := byID[id]
		if !ok || !e.HasBankDetails() {
			slog.Warn("Skipping advance payee without bank details", "advance_id", approved.ID, "employee_id", id)
			continue
		}
		share := decimal.Zero
		if i < len(shares) {
			share = shares[i]
		}
		payees = append(payees, payee{employee: e, share: share})
	}

	results := make([]payout, len(payees))
	if s.opts.Concurrency < 2 {
		for i, p := range payees {
			results[i] = s.pay(ctx, approved, p)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(s.opts.Concurrency)
		for i, p := range payees {
			g.Go(func() error {
				results[i] = s.pay(ctx, approved, p)
				return nil
			})
		}
		_ = g.Wait()
	}

	status := advance.StatusDisbursed
	refs := make([]string, 0, len(results))
	for _, r := range results {
		if !r.attempted {
			continue
		}
		if !r.completed {
			status = advance.StatusFailed
		}
		refs = append(refs, r.reference)
	}

	// Without a single transaction the advance stays approved.
	if len(refs) == 0 {
		s.publish(approved)
		return advance.ToResponse(approved), nil
	}

	joined := strings.Join(refs, ",")
	disbursedAt := s.opts.Now().UTC()

	final, err := s.advanceRepo.UpdateStatus(context.WithoutCancel(ctx), companyID, approved.ID, advance.StatusApproved, advance.StatusUpdate{
		Status:               status,
		TransactionReference: &joined,
		DisbursementDate:     &disbursedAt,
	})
	if err != nil {
		return advance.AdvanceResponse{}, fmt.Errorf("failed to record advance disbursement: %w", err)
	}

	slog.Info("Salary advance disbursed",
		"company_id", companyID,
		"advance_id", final.ID,
		"status", final.Status,
		"transfers", len(refs),
	)
	s.publish(final)

	return advance.ToResponse(final), nil
}

type payee struct {
	employee employee.Employee
	share    decimal.Decimal
}

// payout is one payee's result. attempted is false when no transaction was
// created, for example a zero share.
type payout struct {
	attempted bool
	completed bool
	reference string
}

func (s *AdvanceServiceImpl) pay(ctx context.Context, a advance.SalaryAdvance, p payee) payout {
	bank := p.employee.BankDetails
	tx, err := s.disbursements.Disburse(ctx, disbursement.DisburseRequest{
		CompanyID:  a.CompanyID,
		SourceType: disbursement.SourceAdvance,
		SourceID:   a.ID,
		EmployeeID: p.employee.ID,
		Amount:     p.share,
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
		slog.Error("Advance disbursement error", "advance_id", a.ID, "employee_id", p.employee.ID, "error", err)
	}
	if tx.ID == "" {
		return payout{}
	}
	return payout{
		attempted: true,
		completed: err == nil && tx.Status == disbursement.StatusCompleted,
		reference: tx.Reference,
	}
}

func (s *AdvanceServiceImpl) RejectAdvance(ctx context.Context, companyID string, req advance.ReviewAdvanceRequest) (advance.AdvanceResponse, error) {
	now := s.opts.Now().UTC()
	rejected, err := s.advanceRepo.UpdateStatus(ctx, companyID, req.AdvanceID, advance.StatusPending, advance.StatusUpdate{
		Status:       advance.StatusRejected,
		ApprovedBy:   req.ReviewedBy,
		ApprovalDate: &now,
		Comments:     req.Comments,
	})
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	s.publish(rejected)
	return advance.ToResponse(rejected), nil
}

func (s *AdvanceServiceImpl) GetByID(ctx context.Context, companyID string, id string) (advance.AdvanceResponse, error) {
	a, err := s.advanceRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	return advance.ToResponse(a), nil
}

func (s *AdvanceServiceImpl) List(ctx context.Context, companyID string) ([]advance.AdvanceResponse, error) {
	advances, err := s.advanceRepo.List(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary advances: %w", err)
	}
	result := make([]advance.AdvanceResponse, 0, len(advances))
	for _, a := range advances {
		result = append(result, advance.ToResponse(a))
	}
	return result, nil
}

func (s *AdvanceServiceImpl) publish(a advance.SalaryAdvance) {
	s.opts.Events.Publish(a.CompanyID, sse.Event{
		Event: sse.EventAdvanceUpdated,
		Data: map[string]interface{}{
			"id":     a.ID,
			"status": a.Status,
		},
	})
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
