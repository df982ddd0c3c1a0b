package leave

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stafma/stafma-backend-go/internal/domain/company"
	"github.com/stafma/stafma-backend-go/internal/domain/employee"
	"github.com/stafma/stafma-backend-go/internal/domain/leave"
	"github.com/stafma/stafma-backend-go/internal/pkg/validator"
	"github.com/stafma/stafma-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLeaveService(t *testing.T) (leave.LeaveService, string, string) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	c, err := memory.NewCompanyRepository(store).Create(ctx, company.Company{Name: "Acme Ltd"})
	require.NoError(t, err)

	employeeRepo := memory.NewEmployeeRepository(store)
	emp, err := employeeRepo.Create(ctx, employee.Employee{
		CompanyID:      c.ID,
		EmployeeNumber: "STAFMA0001",
		FirstName:      "Jane",
		LastName:       "Doe",
		Email:          "jane@acme.test",
		EmploymentType: employee.EmploymentTypePermanent,
		Status:         employee.StatusActive,
		Compensation:   employee.Compensation{Basic: decimal.NewFromInt(30000)},
	})
	require.NoError(t, err)

	svc := NewLeaveService(store, memory.NewLeaveRequestRepository(store), employeeRepo)
	return svc, c.ID, emp.ID
}

func leaveRequest(employeeID, start, end string) leave.CreateLeaveRequest {
	return leave.CreateLeaveRequest{
		EmployeeID: employeeID,
		LeaveType:  string(leave.LeaveTypeAnnual),
		StartDate:  start,
		EndDate:    end,
		Reason:     "Family visit",
	}
}

func TestCreateRequest_OverlapWithApprovedLeave(t *testing.T) {
	svc, companyID, employeeID := setupLeaveService(t)
	ctx := context.Background()

	existing, err := svc.CreateRequest(ctx, companyID, leaveRequest(employeeID, "2024-01-10", "2024-01-20"))
	require.NoError(t, err)
	assert.Equal(t, 11, existing.TotalDays)

	reviewer := "admin-1"
	_, err = svc.UpdateStatus(ctx, companyID, leave.UpdateLeaveStatusRequest{
		ID: existing.ID, ReviewedBy: &reviewer, Status: string(leave.LeaveRequestStatusApproved),
	})
	require.NoError(t, err)

	_, err = svc.CreateRequest(ctx, companyID, leaveRequest(employeeID, "2024-01-15", "2024-01-25"))
	assert.ErrorIs(t, err, leave.ErrOverlappingLeave)

	// Shares only the boundary day.
	_, err = svc.CreateRequest(ctx, companyID, leaveRequest(employeeID, "2024-01-20", "2024-01-22"))
	assert.ErrorIs(t, err, leave.ErrOverlappingLeave)

	next, err := svc.CreateRequest(ctx, companyID, leaveRequest(employeeID, "2024-01-21", "2024-01-25"))
	require.NoError(t, err)
	assert.Equal(t, string(leave.LeaveRequestStatusPending), next.Status)
}

func TestCreateRequest_RejectedLeaveDoesNotBlock(t *testing.T) {
	svc, companyID, employeeID := setupLeaveService(t)
	ctx := context.Background()

	existing, err := svc.CreateRequest(ctx, companyID, leaveRequest(employeeID, "2024-02-01", "2024-02-05"))
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, companyID, leave.UpdateLeaveStatusRequest{
		ID: existing.ID, Status: string(leave.LeaveRequestStatusRejected),
	})
	require.NoError(t, err)

	_, err = svc.CreateRequest(ctx, companyID, leaveRequest(employeeID, "2024-02-03", "2024-02-04"))
	assert.NoError(t, err)
}

func TestCreateRequest_PendingLeaveBlocks(t *testing.T) {
	svc, companyID, employeeID := setupLeaveService(t)
	ctx := context.Background()

	_, err := svc.CreateRequest(ctx, companyID, leaveRequest(employeeID, "2024-03-01", "2024-03-05"))
	require.NoError(t, err)

	_, err = svc.CreateRequest(ctx, companyID, leaveRequest(employeeID, "2024-02-25", "2024-03-01"))
	assert.ErrorIs(t, err, leave.ErrOverlappingLeave)
}

func TestCreateRequest_ConcurrentOverlapsAdmitOne(t *testing.T) {
	svc, companyID, employeeID := setupLeaveService(t)
	ctx := context.Background()

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateRequest(ctx, companyID, leaveRequest(employeeID, "2024-04-01", "2024-04-10"))
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
		} else {
			assert.ErrorIs(t, err, leave.ErrOverlappingLeave)
		}
	}
	assert.Equal(t, 1, created)
}

func TestCreateRequest_Validation(t *testing.T) {
	svc, companyID, employeeID := setupLeaveService(t)
	ctx := context.Background()

	_, err := svc.CreateRequest(ctx, companyID, leaveRequest(employeeID, "2024-01-20", "2024-01-10"))
	assert.ErrorIs(t, err, leave.ErrInvalidDateRange)

	_, err = svc.CreateRequest(ctx, companyID, leaveRequest(employeeID, "20-01-2024", "2024-01-10"))
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	_, err = svc.CreateRequest(ctx, companyID, leaveRequest(uuid.NewString(), "2024-01-10", "2024-01-12"))
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = svc.CreateRequest(ctx, companyID, leaveRequest("not-a-uuid", "2024-01-10", "2024-01-12"))
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestUpdateStatus(t *testing.T) {
	svc, companyID, employeeID := setupLeaveService(t)
	ctx := context.Background()

	created, err := svc.CreateRequest(ctx, companyID, leaveRequest(employeeID, "2024-05-01", "2024-05-02"))
	require.NoError(t, err)

	reviewer := "admin-1"
	approved, err := svc.UpdateStatus(ctx, companyID, leave.UpdateLeaveStatusRequest{
		ID: created.ID, ReviewedBy: &reviewer, Status: string(leave.LeaveRequestStatusApproved),
	})
	require.NoError(t, err)
	assert.Equal(t, string(leave.LeaveRequestStatusApproved), approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, reviewer, *approved.ApprovedBy)
	require.NotNil(t, approved.ApprovalDate)
	assert.WithinDuration(t, time.Now(), *approved.ApprovalDate, time.Minute)

	_, err = svc.UpdateStatus(ctx, companyID, leave.UpdateLeaveStatusRequest{
		ID: created.ID, Status: string(leave.LeaveRequestStatusRejected),
	})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)

	_, err = svc.UpdateStatus(ctx, companyID, leave.UpdateLeaveStatusRequest{ID: created.ID, Status: "cancelled"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestListRequests(t *testing.T) {
	svc, companyID, employeeID := setupLeaveService(t)
	ctx := context.Background()

	_, err := svc.CreateRequest(ctx, companyID, leaveRequest(employeeID, "2024-06-01", "2024-06-02"))
	require.NoError(t, err)
	_, err = svc.CreateRequest(ctx, companyID, leaveRequest(employeeID, "2024-07-01", "2024-07-02"))
	require.NoError(t, err)

	mine, err := svc.ListEmployeeRequests(ctx, companyID, employeeID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "2024-07-01", mine[0].StartDate)
	require.NotNil(t, mine[0].EmployeeName)
	assert.Equal(t, "Jane Doe", *mine[0].EmployeeName)

	pending := string(leave.LeaveRequestStatusPending)
	all, err := svc.ListCompanyRequests(ctx, companyID, leave.LeaveRequestFilter{Status: &pending})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	foreign, err := svc.ListCompanyRequests(ctx, "other-company", leave.LeaveRequestFilter{})
	require.NoError(t, err)
	assert.Empty(t, foreign)
}
