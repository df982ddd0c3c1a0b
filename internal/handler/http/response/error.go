package response

import (
	"errors"
	"net/http"

	"github.com/stafma/stafma-backend-go/internal/domain/advance"
	"github.com/stafma/stafma-backend-go/internal/domain/company"
	"github.com/stafma/stafma-backend-go/internal/domain/disbursement"
	"github.com/stafma/stafma-backend-go/internal/domain/employee"
	"github.com/stafma/stafma-backend-go/internal/domain/leave"
	"github.com/stafma/stafma-backend-go/internal/domain/payroll"
	"github.com/stafma/stafma-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var periodErr *payroll.PeriodError
	if errors.As(err, &periodErr) {
		details := map[string]string{"reason": string(periodErr.Reason)}
		if periodErr.ProcessedDate != nil {
			details["processed_date"] = periodErr.ProcessedDate.Format("2006-01-02T15:04:05Z07:00")
		}
		writeError(w, http.StatusBadRequest, "PERIOD_INVALID", periodErr.Error(), details)
		return
	}

	switch {
	// Company domain errors
	case errors.Is(err, company.ErrCompanyNotFound):
		NotFound(w, "Company not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeNumberExists):
		Conflict(w, "Employee number already exists")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered in this company")
	case errors.Is(err, employee.ErrEmployeeAlreadyActive),
		errors.Is(err, employee.ErrEmployeeAlreadyInactive):
		Conflict(w, err.Error())

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPeriodInvalid):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, payroll.ErrNoActiveEmployees):
		BadRequest(w, "No active employees found", nil)
	case errors.Is(err, payroll.ErrInvalidCompensation):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")

	// Disbursement domain errors
	case errors.Is(err, disbursement.ErrTransactionNotFound):
		NotFound(w, "Transaction not found")
	case errors.Is(err, disbursement.ErrInvalidAmount),
		errors.Is(err, disbursement.ErrMissingDestination):
		BadRequest(w, err.Error(), nil)

	// Salary advance domain errors
	case errors.Is(err, advance.ErrAdvanceNotFound):
		NotFound(w, "Salary advance request not found")
	case errors.Is(err, advance.ErrNoEmployeesSelected),
		errors.Is(err, advance.ErrInvalidAmount),
		errors.Is(err, advance.ErrReasonRequired),
		errors.Is(err, advance.ErrInvalidStatus),
		errors.Is(err, advance.ErrEmployeeNotInCompany),
		errors.Is(err, advance.ErrInvalidStatusTransition):
		BadRequest(w, err.Error(), nil)

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrInvalidDateRange):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, leave.ErrOverlappingLeave):
		Conflict(w, err.Error())
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
