package advance

import "errors"

var (
	ErrNoEmployeesSelected     = errors.New("No employees selected")
	ErrInvalidAmount           = errors.New("Invalid amount")
	ErrReasonRequired          = errors.New("Reason is required")
	ErrInvalidStatus           = errors.New("status must be 'approved' or 'rejected'")
	ErrAdvanceNotFound         = errors.New("Salary advance request not found")
	ErrInvalidStatusTransition = errors.New("salary advance request is not pending")
	ErrEmployeeNotInCompany    = errors.New("selected employee does not belong to this company")
)
