package leave

import "errors"

var (
	ErrLeaveRequestNotFound         = errors.New("Leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("Leave request already processed")
	ErrInvalidDateRange             = errors.New("End date must be after start date")
	ErrOverlappingLeave             = errors.New("Leave request overlaps an existing leave request")
)
