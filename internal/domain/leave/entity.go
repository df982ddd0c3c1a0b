package leave

import "time"

type LeaveType string

const (
	LeaveTypeAnnual    LeaveType = "annual"
	LeaveTypeSick      LeaveType = "sick"
	LeaveTypeMaternity LeaveType = "maternity"
	LeaveTypePaternity LeaveType = "paternity"
	LeaveTypeStudy     LeaveType = "study"
	LeaveTypeUnpaid    LeaveType = "unpaid"
	LeaveTypeOther     LeaveType = "other"
)

var LeaveTypes = []string{
	string(LeaveTypeAnnual),
	string(LeaveTypeSick),
	string(LeaveTypeMaternity),
	string(LeaveTypePaternity),
	string(LeaveTypeStudy),
	string(LeaveTypeUnpaid),
	string(LeaveTypeOther),
}

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending  LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected LeaveRequestStatus = "rejected"
)

// LeaveRequest covers the inclusive date range [StartDate, EndDate].
type LeaveRequest struct {
	ID           string
	CompanyID    string
	EmployeeID   string
	LeaveType    LeaveType
	StartDate    time.Time
	EndDate      time.Time
	Reason       string
	Status       LeaveRequestStatus
	ApprovedBy   *string
	ApprovalDate *time.Time
	Comments     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined fields
	EmployeeName *string
}

// Overlaps reports whether the request shares at least one day with [start, end].
func (l LeaveRequest) Overlaps(start, end time.Time) bool {
	return !l.StartDate.After(end) && !start.After(l.EndDate)
}

// TotalDays counts calendar days in the request, both ends included.
func (l LeaveRequest) TotalDays() int {
	return int(l.EndDate.Sub(l.StartDate).Hours()/24) + 1
}

// StatusUpdate carries the fields written with a status transition.
type StatusUpdate struct {
	Status       LeaveRequestStatus
	ApprovedBy   *string
	ApprovalDate *time.Time
	Comments     *string
}
