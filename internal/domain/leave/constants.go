package leave

import "hrms/internal/domain/payroll"

const (
	StatusPending  = payroll.LeaveStatusPending
	StatusApproved = payroll.LeaveStatusApproved
	StatusRejected = payroll.LeaveStatusRejected
)

var LeaveTypes = []string{
	"Sick",
	"Casual",
	"Annual",
	"Earned",
	"Maternity",
	"Paternity",
	"Emergency",
}

var Statuses = []string{StatusPending, StatusApproved, StatusRejected}
