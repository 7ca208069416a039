package payroll

import "time"

// LeaveInterval is a leave request as seen by the calculator.
type LeaveInterval struct {
	EmployeeID string
	Start      time.Time
	End        time.Time
	Status     string
	IsPaid     bool
}

// AggregateLeave sums the in-month days of the employee's approved leave,
// split into paid and unpaid totals.
func AggregateLeave(identity EmployeeIdentity, leaves []LeaveInterval, period Period, policy Policy) (paidDays, unpaidDays int, err error) {
	if err := period.Validate(); err != nil {
		return 0, 0, err
	}
	for _, leave := range leaves {
		if leave.Status != LeaveStatusApproved || !identity.Matches(leave.EmployeeID) {
			continue
		}
		days, err := policy.LeaveDaysInMonth(leave.Start, leave.End, period)
		if err != nil {
			return 0, 0, err
		}
		if leave.IsPaid {
			paidDays += days
		} else {
			unpaidDays += days
		}
	}
	return paidDays, unpaidDays, nil
}
