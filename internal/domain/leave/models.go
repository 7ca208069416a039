package leave

import (
	"encoding/json"
	"time"

	"hrms/internal/domain/payroll"
)

type Request struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employeeId"`
	EmployeeName string     `json:"employeeName"`
	LeaveType    string     `json:"leaveType"`
	StartDate    time.Time  `json:"-"`
	EndDate      time.Time  `json:"-"`
	Reason       string     `json:"reason"`
	Status       string     `json:"status"`
	IsPaid       bool       `json:"isPaid"`
	AppliedDate  time.Time  `json:"-"`
	DecidedBy    string     `json:"decidedBy,omitempty"`
	DecidedAt    *time.Time `json:"decidedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func (r Request) MarshalJSON() ([]byte, error) {
	type plain Request
	return json.Marshal(struct {
		plain
		StartDate   string `json:"startDate"`
		EndDate     string `json:"endDate"`
		AppliedDate string `json:"appliedDate"`
		Days        int    `json:"days"`
	}{
		plain:       plain(r),
		StartDate:   r.StartDate.Format(dateLayout),
		EndDate:     r.EndDate.Format(dateLayout),
		AppliedDate: r.AppliedDate.Format(dateLayout),
		Days:        CalculateDays(r.StartDate, r.EndDate),
	})
}

// Interval is the request as the payroll calculator sees it.
func (r Request) Interval() payroll.LeaveInterval {
	return payroll.LeaveInterval{
		EmployeeID: r.EmployeeID,
		Start:      r.StartDate,
		End:        r.EndDate,
		Status:     r.Status,
		IsPaid:     r.IsPaid,
	}
}

type CreateInput struct {
	EmployeeID string `json:"employeeId" validate:"omitempty,max=64"`
	LeaveType  string `json:"leaveType" validate:"required"`
	StartDate  string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate    string `json:"endDate" validate:"required,datetime=2006-01-02"`
	Reason     string `json:"reason" validate:"required,max=1000"`
}

// DecisionInput carries the only fields an admin may change.
type DecisionInput struct {
	Status *string `json:"status" validate:"omitempty,oneof=pending approved rejected"`
	IsPaid *bool   `json:"isPaid"`
}

type ListFilter struct {
	EmployeeIDs []string
	Status      string
	From        time.Time
	To          time.Time
	Limit       int
	Offset      int
}
