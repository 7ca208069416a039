package audit

import (
	"encoding/json"
	"time"
)

const (
	ActionEmployeeCreate   = "employee.create"
	ActionEmployeeUpdate   = "employee.update"
	ActionEmployeeDelete   = "employee.delete"
	ActionLeaveDecide      = "leave.decide"
	ActionLeaveDelete      = "leave.delete"
	ActionAttendanceManual = "attendance.manual"
	ActionAttendanceUpdate = "attendance.update"
	ActionAttendanceDelete = "attendance.delete"
	ActionPayrollRecords   = "payroll.records.save"
)

type Event struct {
	ID         string          `json:"id"`
	ActorID    string          `json:"actorId"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	RequestID  string          `json:"requestId"`
	IP         string          `json:"ip"`
	CreatedAt  time.Time       `json:"createdAt"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
}

// Entry is what callers hand to Record. Before and After are marshaled as JSON.
type Entry struct {
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	RequestID  string
	IP         string
	Before     any
	After      any
}

type Filter struct {
	Action     string
	EntityType string
	ActorID    string
	Limit      int
	Offset     int
}
