package auth

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

const (
	PermEmployeesRead  = "employees.read"
	PermEmployeesWrite = "employees.write"
	PermLeaveRead      = "leave.read"
	PermLeaveRequest   = "leave.request"
	PermLeaveDecide    = "leave.decide"
	PermAttendanceRead = "attendance.read"
	PermAttendanceSelf = "attendance.self"
	PermAttendanceEdit = "attendance.edit"
	PermPayrollSelf    = "payroll.self"
	PermPayrollReport  = "payroll.report"
	PermPayrollRecord  = "payroll.record"
	PermSystemMetrics  = "system.metrics"
	PermAuditRead      = "audit.read"
)
