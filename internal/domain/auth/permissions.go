package auth

import "context"

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermEmployeesRead,
		PermLeaveRead,
		PermLeaveRequest,
		PermAttendanceRead,
		PermAttendanceSelf,
		PermPayrollSelf,
	},
	RoleAdmin: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermLeaveRead,
		PermLeaveRequest,
		PermLeaveDecide,
		PermAttendanceRead,
		PermAttendanceSelf,
		PermAttendanceEdit,
		PermPayrollSelf,
		PermPayrollReport,
		PermPayrollRecord,
		PermSystemMetrics,
		PermAuditRead,
	},
}

// StaticPermissions resolves permissions from RolePermissions.
type StaticPermissions struct{}

func (StaticPermissions) HasPermission(_ context.Context, role, permission string) (bool, error) {
	for _, perm := range RolePermissions[role] {
		if perm == permission {
			return true, nil
		}
	}
	return false, nil
}

func ValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}
