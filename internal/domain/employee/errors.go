package employee

import "errors"

var (
	ErrNotFound       = errors.New("employee not found")
	ErrConflict       = errors.New("employee email, username or code already exists")
	ErrInvalidSalary  = errors.New("salary must not be negative")
	ErrInvalidJoining = errors.New("joining date must be YYYY-MM-DD")
	ErrNotLinked      = errors.New("user is not linked to an employee")
)
