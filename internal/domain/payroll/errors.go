package payroll

import "errors"

var (
	ErrInvalidPeriod      = errors.New("payroll period month must be between 1 and 12")
	ErrUnknownPolicy      = errors.New("unknown payroll policy")
	ErrNoWorkingDays      = errors.New("payroll period has no working days")
	ErrNegativeSalary     = errors.New("base salary must not be negative")
	ErrNegativeLeaveDays  = errors.New("leave day counts must not be negative")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrUnsupportedFormat  = errors.New("unsupported export format")
	ErrRecordsUnavailable = errors.New("payroll records store not configured")
)
