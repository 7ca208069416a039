package attendance

import "errors"

var (
	ErrNotFound         = errors.New("attendance record not found")
	ErrAlreadyCheckedIn = errors.New("attendance already marked for this date")
	ErrNotCheckedIn     = errors.New("no check-in found for today")
	ErrCheckedOut       = errors.New("already checked out")
	ErrActiveBreak      = errors.New("there is already an active break")
	ErrNoActiveBreak    = errors.New("no active break found")
	ErrForbidden        = errors.New("forbidden")
	ErrNoEmployee       = errors.New("requester is not linked to an employee")
	ErrInvalidTime      = errors.New("logout time must be after login time")
)
