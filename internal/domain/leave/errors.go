package leave

import "errors"

var (
	ErrNotFound      = errors.New("leave request not found")
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidState  = errors.New("invalid state")
	ErrInvalidRange  = errors.New("end date before start date")
	ErrInvalidType   = errors.New("unknown leave type")
	ErrInvalidStatus = errors.New("unknown leave status")
	ErrNoEmployee    = errors.New("requester is not linked to an employee")
)
