package leave

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/payroll"
)

// Directory resolves employees by any of their identifiers.
type Directory interface {
	FindPayrollEmployee(ctx context.Context, ref string) (payroll.Employee, error)
}

type Service struct {
	store     StoreAPI
	directory Directory
	now       func() time.Time
}

func NewService(store StoreAPI, directory Directory) *Service {
	return &Service{store: store, directory: directory, now: time.Now}
}

// List returns every request for admins and only the caller's own otherwise.
// Ownership matches every identifier the caller's employee is known by.
func (s *Service) List(ctx context.Context, caller auth.UserContext, filter ListFilter) ([]Request, int, error) {
	if !caller.IsAdmin() {
		identity, err := s.identity(ctx, caller)
		if err != nil {
			return nil, 0, err
		}
		filter.EmployeeIDs = identity.IDs()
	}
	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// IdentityFor resolves the alias set for an employee reference.
func (s *Service) IdentityFor(ctx context.Context, ref string) (payroll.EmployeeIdentity, error) {
	emp, err := s.directory.FindPayrollEmployee(ctx, ref)
	if err != nil {
		return payroll.EmployeeIdentity{}, err
	}
	return emp.Identity, nil
}

func (s *Service) Create(ctx context.Context, caller auth.UserContext, in CreateInput) (Request, error) {
	leaveType, err := NormalizeType(in.LeaveType)
	if err != nil {
		return Request{}, err
	}
	start, end, err := ParseRange(in.StartDate, in.EndDate)
	if err != nil {
		return Request{}, err
	}

	ref := caller.EmployeeID
	if caller.IsAdmin() && strings.TrimSpace(in.EmployeeID) != "" {
		ref = strings.TrimSpace(in.EmployeeID)
	}
	if ref == "" {
		return Request{}, ErrNoEmployee
	}
	emp, err := s.directory.FindPayrollEmployee(ctx, ref)
	if err != nil {
		return Request{}, err
	}

	now := s.now().UTC()
	created, err := s.store.Create(ctx, Request{
		EmployeeID:   emp.Identity.PrimaryID,
		EmployeeName: emp.Name,
		LeaveType:    leaveType,
		StartDate:    start,
		EndDate:      end,
		Reason:       strings.TrimSpace(in.Reason),
		Status:       StatusPending,
		AppliedDate:  time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		return Request{}, err
	}
	slog.Info("leave requested", "leaveId", created.ID, "employeeId", created.EmployeeID, "days", CalculateDays(start, end))
	return created, nil
}

// Decide applies an admin's status and paid-flag change.
func (s *Service) Decide(ctx context.Context, caller auth.UserContext, id string, in DecisionInput) (Request, error) {
	if !caller.IsAdmin() {
		return Request{}, ErrForbidden
	}
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return Request{}, err
	}
	status := current.Status
	if in.Status != nil {
		status = strings.ToLower(strings.TrimSpace(*in.Status))
		if !ValidStatus(status) {
			return Request{}, ErrInvalidStatus
		}
	}
	isPaid := current.IsPaid
	if in.IsPaid != nil {
		isPaid = *in.IsPaid
	}
	updated, err := s.store.UpdateDecision(ctx, current.ID, status, isPaid, caller.UserID)
	if err != nil {
		return Request{}, err
	}
	slog.Info("leave decided", "leaveId", updated.ID, "status", updated.Status, "isPaid", updated.IsPaid, "by", caller.UserID)
	return updated, nil
}

// Delete lets admins remove any request and employees withdraw their own pending ones.
func (s *Service) Delete(ctx context.Context, caller auth.UserContext, id string) error {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !caller.IsAdmin() {
		identity, err := s.identity(ctx, caller)
		if err != nil {
			return err
		}
		if !identity.Matches(current.EmployeeID) {
			return ErrForbidden
		}
		if current.Status != StatusPending {
			return ErrInvalidState
		}
	}
	return s.store.Delete(ctx, current.ID)
}

// ApprovedIntervals feeds the payroll calculator approved leave touching the period.
func (s *Service) ApprovedIntervals(ctx context.Context, period payroll.Period) ([]payroll.LeaveInterval, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	items, err := s.store.ListApprovedBetween(ctx, period.Start(), period.End())
	if err != nil {
		return nil, err
	}
	out := make([]payroll.LeaveInterval, 0, len(items))
	for _, item := range items {
		out = append(out, item.Interval())
	}
	return out, nil
}

func (s *Service) identity(ctx context.Context, caller auth.UserContext) (payroll.EmployeeIdentity, error) {
	if caller.EmployeeID == "" {
		return payroll.EmployeeIdentity{}, ErrNoEmployee
	}
	identity, err := s.IdentityFor(ctx, caller.EmployeeID)
	if errors.Is(err, payroll.ErrEmployeeNotFound) {
		return payroll.EmployeeIdentity{}, ErrNoEmployee
	}
	return identity, err
}
