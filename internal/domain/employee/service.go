package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/payroll"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Employee, int, error) {
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

func (s *Service) Get(ctx context.Context, ref string) (Employee, error) {
	if strings.TrimSpace(ref) == "" {
		return Employee{}, ErrNotFound
	}
	return s.store.Get(ctx, ref)
}

// ForUser returns the employee linked to the caller's login.
func (s *Service) ForUser(ctx context.Context, caller auth.UserContext) (Employee, error) {
	if caller.EmployeeID == "" {
		return Employee{}, ErrNotLinked
	}
	return s.store.Get(ctx, caller.EmployeeID)
}

// Create adds an employee along with an employee-role login.
func (s *Service) Create(ctx context.Context, in CreateInput) (Employee, error) {
	joining, err := parseJoiningDate(in.JoiningDate)
	if err != nil {
		return Employee{}, err
	}
	if in.Salary.IsNegative() {
		return Employee{}, ErrInvalidSalary
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Employee{}, fmt.Errorf("hash password: %w", err)
	}

	emp := Employee{
		EmployeeCode: strings.TrimSpace(in.EmployeeCode),
		LegacyID:     strings.TrimSpace(in.LegacyID),
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Username:     strings.TrimSpace(in.Username),
		Phone:        strings.TrimSpace(in.Phone),
		Department:   strings.TrimSpace(in.Department),
		Position:     strings.TrimSpace(in.Position),
		Salary:       in.Salary,
		JoiningDate:  joining,
	}
	created, err := s.store.CreateWithUser(ctx, emp, auth.User{
		Username:     emp.Username,
		Email:        emp.Email,
		Name:         emp.Name,
		Role:         auth.RoleEmployee,
		PasswordHash: hash,
	})
	if err != nil {
		return Employee{}, err
	}
	slog.Info("employee created", "employeeId", created.ID, "code", created.EmployeeCode)
	return created, nil
}

func (s *Service) Update(ctx context.Context, ref string, in UpdateInput) (Employee, error) {
	joining, err := parseJoiningDate(in.JoiningDate)
	if err != nil {
		return Employee{}, err
	}
	if in.Salary.IsNegative() {
		return Employee{}, ErrInvalidSalary
	}
	current, err := s.Get(ctx, ref)
	if err != nil {
		return Employee{}, err
	}
	current.Name = strings.TrimSpace(in.Name)
	current.Email = strings.ToLower(strings.TrimSpace(in.Email))
	current.Phone = strings.TrimSpace(in.Phone)
	current.Department = strings.TrimSpace(in.Department)
	current.Position = strings.TrimSpace(in.Position)
	current.Salary = in.Salary
	current.JoiningDate = joining
	return s.store.Update(ctx, current.ID, current)
}

func (s *Service) Delete(ctx context.Context, ref string) error {
	current, err := s.Get(ctx, ref)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, current.ID)
}

// ListPayrollEmployees serves the payroll report its directory snapshot.
func (s *Service) ListPayrollEmployees(ctx context.Context) ([]payroll.Employee, error) {
	items, err := s.store.List(ctx, ListFilter{})
	if err != nil {
		return nil, err
	}
	out := make([]payroll.Employee, 0, len(items))
	for _, emp := range items {
		out = append(out, emp.PayrollEmployee())
	}
	return out, nil
}

func (s *Service) FindPayrollEmployee(ctx context.Context, ref string) (payroll.Employee, error) {
	emp, err := s.Get(ctx, ref)
	if errors.Is(err, ErrNotFound) {
		return payroll.Employee{}, payroll.ErrEmployeeNotFound
	}
	if err != nil {
		return payroll.Employee{}, err
	}
	return emp.PayrollEmployee(), nil
}

func parseJoiningDate(value string) (time.Time, error) {
	d, err := payroll.ParseDate(strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, ErrInvalidJoining
	}
	return d, nil
}
