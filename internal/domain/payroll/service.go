package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Directory is the employee source the report reads from.
type Directory interface {
	ListPayrollEmployees(ctx context.Context) ([]Employee, error)
	FindPayrollEmployee(ctx context.Context, id string) (Employee, error)
}

// Ledger supplies approved leave overlapping a period.
type Ledger interface {
	ApprovedIntervals(ctx context.Context, period Period) ([]LeaveInterval, error)
}

type Recorder interface {
	RecordPayrollRun(employees int)
}

type Service struct {
	store     StoreAPI
	directory Directory
	ledger    Ledger
	calc      Calculator
	recorder  Recorder
	group     singleflight.Group
}

func NewService(store StoreAPI, directory Directory, ledger Ledger, calc Calculator, recorder Recorder) *Service {
	return &Service{store: store, directory: directory, ledger: ledger, calc: calc, recorder: recorder}
}

func (s *Service) Policy() Policy {
	return s.calc.Policy
}

// Report computes the month for every employee in the directory.
// Concurrent calls for the same period share one computation. The shared
// computation outlives any single caller; each caller still returns as soon
// as its own context is done.
func (s *Service) Report(ctx context.Context, period Period) (Report, error) {
	if err := period.Validate(); err != nil {
		return Report{}, err
	}
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(period.String(), func() (any, error) {
		return s.buildReport(shared, period)
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return Report{}, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return Report{}, res.Err
	}
	report := res.Val.(Report)
	results := make([]Result, len(report.Results))
	copy(results, report.Results)
	report.Results = results
	return report, nil
}

func (s *Service) buildReport(ctx context.Context, period Period) (Report, error) {
	var employees []Employee
	var leaves []LeaveInterval

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employees, err = s.directory.ListPayrollEmployees(gctx)
		if err != nil {
			return fmt.Errorf("list employees: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		leaves, err = s.ledger.ApprovedIntervals(gctx, period)
		if err != nil {
			return fmt.Errorf("list approved leave: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	report, err := s.calc.Report(employees, leaves, period)
	if err != nil {
		return Report{}, err
	}
	if s.recorder != nil {
		s.recorder.RecordPayrollRun(len(report.Results))
	}
	return report, nil
}

// EmployeeResult computes the month for one employee, resolved by any alias.
func (s *Service) EmployeeResult(ctx context.Context, employeeID string, period Period) (Result, error) {
	if err := period.Validate(); err != nil {
		return Result{}, err
	}
	emp, err := s.directory.FindPayrollEmployee(ctx, employeeID)
	if err != nil {
		return Result{}, err
	}
	leaves, err := s.ledger.ApprovedIntervals(ctx, period)
	if err != nil {
		return Result{}, fmt.Errorf("list approved leave: %w", err)
	}
	return s.calc.Compute(emp, leaves, period)
}

// ResolveIdentity returns the identity of the employee known by ref.
func (s *Service) ResolveIdentity(ctx context.Context, ref string) (EmployeeIdentity, error) {
	emp, err := s.directory.FindPayrollEmployee(ctx, ref)
	if err != nil {
		return EmployeeIdentity{}, err
	}
	return emp.Identity, nil
}

// SaveRecords persists the month's report, replacing earlier snapshots.
func (s *Service) SaveRecords(ctx context.Context, period Period, generatedBy string) ([]Record, error) {
	if s.store == nil {
		return nil, ErrRecordsUnavailable
	}
	report, err := s.Report(ctx, period)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(report.Results))
	for _, res := range report.Results {
		rec, err := s.store.UpsertRecord(ctx, res, generatedBy)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	slog.Info("payroll records saved", "period", period.String(), "policy", string(s.calc.Policy), "count", len(records))
	return records, nil
}

func (s *Service) ListRecords(ctx context.Context, filter RecordFilter) ([]Record, int, error) {
	if s.store == nil {
		return nil, 0, ErrRecordsUnavailable
	}
	total, err := s.store.CountRecords(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	records, err := s.store.ListRecords(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// CloseMonth snapshots the period and returns a summary for the job log.
func (s *Service) CloseMonth(ctx context.Context, period Period) (map[string]any, error) {
	records, err := s.SaveRecords(ctx, period, JobPayrollClose)
	if err != nil {
		return map[string]any{"period": period.String()}, err
	}
	return map[string]any{
		"period":  period.String(),
		"policy":  string(s.calc.Policy),
		"records": len(records),
	}, nil
}

func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrNegativeSalary) ||
		errors.Is(err, ErrNoWorkingDays) ||
		errors.Is(err, ErrNegativeLeaveDays)
}
