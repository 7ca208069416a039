package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type SynthesisInput struct {
	Employee         Employee
	Period           Period
	Policy           Policy
	Calendar         Calendar
	TotalWorkingDays int
	PaidLeaveDays    int
	UnpaidLeaveDays  int
}

// Synthesize turns working-day and leave totals into a payroll result.
// Only unpaid leave produces deductions.
func Synthesize(in SynthesisInput) (Result, error) {
	if in.Employee.BaseSalary.IsNegative() {
		return Result{}, fmt.Errorf("%w: %s", ErrNegativeSalary, in.Employee.BaseSalary)
	}
	if in.TotalWorkingDays <= 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrNoWorkingDays, in.TotalWorkingDays)
	}
	if in.PaidLeaveDays < 0 || in.UnpaidLeaveDays < 0 {
		return Result{}, ErrNegativeLeaveDays
	}

	base := in.Employee.BaseSalary
	perDay := base.Div(decimal.NewFromInt(int64(in.TotalWorkingDays)))
	deductions := perDay.Mul(decimal.NewFromInt(int64(in.UnpaidLeaveDays))).Round(0)

	return Result{
		EmployeeID:        in.Employee.Identity.PrimaryID,
		EmployeeName:      in.Employee.Name,
		Department:        in.Employee.Department,
		Position:          in.Employee.Position,
		Year:              in.Period.Year,
		Month:             in.Period.Month,
		Policy:            in.Policy,
		DaysInMonth:       in.Calendar.DaysInMonth,
		RestDays:          in.Calendar.RestDays,
		BaseSalary:        base,
		TotalWorkingDays:  in.TotalWorkingDays,
		ActualWorkingDays: in.TotalWorkingDays - in.PaidLeaveDays - in.UnpaidLeaveDays,
		PaidLeaveDays:     in.PaidLeaveDays,
		UnpaidLeaveDays:   in.UnpaidLeaveDays,
		PerDaySalary:      perDay,
		Deductions:        deductions,
		FinalSalary:       base.Sub(deductions),
	}, nil
}

// Calculator applies one payroll policy. It holds no mutable state.
type Calculator struct {
	Policy Policy
}

func NewCalculator(policy Policy) (Calculator, error) {
	if _, err := ParsePolicy(string(policy)); err != nil {
		return Calculator{}, err
	}
	return Calculator{Policy: policy}, nil
}

func (c Calculator) Compute(emp Employee, leaves []LeaveInterval, period Period) (Result, error) {
	cal, err := MonthCalendar(period)
	if err != nil {
		return Result{}, err
	}
	total, err := c.Policy.workingDays(cal)
	if err != nil {
		return Result{}, err
	}
	paid, unpaid, err := AggregateLeave(emp.Identity, leaves, period, c.Policy)
	if err != nil {
		return Result{}, err
	}
	return Synthesize(SynthesisInput{
		Employee:         emp,
		Period:           period,
		Policy:           c.Policy,
		Calendar:         cal,
		TotalWorkingDays: total,
		PaidLeaveDays:    paid,
		UnpaidLeaveDays:  unpaid,
	})
}

// Report computes one result per employee in directory order.
func (c Calculator) Report(employees []Employee, leaves []LeaveInterval, period Period) (Report, error) {
	report := Report{Period: period, Policy: c.Policy, Results: make([]Result, 0, len(employees))}
	for _, emp := range employees {
		res, err := c.Compute(emp, leaves, period)
		if err != nil {
			return Report{}, fmt.Errorf("compute payroll for %s: %w", emp.Identity.PrimaryID, err)
		}
		report.Results = append(report.Results, res)
	}
	return report, nil
}
