package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func employee(id string, salary int64, aliases ...string) Employee {
	return Employee{
		Identity:   NewEmployeeIdentity(id, aliases...),
		Name:       "Employee " + id,
		Department: "Engineering",
		Position:   "Engineer",
		BaseSalary: decimal.NewFromInt(salary),
	}
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestComputeSixDayWeekUnpaidLeave(t *testing.T) {
	calc := Calculator{Policy: PolicySixDayWeek}
	leaves := []LeaveInterval{interval(t, "e1", "2025-02-10", "2025-02-11", LeaveStatusApproved, false)}

	res, err := calc.Compute(employee("e1", 12000), leaves, Period{2025, 2})
	require.NoError(t, err)

	assert.Equal(t, 24, res.TotalWorkingDays)
	assert.Equal(t, 4, res.RestDays)
	assert.Equal(t, 28, res.DaysInMonth)
	assert.Equal(t, 2, res.UnpaidLeaveDays)
	assert.Equal(t, 0, res.PaidLeaveDays)
	assert.Equal(t, 22, res.ActualWorkingDays)
	assertMoney(t, "500", res.PerDaySalary)
	assertMoney(t, "1000", res.Deductions)
	assertMoney(t, "11000", res.FinalSalary)
}

func TestSynthesizeFlat30PaidLeaveHasNoEffect(t *testing.T) {
	res, err := Synthesize(SynthesisInput{
		Employee:         employee("e1", 15000),
		Period:           Period{2025, 2},
		Policy:           PolicyFlat30,
		TotalWorkingDays: 30,
		PaidLeaveDays:    2,
		UnpaidLeaveDays:  2,
	})
	require.NoError(t, err)
	assertMoney(t, "500", res.PerDaySalary)
	assertMoney(t, "1000", res.Deductions)
	assertMoney(t, "14000", res.FinalSalary)
	assert.Equal(t, 26, res.ActualWorkingDays)
}

func TestComputeClampsLeaveToMonth(t *testing.T) {
	leaves := []LeaveInterval{interval(t, "e1", "2025-01-28", "2025-02-03", LeaveStatusApproved, false)}

	six, err := Calculator{Policy: PolicySixDayWeek}.Compute(employee("e1", 24000), leaves, Period{2025, 2})
	require.NoError(t, err)
	assert.Equal(t, 2, six.UnpaidLeaveDays)
	assertMoney(t, "2000", six.Deductions)

	flat, err := Calculator{Policy: PolicyFlat30}.Compute(employee("e1", 30000), leaves, Period{2025, 2})
	require.NoError(t, err)
	assert.Equal(t, 3, flat.UnpaidLeaveDays)
	assertMoney(t, "3000", flat.Deductions)
	assertMoney(t, "27000", flat.FinalSalary)
}

func TestComputeWithoutLeaveKeepsBaseSalary(t *testing.T) {
	outside := []LeaveInterval{
		interval(t, "e1", "2025-01-02", "2025-01-20", LeaveStatusApproved, false),
		interval(t, "e1", "2025-03-01", "2025-03-20", LeaveStatusApproved, true),
	}
	for _, policy := range []Policy{PolicySixDayWeek, PolicyFlat30} {
		for _, leaves := range [][]LeaveInterval{nil, outside} {
			res, err := Calculator{Policy: policy}.Compute(employee("e1", 43210), leaves, Period{2025, 2})
			require.NoError(t, err)
			assert.True(t, res.Deductions.IsZero())
			assertMoney(t, "43210", res.FinalSalary)
		}
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	calc := Calculator{Policy: PolicySixDayWeek}
	leaves := []LeaveInterval{
		interval(t, "e1", "2025-02-03", "2025-02-05", LeaveStatusApproved, false),
		interval(t, "e1", "2025-02-17", "2025-02-18", LeaveStatusApproved, true),
	}
	first, err := calc.Compute(employee("e1", 31000), leaves, Period{2025, 2})
	require.NoError(t, err)
	second, err := calc.Compute(employee("e1", 31000), leaves, Period{2025, 2})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSynthesizeMonotonicInUnpaidDays(t *testing.T) {
	prev := decimal.NewFromInt(1 << 40)
	for unpaid := 0; unpaid <= 26; unpaid++ {
		res, err := Synthesize(SynthesisInput{
			Employee:         employee("e1", 37777),
			Policy:           PolicySixDayWeek,
			TotalWorkingDays: 26,
			UnpaidLeaveDays:  unpaid,
		})
		require.NoError(t, err)
		assert.True(t, res.FinalSalary.LessThanOrEqual(prev), "unpaid=%d", unpaid)
		prev = res.FinalSalary
	}
}

func TestSynthesizePaidLeaveInvariance(t *testing.T) {
	var baseline Result
	for paid := 0; paid <= 10; paid++ {
		res, err := Synthesize(SynthesisInput{
			Employee:         employee("e1", 25999),
			Policy:           PolicyFlat30,
			TotalWorkingDays: 30,
			PaidLeaveDays:    paid,
			UnpaidLeaveDays:  3,
		})
		require.NoError(t, err)
		if paid == 0 {
			baseline = res
			continue
		}
		assert.True(t, baseline.Deductions.Equal(res.Deductions))
		assert.True(t, baseline.FinalSalary.Equal(res.FinalSalary))
	}
}

func TestSynthesizeRoundsDeductions(t *testing.T) {
	res, err := Synthesize(SynthesisInput{
		Employee:         employee("e1", 10000),
		Policy:           PolicySixDayWeek,
		TotalWorkingDays: 26,
		UnpaidLeaveDays:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, "384.62", res.PerDaySalary.StringFixed(2))
	assertMoney(t, "385", res.Deductions)
	assertMoney(t, "9615", res.FinalSalary)
	assert.True(t, res.FinalSalary.Equal(res.BaseSalary.Sub(res.Deductions)))

	shown := Report{Results: []Result{res}}.Display()
	assert.Equal(t, "384.62", shown.Results[0].PerDaySalary.String())
	assert.NotEqual(t, "384.62", res.PerDaySalary.String())
}

func TestSynthesizeFractionalSalaryKeepsFinalExact(t *testing.T) {
	cases := []struct {
		base       string
		unpaid     int
		deductions string
		final      string
	}{
		{base: "100.60", unpaid: 0, deductions: "0", final: "100.60"},
		{base: "1000.40", unpaid: 1, deductions: "42", final: "958.40"},
	}
	for _, tc := range cases {
		emp := employee("e1", 0)
		emp.BaseSalary = decimal.RequireFromString(tc.base)
		res, err := Synthesize(SynthesisInput{
			Employee:         emp,
			Policy:           PolicySixDayWeek,
			TotalWorkingDays: 24,
			UnpaidLeaveDays:  tc.unpaid,
		})
		require.NoError(t, err)
		assertMoney(t, tc.deductions, res.Deductions)
		assertMoney(t, tc.final, res.FinalSalary)
		assert.True(t, res.FinalSalary.Equal(res.BaseSalary.Sub(res.Deductions)), tc.base)
	}
}

func TestSynthesizeRejectsInvalidInput(t *testing.T) {
	_, err := Synthesize(SynthesisInput{Employee: employee("e1", -1), TotalWorkingDays: 24})
	assert.ErrorIs(t, err, ErrNegativeSalary)

	_, err = Synthesize(SynthesisInput{Employee: employee("e1", 1000), TotalWorkingDays: 0})
	assert.ErrorIs(t, err, ErrNoWorkingDays)

	_, err = Synthesize(SynthesisInput{Employee: employee("e1", 1000), TotalWorkingDays: 24, UnpaidLeaveDays: -2})
	assert.ErrorIs(t, err, ErrNegativeLeaveDays)
}

func TestReportKeepsDirectoryOrder(t *testing.T) {
	employees := []Employee{employee("b", 2000), employee("a", 1000, "EMP-A")}
	leaves := []LeaveInterval{interval(t, "EMP-A", "2025-02-10", "2025-02-10", LeaveStatusApproved, false)}

	report, err := Calculator{Policy: PolicyFlat30}.Report(employees, leaves, Period{2025, 2})
	require.NoError(t, err)
	require.Len(t, report.Results, 2)
	assert.Equal(t, "b", report.Results[0].EmployeeID)
	assert.Equal(t, "a", report.Results[1].EmployeeID)
	assert.Equal(t, 1, report.Results[1].UnpaidLeaveDays)

	base, deductions, final := report.Totals()
	assertMoney(t, "3000", base)
	assertMoney(t, "33", deductions)
	assertMoney(t, "2967", final)
}

func TestNewCalculatorRejectsUnknownPolicy(t *testing.T) {
	_, err := NewCalculator("weekly")
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}
