package payroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func interval(t *testing.T, employeeID, start, end, status string, paid bool) LeaveInterval {
	t.Helper()
	return LeaveInterval{EmployeeID: employeeID, Start: date(t, start), End: date(t, end), Status: status, IsPaid: paid}
}

func TestAggregateLeaveMatchesAliases(t *testing.T) {
	identity := NewEmployeeIdentity("7f1c", "EMP001", "legacy-42")
	leaves := []LeaveInterval{
		interval(t, "7f1c", "2025-02-10", "2025-02-11", LeaveStatusApproved, false),
		interval(t, "EMP001", "2025-02-12", "2025-02-12", LeaveStatusApproved, true),
		interval(t, "legacy-42", "2025-02-13", "2025-02-14", LeaveStatusApproved, true),
		interval(t, "someone-else", "2025-02-03", "2025-02-07", LeaveStatusApproved, false),
	}
	paid, unpaid, err := AggregateLeave(identity, leaves, Period{2025, 2}, PolicySixDayWeek)
	require.NoError(t, err)
	assert.Equal(t, 3, paid)
	assert.Equal(t, 2, unpaid)
}

func TestAggregateLeaveIgnoresUndecided(t *testing.T) {
	identity := NewEmployeeIdentity("e1")
	leaves := []LeaveInterval{
		interval(t, "e1", "2025-02-10", "2025-02-11", LeaveStatusPending, false),
		interval(t, "e1", "2025-02-12", "2025-02-13", LeaveStatusRejected, false),
	}
	paid, unpaid, err := AggregateLeave(identity, leaves, Period{2025, 2}, PolicyFlat30)
	require.NoError(t, err)
	assert.Zero(t, paid)
	assert.Zero(t, unpaid)
}

func TestAggregateLeaveNoRecords(t *testing.T) {
	paid, unpaid, err := AggregateLeave(NewEmployeeIdentity("e1"), nil, Period{2025, 2}, PolicyFlat30)
	require.NoError(t, err)
	assert.Zero(t, paid)
	assert.Zero(t, unpaid)
}

func TestAggregateLeaveInvalidPeriod(t *testing.T) {
	_, _, err := AggregateLeave(NewEmployeeIdentity("e1"), nil, Period{2025, 14}, PolicyFlat30)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestEmployeeIdentity(t *testing.T) {
	id := NewEmployeeIdentity(" p1 ", "", "code", "p1")
	assert.True(t, id.Matches("p1"))
	assert.True(t, id.Matches("code"))
	assert.False(t, id.Matches(""))
	assert.False(t, id.Matches("other"))
	assert.Equal(t, "p1", id.IDs()[0])
	assert.Len(t, id.IDs(), 2)
}
