package payroll

import (
	"fmt"
	"time"
)

// LeaveDaysInMonth returns how many days of the inclusive interval
// [start, end] fall inside the period. Sundays are skipped under
// PolicySixDayWeek. An inverted interval counts as no overlap.
func (p Policy) LeaveDaysInMonth(start, end time.Time, period Period) (int, error) {
	if err := period.Validate(); err != nil {
		return 0, err
	}
	if p != PolicySixDayWeek && p != PolicyFlat30 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, string(p))
	}

	overlapStart := latest(civilDate(start), period.Start())
	overlapEnd := earliest(civilDate(end), period.End())
	if overlapStart.After(overlapEnd) {
		return 0, nil
	}

	if !p.excludesRestDays() {
		return int(overlapEnd.Sub(overlapStart).Hours()/24) + 1, nil
	}

	days := 0
	for d := overlapStart; !d.After(overlapEnd); d = d.AddDate(0, 0, 1) {
		if d.Weekday() != time.Sunday {
			days++
		}
	}
	return days, nil
}

func latest(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earliest(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
