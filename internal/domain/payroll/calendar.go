package payroll

import (
	"fmt"
	"time"
)

type Policy string

func ParsePolicy(value string) (Policy, error) {
	switch Policy(value) {
	case PolicySixDayWeek, PolicyFlat30:
		return Policy(value), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, value)
}

// Calendar describes the shape of one month.
type Calendar struct {
	DaysInMonth int `json:"daysInMonth"`
	RestDays    int `json:"restDays"`
}

// MonthCalendar counts the calendar days and Sundays of the period's month.
func MonthCalendar(period Period) (Calendar, error) {
	if err := period.Validate(); err != nil {
		return Calendar{}, err
	}
	start := period.Start()
	end := period.End()
	cal := Calendar{DaysInMonth: end.Day()}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Sunday {
			cal.RestDays++
		}
	}
	return cal, nil
}

func (p Policy) TotalWorkingDays(period Period) (int, error) {
	cal, err := MonthCalendar(period)
	if err != nil {
		return 0, err
	}
	return p.workingDays(cal)
}

func (p Policy) workingDays(cal Calendar) (int, error) {
	switch p {
	case PolicySixDayWeek:
		return cal.DaysInMonth - cal.RestDays, nil
	case PolicyFlat30:
		return flatMonthDays, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, string(p))
}

func (p Policy) excludesRestDays() bool {
	return p == PolicySixDayWeek
}
