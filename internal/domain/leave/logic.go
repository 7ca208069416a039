package leave

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"hrms/internal/domain/payroll"
)

const dateLayout = "2006-01-02"

// CalculateDays returns the inclusive calendar day count, or 0 when end precedes start.
func CalculateDays(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

func ParseRange(startValue, endValue string) (time.Time, time.Time, error) {
	start, err := payroll.ParseDate(strings.TrimSpace(startValue))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := payroll.ParseDate(strings.TrimSpace(endValue))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	return start, end, nil
}

// NormalizeType matches a leave type case-insensitively and returns its canonical name.
func NormalizeType(value string) (string, error) {
	value = strings.TrimSpace(value)
	for _, t := range LeaveTypes {
		if strings.EqualFold(t, value) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidType, value)
}

func ValidStatus(status string) bool {
	return slices.Contains(Statuses, status)
}
