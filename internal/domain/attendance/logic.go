package attendance

import (
	"fmt"
	"math"
	"time"
)

// ClockTime is a wall-clock time of day.
type ClockTime struct {
	Hour   int
	Minute int
}

func ParseClock(value string) (ClockTime, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid time %q: %w", value, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// On places the clock time on the civil date in loc.
func (c ClockTime) On(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, loc)
}

// IsLate reports whether login falls strictly after the cutoff on its own day.
func IsLate(login time.Time, cutoff ClockTime) bool {
	limit := time.Date(login.Year(), login.Month(), login.Day(), cutoff.Hour, cutoff.Minute, 0, 0, login.Location())
	return login.After(limit)
}

// WorkedHours is the time between login and logout less break minutes,
// rounded to two decimals and never negative.
func WorkedHours(login, logout time.Time, breakMinutes int) float64 {
	worked := logout.Sub(login) - time.Duration(breakMinutes)*time.Minute
	if worked <= 0 {
		return 0
	}
	return math.Round(worked.Hours()*100) / 100
}

func BreakDuration(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(math.Round(end.Sub(start).Minutes()))
}

// Summarize folds records into attendance statistics.
func Summarize(records []Record) Stats {
	var stats Stats
	for _, r := range records {
		stats.PresentDays++
		if r.IsLate {
			stats.LateDays++
		}
		stats.TotalHours += r.TotalHours
	}
	stats.TotalHours = math.Round(stats.TotalHours*100) / 100
	if stats.PresentDays > 0 {
		stats.AverageHours = math.Round(stats.TotalHours/float64(stats.PresentDays)*100) / 100
	}
	return stats
}

func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
