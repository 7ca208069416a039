package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsLate(t *testing.T) {
	cutoff, err := ParseClock("09:30")
	require.NoError(t, err)

	day := func(h, m int) time.Time { return time.Date(2025, 2, 10, h, m, 0, 0, time.UTC) }
	assert.False(t, IsLate(day(9, 0), cutoff))
	assert.False(t, IsLate(day(9, 30), cutoff))
	assert.True(t, IsLate(day(9, 31), cutoff))
	assert.True(t, IsLate(day(14, 0), cutoff))
}

func TestParseClockRejectsGarbage(t *testing.T) {
	_, err := ParseClock("9.30am")
	assert.Error(t, err)
}

func TestWorkedHours(t *testing.T) {
	login := time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, 8.0, WorkedHours(login, login.Add(8*time.Hour), 0))
	assert.Equal(t, 7.5, WorkedHours(login, login.Add(8*time.Hour), 30))
	assert.Equal(t, 0.0, WorkedHours(login, login.Add(10*time.Minute), 30))
	assert.Equal(t, 1.33, WorkedHours(login, login.Add(80*time.Minute), 0))
}

func TestBreakDuration(t *testing.T) {
	start := time.Date(2025, 2, 10, 13, 0, 0, 0, time.UTC)
	assert.Equal(t, 45, BreakDuration(start, start.Add(45*time.Minute)))
	assert.Equal(t, 0, BreakDuration(start, start.Add(-time.Minute)))
}

func TestSummarize(t *testing.T) {
	stats := Summarize([]Record{
		{TotalHours: 8, IsLate: true},
		{TotalHours: 7.5},
		{TotalHours: 6},
	})
	assert.Equal(t, 3, stats.PresentDays)
	assert.Equal(t, 1, stats.LateDays)
	assert.Equal(t, 21.5, stats.TotalHours)
	assert.Equal(t, 7.17, stats.AverageHours)

	assert.Equal(t, Stats{}, Summarize(nil))
}
