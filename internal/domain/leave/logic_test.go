package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateDays(t *testing.T) {
	start := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, CalculateDays(start, start))
	assert.Equal(t, 3, CalculateDays(start, start.AddDate(0, 0, 2)))
	assert.Equal(t, 0, CalculateDays(start, start.AddDate(0, 0, -1)))
}

func TestParseRange(t *testing.T) {
	start, end, err := ParseRange("2025-02-10", "2025-02-11")
	require.NoError(t, err)
	assert.Equal(t, 2, CalculateDays(start, end))

	_, _, err = ParseRange("2025-02-12", "2025-02-10")
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, _, err = ParseRange("10/02/2025", "2025-02-10")
	assert.Error(t, err)
}

func TestNormalizeType(t *testing.T) {
	got, err := NormalizeType(" sick ")
	require.NoError(t, err)
	assert.Equal(t, "Sick", got)

	_, err = NormalizeType("Sabbatical")
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusApproved))
	assert.False(t, ValidStatus("cancelled"))
}
