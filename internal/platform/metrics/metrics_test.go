package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCollectorSnapshot(t *testing.T) {
	c := New()
	c.Record(200, 10*time.Millisecond)
	c.Record(500, 30*time.Millisecond)
	c.Record(429, 0)
	c.RecordPayrollRun(3)
	c.RecordPayrollRun(0)
	c.RecordJob(false)
	c.RecordJob(true)

	snap := c.Snapshot()
	assert.Equal(t, uint64(3), snap["requestsTotal"])
	assert.Equal(t, uint64(1), snap["errorsTotal"])
	assert.Equal(t, uint64(1), snap["rateLimitedTotal"])
	assert.InDelta(t, 13.33, snap["avgDurationMs"], 0.01)
	assert.Equal(t, uint64(2), snap["payrollRunsTotal"])
	assert.Equal(t, uint64(3), snap["payrollResultsTotal"])
	assert.Equal(t, uint64(1), snap["jobsCompletedTotal"])
	assert.Equal(t, uint64(1), snap["jobsFailedTotal"])
}
