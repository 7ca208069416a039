package metrics

import (
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64
	payrollRuns     uint64
	payrollResults  uint64
	jobsCompleted   uint64
	jobsFailed      uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

// RecordPayrollRun counts one computed report and the results it produced.
func (c *Collector) RecordPayrollRun(employees int) {
	atomic.AddUint64(&c.payrollRuns, 1)
	if employees > 0 {
		atomic.AddUint64(&c.payrollResults, uint64(employees))
	}
}

func (c *Collector) RecordJob(failed bool) {
	if failed {
		atomic.AddUint64(&c.jobsFailed, 1)
		return
	}
	atomic.AddUint64(&c.jobsCompleted, 1)
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	limited := atomic.LoadUint64(&c.rateLimited)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":       total,
		"errorsTotal":         errs,
		"rateLimitedTotal":    limited,
		"avgDurationMs":       avg,
		"totalDurationMs":     totalMs,
		"payrollRunsTotal":    atomic.LoadUint64(&c.payrollRuns),
		"payrollResultsTotal": atomic.LoadUint64(&c.payrollResults),
		"jobsCompletedTotal":  atomic.LoadUint64(&c.jobsCompleted),
		"jobsFailedTotal":     atomic.LoadUint64(&c.jobsFailed),
	}
}
