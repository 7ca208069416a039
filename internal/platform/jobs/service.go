package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"hrms/internal/domain/payroll"
	"hrms/internal/platform/querier"
)

const JobPayrollClose = payroll.JobPayrollClose

// PayrollCloser snapshots a finished month.
type PayrollCloser interface {
	CloseMonth(ctx context.Context, period payroll.Period) (map[string]any, error)
}

type Recorder interface {
	RecordJob(failed bool)
}

type Service struct {
	DB       querier.Querier
	Payroll  PayrollCloser
	Recorder Recorder
	Interval time.Duration
	queue    chan job
	now      func() time.Time

	mu         sync.Mutex
	lastClosed payroll.Period
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

// New builds the job runner. db may be nil, in which case runs are not
// journaled to job_runs.
func New(db querier.Querier, closer PayrollCloser, recorder Recorder, interval time.Duration) *Service {
	return &Service{
		DB:       db,
		Payroll:  closer,
		Recorder: recorder,
		Interval: interval,
		queue:    make(chan job, 128),
		now:      time.Now,
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Interval > 0 && s.Payroll != nil {
		go s.schedulePayrollClose(ctx, s.Interval)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) bool {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
		return true
	default:
		slog.Warn("job queue full", "jobType", jobType)
		return false
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if s.DB != nil {
		if err := s.DB.QueryRow(ctx, `
      INSERT INTO job_runs (job_type, status)
      VALUES ($1,$2)
      RETURNING id
    `, j.Type, "running").Scan(&runID); err != nil {
			slog.Warn("job run insert failed", "err", err)
		}
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	if s.Recorder != nil {
		s.Recorder.RecordJob(err != nil)
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

func (s *Service) schedulePayrollClose(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.enqueuePayrollClose()
		}
	}
}

// enqueuePayrollClose queues a close of the month before the current one,
// once per month.
func (s *Service) enqueuePayrollClose() bool {
	period := payroll.PeriodOf(s.now()).Previous()

	s.mu.Lock()
	if s.lastClosed == period {
		s.mu.Unlock()
		return false
	}
	s.lastClosed = period
	s.mu.Unlock()

	queued := s.Enqueue(JobPayrollClose, func(ctx context.Context) (any, error) {
		details, err := s.Payroll.CloseMonth(ctx, period)
		if err != nil {
			s.forgetClosed(period)
		}
		return details, err
	})
	if !queued {
		s.forgetClosed(period)
	}
	return queued
}

// forgetClosed lets the next tick close period again.
func (s *Service) forgetClosed(period payroll.Period) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastClosed == period {
		s.lastClosed = payroll.Period{}
	}
}
