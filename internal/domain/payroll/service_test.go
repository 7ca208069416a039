package payroll

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	employees []Employee
	calls     atomic.Int32
	gate      chan struct{}
	err       error
}

func (f *fakeDirectory) ListPayrollEmployees(ctx context.Context) ([]Employee, error) {
	f.calls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.employees, f.err
}

func (f *fakeDirectory) FindPayrollEmployee(ctx context.Context, id string) (Employee, error) {
	for _, emp := range f.employees {
		if emp.Identity.Matches(id) {
			return emp, nil
		}
	}
	return Employee{}, ErrEmployeeNotFound
}

type fakeLedger struct {
	leaves []LeaveInterval
}

func (f *fakeLedger) ApprovedIntervals(ctx context.Context, period Period) ([]LeaveInterval, error) {
	return f.leaves, nil
}

type memoryStore struct {
	mu      sync.Mutex
	records map[string]Record
}

func (m *memoryStore) UpsertRecord(ctx context.Context, res Result, generatedBy string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.records == nil {
		m.records = map[string]Record{}
	}
	key := res.EmployeeID + "/" + res.Period().String()
	rec := Record{ID: key, Result: res, GeneratedBy: generatedBy, GeneratedAt: time.Now()}
	m.records[key] = rec
	return rec, nil
}

func (m *memoryStore) ListRecords(ctx context.Context, filter RecordFilter) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Record
	for _, rec := range m.records {
		if filter.Year > 0 && rec.Result.Year != filter.Year {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m *memoryStore) CountRecords(ctx context.Context, filter RecordFilter) (int, error) {
	recs, _ := m.ListRecords(ctx, filter)
	return len(recs), nil
}

type countingRecorder struct {
	runs atomic.Int32
}

func (c *countingRecorder) RecordPayrollRun(int) { c.runs.Add(1) }

func newTestService(t *testing.T, dir *fakeDirectory, ledger *fakeLedger, store StoreAPI) (*Service, *countingRecorder) {
	t.Helper()
	calc, err := NewCalculator(PolicySixDayWeek)
	require.NoError(t, err)
	rec := &countingRecorder{}
	return NewService(store, dir, ledger, calc, rec), rec
}

func TestServiceReport(t *testing.T) {
	dir := &fakeDirectory{employees: []Employee{employee("e1", 12000, "EMP001"), employee("e2", 24000)}}
	ledger := &fakeLedger{leaves: []LeaveInterval{
		interval(t, "EMP001", "2025-02-10", "2025-02-11", LeaveStatusApproved, false),
	}}
	svc, recorder := newTestService(t, dir, ledger, nil)

	report, err := svc.Report(context.Background(), Period{2025, 2})
	require.NoError(t, err)
	require.Len(t, report.Results, 2)
	assert.Equal(t, PolicySixDayWeek, report.Policy)
	assertMoney(t, "11000", report.Results[0].FinalSalary)
	assertMoney(t, "24000", report.Results[1].FinalSalary)
	assert.EqualValues(t, 1, recorder.runs.Load())
}

func TestServiceReportCollapsesConcurrentRequests(t *testing.T) {
	gate := make(chan struct{})
	dir := &fakeDirectory{employees: []Employee{employee("e1", 12000)}, gate: gate}
	svc, _ := newTestService(t, dir, &fakeLedger{}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Report(context.Background(), Period{2025, 2})
			assert.NoError(t, err)
		}()
	}
	require.Eventually(t, func() bool { return dir.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()
	assert.LessOrEqual(t, dir.calls.Load(), int32(5))
	assert.GreaterOrEqual(t, dir.calls.Load(), int32(1))
}

func TestServiceReportSurvivesCancelledPeer(t *testing.T) {
	gate := make(chan struct{})
	dir := &fakeDirectory{employees: []Employee{employee("e1", 12000)}, gate: gate}
	svc, _ := newTestService(t, dir, &fakeLedger{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Report(ctx, Period{2025, 2})
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return dir.calls.Load() == 1 }, time.Second, time.Millisecond)

	type outcome struct {
		report Report
		err    error
	}
	second := make(chan outcome, 1)
	go func() {
		report, err := svc.Report(context.Background(), Period{2025, 2})
		second <- outcome{report, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller did not return")
	}

	close(gate)
	select {
	case got := <-second:
		require.NoError(t, got.err)
		require.Len(t, got.report.Results, 1)
		assertMoney(t, "12000", got.report.Results[0].FinalSalary)
	case <-time.After(time.Second):
		t.Fatal("live caller did not receive the report")
	}
	assert.EqualValues(t, 1, dir.calls.Load())
}

func TestServiceReportPropagatesDirectoryError(t *testing.T) {
	dir := &fakeDirectory{err: errors.New("boom")}
	svc, _ := newTestService(t, dir, &fakeLedger{}, nil)
	_, err := svc.Report(context.Background(), Period{2025, 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list employees")
}

func TestServiceReportRejectsInvalidPeriod(t *testing.T) {
	svc, _ := newTestService(t, &fakeDirectory{}, &fakeLedger{}, nil)
	_, err := svc.Report(context.Background(), Period{2025, 13})
	assert.ErrorIs(t, err, ErrInvalidPeriod)
	assert.True(t, IsInputError(err))
}

func TestServiceEmployeeResultByAlias(t *testing.T) {
	dir := &fakeDirectory{employees: []Employee{employee("e1", 15000, "EMP001")}}
	ledger := &fakeLedger{leaves: []LeaveInterval{
		interval(t, "e1", "2025-02-10", "2025-02-10", LeaveStatusApproved, true),
	}}
	svc, _ := newTestService(t, dir, ledger, nil)

	res, err := svc.EmployeeResult(context.Background(), "EMP001", Period{2025, 2})
	require.NoError(t, err)
	assert.Equal(t, "e1", res.EmployeeID)
	assert.Equal(t, 1, res.PaidLeaveDays)
	assertMoney(t, "15000", res.FinalSalary)

	_, err = svc.EmployeeResult(context.Background(), "missing", Period{2025, 2})
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	ident, err := svc.ResolveIdentity(context.Background(), "EMP001")
	require.NoError(t, err)
	assert.Equal(t, "e1", ident.PrimaryID)
	_, err = svc.ResolveIdentity(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestServiceSaveAndListRecords(t *testing.T) {
	dir := &fakeDirectory{employees: []Employee{employee("e1", 12000), employee("e2", 6000)}}
	store := &memoryStore{}
	svc, _ := newTestService(t, dir, &fakeLedger{}, store)

	records, err := svc.SaveRecords(context.Background(), Period{2025, 2}, "admin")
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, err = svc.SaveRecords(context.Background(), Period{2025, 2}, "admin")
	require.NoError(t, err)

	listed, total, err := svc.ListRecords(context.Background(), RecordFilter{Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, listed, 2)

	summary, err := svc.CloseMonth(context.Background(), Period{2025, 3})
	require.NoError(t, err)
	assert.Equal(t, 2, summary["records"])
	assert.Equal(t, "2025-03", summary["period"])
}

func TestServiceRecordsRequireStore(t *testing.T) {
	svc, _ := newTestService(t, &fakeDirectory{}, &fakeLedger{}, nil)
	_, err := svc.SaveRecords(context.Background(), Period{2025, 2}, "admin")
	assert.ErrorIs(t, err, ErrRecordsUnavailable)
	_, _, err = svc.ListRecords(context.Background(), RecordFilter{})
	assert.ErrorIs(t, err, ErrRecordsUnavailable)
}

func TestServiceReportResultsAreNotShared(t *testing.T) {
	dir := &fakeDirectory{employees: []Employee{employee("e1", 12000)}}
	svc, _ := newTestService(t, dir, &fakeLedger{}, nil)
	first, err := svc.Report(context.Background(), Period{2025, 2})
	require.NoError(t, err)
	first.Results[0].EmployeeName = "changed"

	var buf bytes.Buffer
	second, err := svc.Report(context.Background(), Period{2025, 2})
	require.NoError(t, err)
	require.NoError(t, WriteReportCSV(&buf, second))
	assert.NotContains(t, buf.String(), "changed")
}
