package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	events []Event
}

func (m *memoryStore) Insert(_ context.Context, evt Event) error {
	m.events = append(m.events, evt)
	return nil
}

func (m *memoryStore) List(_ context.Context, filter Filter, includeDetails bool) ([]Event, error) {
	var out []Event
	for _, evt := range m.events {
		if filter.Action != "" && evt.Action != filter.Action {
			continue
		}
		if !includeDetails {
			evt.Before, evt.After = nil, nil
		}
		out = append(out, evt)
	}
	return out, nil
}

func (m *memoryStore) Count(ctx context.Context, filter Filter) (int, error) {
	out, err := m.List(ctx, filter, false)
	return len(out), err
}

func TestRecordMarshalsSnapshots(t *testing.T) {
	store := &memoryStore{}
	svc := NewService(store)

	err := svc.Record(context.Background(), Entry{
		ActorID:    "u-admin",
		Action:     ActionLeaveDecide,
		EntityType: "leave_request",
		EntityID:   "l1",
		Before:     map[string]any{"status": "pending"},
		After:      map[string]any{"status": "approved", "isPaid": false},
	})
	require.NoError(t, err)
	require.NoError(t, svc.Record(context.Background(), Entry{Action: ActionPayrollRecords, EntityType: "payroll_period", EntityID: "2024-02"}))

	require.Len(t, store.events, 2)
	assert.JSONEq(t, `{"status":"pending"}`, string(store.events[0].Before))
	assert.JSONEq(t, `{"status":"approved","isPaid":false}`, string(store.events[0].After))
	assert.Nil(t, store.events[1].Before)

	events, total, err := svc.List(context.Background(), Filter{Action: ActionLeaveDecide}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "l1", events[0].EntityID)
	assert.Nil(t, events[0].After)
}

func TestRecordRejectsUnmarshalableSnapshot(t *testing.T) {
	svc := NewService(&memoryStore{})
	err := svc.Record(context.Background(), Entry{Action: "x", After: make(chan int)})
	assert.Error(t, err)
}

func TestBuildWhere(t *testing.T) {
	where, args := buildWhere(Filter{Action: ActionEmployeeUpdate, ActorID: "u1"})
	assert.Equal(t, " WHERE action = $1 AND actor_user_id = $2", where)
	assert.Equal(t, []any{ActionEmployeeUpdate, "u1"}, args)

	where, args = buildWhere(Filter{})
	assert.Empty(t, where)
	assert.Nil(t, args)
}
