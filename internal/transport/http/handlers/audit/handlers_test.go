package audithandler

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/transport/http/middleware"
)

type fakeService struct {
	events  []audit.Event
	filter  audit.Filter
	details bool
	err     error
}

func (f *fakeService) List(_ context.Context, filter audit.Filter, includeDetails bool) ([]audit.Event, int, error) {
	f.filter, f.details = filter, includeDetails
	return f.events, len(f.events), f.err
}

func serve(t *testing.T, svc Service, user auth.UserContext, path string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), user)))
		})
	})
	NewHandler(svc, auth.StaticPermissions{}).RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

var (
	admin = auth.UserContext{UserID: "u-admin", Role: auth.RoleAdmin}
	ann   = auth.UserContext{UserID: "u-ann", Role: auth.RoleEmployee, EmployeeID: "emp-1"}
)

func sampleEvents() []audit.Event {
	return []audit.Event{{
		ID:         "ev1",
		ActorID:    "u-admin",
		Action:     audit.ActionLeaveDecide,
		EntityType: "leave_request",
		EntityID:   "l1",
		IP:         "10.0.0.1",
		CreatedAt:  time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC),
	}}
}

func TestListEvents(t *testing.T) {
	svc := &fakeService{events: sampleEvents()}

	rec := serve(t, svc, ann, "/audit/events")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(t, svc, admin, "/audit/events?action=leave.decide&actorUserId=u-admin&includeDetails=true&limit=10")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, audit.Filter{Action: audit.ActionLeaveDecide, ActorID: "u-admin", Limit: 10}, svc.filter)
	assert.True(t, svc.details)

	var env map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	items := env["data"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "l1", items[0].(map[string]any)["entityId"])
	assert.EqualValues(t, 1, env["meta"].(map[string]any)["total"])
}

func TestListEventsFailure(t *testing.T) {
	rec := serve(t, &fakeService{err: errors.New("db down")}, admin, "/audit/events")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "audit_list_failed")
}

func TestExportEvents(t *testing.T) {
	svc := &fakeService{events: sampleEvents()}

	rec := serve(t, svc, admin, "/audit/events/export?entityType=leave_request")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, "leave_request", svc.filter.EntityType)
	assert.False(t, svc.details)

	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "actor_user_id", rows[0][1])
	assert.Equal(t, []string{"ev1", "u-admin", "leave.decide", "leave_request", "l1", "", "10.0.0.1", "2024-03-01T08:30:00Z"}, rows[1])
}
