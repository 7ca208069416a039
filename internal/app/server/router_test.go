package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/payroll"
	"hrms/internal/platform/config"
	"hrms/internal/platform/metrics"
)

type users struct {
	byID map[string]auth.User
}

func (u users) FindUserByLogin(_ context.Context, login string) (auth.User, error) {
	for _, user := range u.byID {
		if user.Username == login || user.Email == login {
			return user, nil
		}
	}
	return auth.User{}, auth.ErrUserNotFound
}

func (u users) FindUserByID(_ context.Context, id string) (auth.User, error) {
	if user, ok := u.byID[id]; ok {
		return user, nil
	}
	return auth.User{}, auth.ErrUserNotFound
}

func (u users) CreateUser(_ context.Context, user auth.User) (auth.User, error) {
	u.byID[user.ID] = user
	return user, nil
}

func (users) UpdateLastLogin(context.Context, string) error { return nil }

type directory struct{}

func (directory) ListPayrollEmployees(context.Context) ([]payroll.Employee, error) {
	return []payroll.Employee{{Identity: payroll.NewEmployeeIdentity("emp-1", "E001"), Name: "Ann", BaseSalary: decimal.NewFromInt(12000)}}, nil
}

func (d directory) FindPayrollEmployee(ctx context.Context, ref string) (payroll.Employee, error) {
	emps, _ := d.ListPayrollEmployees(ctx)
	for _, emp := range emps {
		if emp.Identity.Matches(ref) {
			return emp, nil
		}
	}
	return payroll.Employee{}, payroll.ErrEmployeeNotFound
}

type ledger struct{}

func (ledger) ApprovedIntervals(context.Context, payroll.Period) ([]payroll.LeaveInterval, error) {
	return nil, nil
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

const secret = "router-test-secret"

func testConfig() config.Config {
	return config.Config{
		JWTSecret:          secret,
		TokenTTL:           time.Hour,
		Environment:        "test",
		MaxBodyBytes:       1 << 20,
		RateLimitPerMinute: 100,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		MetricsEnabled:     true,
	}
}

func newTestRouter(t *testing.T, db Pinger) (http.Handler, *metrics.Collector) {
	t.Helper()
	hash, err := auth.HashPassword("employee-pass")
	require.NoError(t, err)
	store := users{byID: map[string]auth.User{
		"u-ann": {ID: "u-ann", Username: "ann", Role: auth.RoleEmployee, EmployeeID: "emp-1", PasswordHash: hash},
	}}
	calc, err := payroll.NewCalculator(payroll.PolicyFlat30)
	require.NoError(t, err)
	collector := metrics.New()
	router := NewRouter(Deps{
		Config:  testConfig(),
		DB:      db,
		Metrics: collector,
		Auth:    auth.NewService(store, secret, time.Hour),
		Payroll: payroll.NewService(nil, directory{}, ledger{}, calc, collector),
	})
	return router, collector
}

func do(router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndReadiness(t *testing.T) {
	router, _ := newTestRouter(t, pinger{})
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/healthz", "", "").Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/readyz", "", "").Code)

	down, _ := newTestRouter(t, pinger{err: errors.New("down")})
	assert.Equal(t, http.StatusServiceUnavailable, do(down, http.MethodGet, "/readyz", "", "").Code)
}

func TestLoginThenCallProtectedRoutes(t *testing.T) {
	router, collector := newTestRouter(t, pinger{})

	rec := do(router, http.MethodGet, "/api/v1/payroll/policy", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = do(router, http.MethodPost, "/api/v1/auth/login", "", `{"username":"ann","password":"employee-pass"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Data auth.Session `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Data.Token)

	rec = do(router, http.MethodGet, "/api/v1/auth/verify", login.Data.Token, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(router, http.MethodGet, "/api/v1/payroll/policy", login.Data.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"policy":"flat_30"`)

	rec = do(router, http.MethodGet, "/api/v1/payroll/me?year=2024&month=4", login.Data.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"finalSalary":12000`)
	assert.Contains(t, rec.Body.String(), `"perDaySalary":400`)

	rec = do(router, http.MethodGet, "/api/v1/payroll/report", login.Data.Token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(router, http.MethodGet, "/metrics", login.Data.Token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	snap := collector.Snapshot()
	assert.GreaterOrEqual(t, snap["requestsTotal"].(uint64), uint64(6))
	assert.Equal(t, uint64(0), snap["payrollRunsTotal"])
}

func TestWrongPasswordAndUnknownRoute(t *testing.T) {
	router, _ := newTestRouter(t, pinger{})

	rec := do(router, http.MethodPost, "/api/v1/auth/login", "", `{"username":"ann","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(router, http.MethodGet, "/api/v1/nowhere", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"not_found"`)
}

func TestSecurityAndCORSHeaders(t *testing.T) {
	router, _ := newTestRouter(t, pinger{})

	rec := do(router, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/payroll/report", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

type auditTrail struct {
	entries []audit.Entry
}

func (a *auditTrail) Record(_ context.Context, entry audit.Entry) error {
	a.entries = append(a.entries, entry)
	return nil
}

func (a *auditTrail) List(context.Context, audit.Filter, bool) ([]audit.Event, int, error) {
	events := make([]audit.Event, 0, len(a.entries))
	for _, entry := range a.entries {
		events = append(events, audit.Event{ActorID: entry.ActorID, Action: entry.Action, EntityID: entry.EntityID})
	}
	return events, len(events), nil
}

func TestAuditRoutesRequireTrail(t *testing.T) {
	token, _, err := auth.GenerateToken(secret, auth.Claims{UserID: "u-admin", Username: "admin", Role: auth.RoleAdmin}, time.Hour)
	require.NoError(t, err)

	without, _ := newTestRouter(t, pinger{})
	rec := do(without, http.MethodGet, "/api/v1/audit/events", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	trail := &auditTrail{entries: []audit.Entry{{ActorID: "u-admin", Action: audit.ActionPayrollRecords, EntityID: "2024-02"}}}
	with := NewRouter(Deps{Config: testConfig(), DB: pinger{}, Audit: trail})
	rec = do(with, http.MethodGet, "/api/v1/audit/events", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"entityId":"2024-02"`)
}
