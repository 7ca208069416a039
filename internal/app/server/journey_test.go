package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrms/internal/app/server"
	"hrms/internal/platform/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   any             `json:"error"`
}

func call(t *testing.T, client *http.Client, method, url, token string, body any) (int, envelope) {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req, err := http.NewRequest(method, url, &payload)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func field[T any](t *testing.T, env envelope, name string) T {
	t.Helper()
	var data map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &data))
	var out T
	require.NoError(t, json.Unmarshal(data[name], &out), name)
	return out
}

func login(t *testing.T, client *http.Client, base, username, password string) string {
	t.Helper()
	status, env := call(t, client, http.MethodPost, base+"/api/v1/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, status, env.Error)
	return field[string](t, env, "token")
}

// TestUnpaidLeaveJourney runs against a real database: an admin onboards an
// employee, approves two unpaid days and sees them deducted and audited.
func TestUnpaidLeaveJourney(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := config.Config{
		DatabaseURL:         dbURL,
		JWTSecret:           "journey-secret",
		TokenTTL:            time.Hour,
		Environment:         "test",
		MigrationsDir:       "../../../migrations",
		RunMigrations:       true,
		RunSeed:             true,
		SeedAdminUsername:   "admin",
		SeedAdminEmail:      "admin@test.local",
		SeedAdminPassword:   "ChangeMe123!",
		MaxBodyBytes:        1 << 20,
		RateLimitPerMinute:  1000,
		PayrollPolicy:       config.PayrollPolicySixDayWeek,
		AttendanceLateAfter: "09:30",
	}
	app, err := server.New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()
	client := ts.Client()
	admin := login(t, client, ts.URL, cfg.SeedAdminUsername, cfg.SeedAdminPassword)

	suffix := time.Now().UnixNano()
	username := fmt.Sprintf("journey%d", suffix)
	status, env := call(t, client, http.MethodPost, ts.URL+"/api/v1/employees", admin, map[string]any{
		"employeeId":  fmt.Sprintf("J%d", suffix),
		"name":        "Journey Employee",
		"email":       username + "@example.com",
		"username":    username,
		"password":    "journey-pass",
		"department":  "Ops",
		"position":    "Analyst",
		"salary":      24000,
		"joiningDate": "2022-01-03",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)

	employee := login(t, client, ts.URL, username, "journey-pass")
	status, env = call(t, client, http.MethodPost, ts.URL+"/api/v1/leave-requests", employee, map[string]string{
		"leaveType": "Casual",
		"startDate": "2023-02-06",
		"endDate":   "2023-02-07",
		"reason":    "family",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	leaveID := field[string](t, env, "id")

	status, env = call(t, client, http.MethodPut, ts.URL+"/api/v1/leave-requests/"+leaveID, admin, map[string]any{"status": "approved", "isPaid": false})
	require.Equal(t, http.StatusOK, status, env.Error)

	status, env = call(t, client, http.MethodGet, ts.URL+"/api/v1/payroll/me?year=2023&month=2", employee, nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Equal(t, 24, field[int](t, env, "totalWorkingDays"))
	assert.Equal(t, 2, field[int](t, env, "unpaidLeaveDays"))
	assert.Equal(t, 22000.0, field[float64](t, env, "finalSalary"))

	status, env = call(t, client, http.MethodGet, ts.URL+"/api/v1/audit/events?action=leave.decide&limit=50", admin, nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	var events []struct {
		EntityID string `json:"entityId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &events))
	found := false
	for _, evt := range events {
		found = found || evt.EntityID == leaveID
	}
	assert.True(t, found, "leave decision not audited")
}
