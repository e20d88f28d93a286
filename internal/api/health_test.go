package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"policereserves/roster/internal/db"
	"policereserves/roster/internal/db/repositories"
	"policereserves/roster/internal/logging"
	"policereserves/roster/internal/models/entities"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type mockBacklog struct {
	LengthFunc func(ctx context.Context) (int64, error)
}

func (m *mockBacklog) Length(ctx context.Context) (int64, error) {
	return m.LengthFunc(ctx)
}

func setupHealthDB(t *testing.T) *sqlx.DB {
	t.Helper()

	gdb, err := db.InitSQLiteORM(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlxDB, err := db.WrapORM(gdb)
	if err != nil {
		t.Fatalf("Failed to wrap database: %v", err)
	}
	t.Cleanup(func() { sqlxDB.Close() })
	return sqlxDB
}

func runHealthCheck(t *testing.T, deps *Dependencies) (int, entities.HealthCheckResponse) {
	t.Helper()

	rr := httptest.NewRecorder()
	NewHandlers(deps).HealthCheck()(rr, httptest.NewRequest(http.MethodGet, "/healthCheck", nil))

	var resp entities.HealthCheckResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode health response: %v", err)
	}
	return rr.Code, resp
}

func TestHealthCheck_ReportsNotificationBacklog(t *testing.T) {
	logging.SetLogger(zap.NewNop().Sugar())

	deps := &Dependencies{
		Repo: &Repositories{Reports: repositories.NewReportRepository(setupHealthDB(t))},
		Services: &Services{Backlog: &mockBacklog{LengthFunc: func(context.Context) (int64, error) {
			return 12, nil
		}}},
		UpSince: time.Now(),
	}

	code, resp := runHealthCheck(t, deps)
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if got := resp.Services["notification_stream"].Details; got != "12 notifications queued" {
		t.Errorf("Expected backlog details, got %q", got)
	}
}

func TestHealthCheck_HidesFailureDetail(t *testing.T) {
	logging.SetLogger(zap.NewNop().Sugar())

	sqlxDB := setupHealthDB(t)
	sqlxDB.Close()

	deps := &Dependencies{
		Repo: &Repositories{Reports: repositories.NewReportRepository(sqlxDB)},
		Services: &Services{Backlog: &mockBacklog{LengthFunc: func(context.Context) (int64, error) {
			return 0, errors.New("dial tcp 10.0.0.5:6379: connection refused")
		}}},
		UpSince: time.Now(),
	}

	code, resp := runHealthCheck(t, deps)
	if code != http.StatusServiceUnavailable {
		t.Fatalf("Expected 503, got %d", code)
	}

	tests := []struct {
		service string
		want    string
	}{
		{"database", "Database unreachable"},
		{"notification_stream", "Notification stream unreachable"},
	}
	for _, tt := range tests {
		got := resp.Services[tt.service]
		if got.Status != "down" || got.Details != tt.want {
			t.Errorf("Expected %s down with %q, got %+v", tt.service, tt.want, got)
		}
		if strings.Contains(got.Details, "10.0.0.5") || strings.Contains(got.Details, "closed") {
			t.Errorf("Expected no internal detail for %s, got %q", tt.service, got.Details)
		}
	}
}
