package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"policereserves/roster/internal/api"
	"policereserves/roster/internal/config"
	"policereserves/roster/internal/constants"
	"policereserves/roster/internal/db"
	"policereserves/roster/internal/logging"
	"policereserves/roster/internal/metrics"
	"policereserves/roster/internal/models/dtos"
	"policereserves/roster/internal/models/entities"
	gormModels "policereserves/roster/internal/models/gorm"
	"policereserves/roster/internal/routes"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testJWTSecret = "test-jwt-secret"

type testServer struct {
	handler http.Handler
	deps    *api.Dependencies
	gdb     *gorm.DB
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logging.SetLogger(zap.NewNop().Sugar())

	cfg := &config.Config{
		AppEnv:   "test",
		Database: config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"},
		Auth: config.AuthConfig{
			JWTSecret:   testJWTSecret,
			IdentityTTL: time.Minute,
		},
		Storage: config.StorageConfig{
			Root:       t.TempDir(),
			SigningKey: "test-signing-key",
			URLTTL:     time.Hour,
			BaseURL:    "http://roster.test",
		},
		Reminders: config.ReminderConfig{
			LeadTime:       96 * time.Hour,
			Window:         24 * time.Hour,
			PolicyInterval: 120 * time.Hour,
		},
		RateLimit: config.RateLimitConfig{RPS: 0.001, Burst: 2},
		CORS:      []string{"*"},
	}

	gdb, err := db.Open(cfg.Database)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	if err := db.Migrate(context.Background(), gdb); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	sqlxDB, err := db.WrapORM(gdb)
	if err != nil {
		t.Fatalf("Failed to wrap database: %v", err)
	}

	deps, err := api.InitDependencies(cfg, gdb, sqlxDB, nil, metrics.NewMetricsRegistry(prometheus.NewRegistry()))
	if err != nil {
		t.Fatalf("Failed to init dependencies: %v", err)
	}

	return &testServer{handler: routes.RegisterRoutes(deps), deps: deps, gdb: gdb}
}

func (s *testServer) addUser(t *testing.T, subject string, role constants.Role) *gormModels.User {
	t.Helper()
	u := &gormModels.User{
		ExternalID: subject,
		Email:      subject + "@example.org",
		FirstName:  "Test",
		LastName:   subject,
		Role:       role,
		Status:     constants.UserStatusActive,
	}
	if err := s.gdb.Create(u).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return u
}

func bearer(t *testing.T, subject string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"name": "Test " + subject,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return "Bearer " + token
}

func (s *testServer) do(t *testing.T, method, path, subject string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if subject != "" {
		req.Header.Set("Authorization", bearer(t, subject))
	}
	return s.serve(t, req)
}

func (s *testServer) serve(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)

	var env envelope
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
			t.Fatalf("Failed to decode response %q: %v", rr.Body.String(), err)
		}
	}
	return rr, env
}

func decodeData(t *testing.T, env envelope, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dest); err != nil {
		t.Fatalf("Failed to decode data %s: %v", env.Data, err)
	}
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)

	rr, _ := s.do(t, http.MethodGet, "/healthCheck", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var health entities.HealthCheckResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &health); err != nil {
		t.Fatalf("Failed to decode health response: %v", err)
	}
	if health.Environment != "test" {
		t.Errorf("Expected environment test, got %q", health.Environment)
	}
	if health.Services["database"].Status != "ok" {
		t.Errorf("Expected database ok, got %+v", health.Services["database"])
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header to be set")
	}
}

func TestAuth_FirstSignInCreatesGuest(t *testing.T) {
	s := newTestServer(t)

	rr, _ := s.do(t, http.MethodGet, "/api/v1/user/me", "", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without token, got %d", rr.Code)
	}

	rr, env := s.do(t, http.MethodGet, "/api/v1/user/me", "idp|newcomer", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var me gormModels.User
	decodeData(t, env, &me)
	if me.Role != constants.RoleGuest {
		t.Errorf("Expected new user to be a guest, got %s", me.Role)
	}

	rr, _ = s.do(t, http.MethodGet, "/api/v1/events", "idp|newcomer", nil)
	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected guest to be refused member routes, got %d", rr.Code)
	}
}

func TestRoleGuards(t *testing.T) {
	s := newTestServer(t)
	s.addUser(t, "member-1", constants.RoleMember)
	s.addUser(t, "admin-1", constants.RoleAdmin)

	tests := []struct {
		name    string
		subject string
		path    string
		want    int
	}{
		{"member reads events", "member-1", "/api/v1/events", http.StatusOK},
		{"member refused admin", "member-1", "/api/v1/admin/users", http.StatusForbidden},
		{"admin lists users", "admin-1", "/api/v1/admin/users", http.StatusOK},
		{"admin reads member routes", "admin-1", "/api/v1/policies", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, _ := s.do(t, http.MethodGet, tt.path, tt.subject, nil)
			if rr.Code != tt.want {
				t.Errorf("Expected %d, got %d: %s", tt.want, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestEventSignUpFlow(t *testing.T) {
	s := newTestServer(t)
	s.addUser(t, "admin-1", constants.RoleAdmin)
	s.addUser(t, "member-1", constants.RoleMember)

	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	rr, env := s.do(t, http.MethodPost, "/api/v1/admin/events", "admin-1", dtos.SessionReq{
		Name:      "Harbor patrol",
		Location:  "Pier 9",
		Type:      string(constants.EventPatrol),
		StartTime: start,
		EndTime:   start.Add(4 * time.Hour),
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var event gormModels.Event
	decodeData(t, env, &event)

	signup := fmt.Sprintf("/api/v1/events/%d/signup", event.ID)

	rr, _ = s.do(t, http.MethodPost, signup, "member-1", nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected 201 on first sign-up, got %d: %s", rr.Code, rr.Body.String())
	}

	rr, env = s.do(t, http.MethodPost, signup, "member-1", nil)
	if rr.Code != http.StatusConflict {
		t.Fatalf("Expected 409 on repeat sign-up, got %d", rr.Code)
	}
	if env.Message != constants.MsgAlreadySignedUp {
		t.Errorf("Expected %q, got %q", constants.MsgAlreadySignedUp, env.Message)
	}
	if got := testutil.ToFloat64(s.deps.Metrics.DBConflictsTotal.WithLabelValues("/api/v1/events/{id}/signup")); got != 1 {
		t.Errorf("Expected 1 conflict recorded, got %v", got)
	}

	rr, env = s.do(t, http.MethodGet, "/api/v1/user/events", "member-1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	var mine []gormModels.EventAssignment
	decodeData(t, env, &mine)
	if len(mine) != 1 || mine[0].EventID != event.ID {
		t.Errorf("Expected the event in the member's list, got %+v", mine)
	}

	rr, _ = s.do(t, http.MethodDelete, signup, "member-1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200 on leave, got %d", rr.Code)
	}
	rr, _ = s.do(t, http.MethodDelete, signup, "member-1", nil)
	if rr.Code != http.StatusConflict {
		t.Errorf("Expected 409 leaving twice, got %d", rr.Code)
	}
}

func TestBadRequests(t *testing.T) {
	s := newTestServer(t)
	s.addUser(t, "admin-1", constants.RoleAdmin)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"non numeric id", http.MethodGet, "/api/v1/admin/equipment/abc", nil, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/v1/admin/equipment", map[string]string{"nickname": "x"}, http.StatusBadRequest},
		{"missing name", http.MethodPost, "/api/v1/admin/equipment", dtos.EquipmentReq{}, http.StatusBadRequest},
		{"missing equipment", http.MethodGet, "/api/v1/admin/equipment/999", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, env := s.do(t, tt.method, tt.path, "admin-1", tt.body)
			if rr.Code != tt.want {
				t.Errorf("Expected %d, got %d: %s", tt.want, rr.Code, rr.Body.String())
			}
			if env.Status != string(constants.APIStatusError) {
				t.Errorf("Expected error envelope, got %q", env.Status)
			}
		})
	}
}

func TestPolicyAcknowledgementFlow(t *testing.T) {
	s := newTestServer(t)
	s.addUser(t, "admin-1", constants.RoleAdmin)
	s.addUser(t, "member-1", constants.RoleMember)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("number", "2.10")
	_ = mw.WriteField("name", "Radio procedure")
	_ = mw.WriteField("effective_date", "2024-05-01")
	fw, err := mw.CreateFormFile("document", "radio.pdf")
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	_, _ = fw.Write([]byte("%PDF-1.4 radio"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/policies", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", bearer(t, "admin-1"))
	rr, env := s.serve(t, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var policy gormModels.Policy
	decodeData(t, env, &policy)

	ack := fmt.Sprintf("/api/v1/policies/%d/acknowledge", policy.ID)

	rr, _ = s.do(t, http.MethodPost, ack, "member-1", nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("Expected 403 before viewing, got %d", rr.Code)
	}

	rr, env = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/policies/%d/url", policy.ID), "member-1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var link dtos.SignedURLResponse
	decodeData(t, env, &link)
	if !strings.HasPrefix(link.URL, "http://roster.test/files/") {
		t.Fatalf("Unexpected link %q", link.URL)
	}

	download := httptest.NewRequest(http.MethodGet, strings.TrimPrefix(link.URL, "http://roster.test"), nil)
	rr = httptest.NewRecorder()
	s.handler.ServeHTTP(rr, download)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200 download, got %d", rr.Code)
	}
	if rr.Body.String() != "%PDF-1.4 radio" {
		t.Errorf("Unexpected file body %q", rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Expected application/pdf, got %q", ct)
	}

	rr, _ = s.do(t, http.MethodPost, ack, "member-1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200 after viewing, got %d: %s", rr.Code, rr.Body.String())
	}

	rr, env = s.do(t, http.MethodGet, "/api/v1/user/policies", "member-1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	var mine []dtos.UserPolicy
	decodeData(t, env, &mine)
	if len(mine) != 1 || mine[0].CompletedAt == nil {
		t.Errorf("Expected the policy to show as completed, got %+v", mine)
	}
}

func TestDownloadFile_RejectsBadToken(t *testing.T) {
	s := newTestServer(t)

	rr, _ := s.do(t, http.MethodGet, "/files/not-a-token", "", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rr.Code)
	}
}

func TestSubmitApplication_RateLimited(t *testing.T) {
	s := newTestServer(t)

	valid := map[string]string{
		"first_name":  "Dana",
		"last_name":   "Reyes",
		"email":       "dana@example.org",
		"phone":       "555-0100",
		"street":      "1 Main St",
		"city":        "Springfield",
		"state":       "IL",
		"postal_code": "62701",
	}

	rr, _ := s.do(t, http.MethodPost, "/api/v1/applications", "idp|applicant", valid)
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	rr, _ = s.do(t, http.MethodPost, "/api/v1/applications", "idp|applicant", map[string]string{"first_name": "Dana"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for an incomplete application, got %d", rr.Code)
	}

	rr, env := s.do(t, http.MethodPost, "/api/v1/applications", "idp|applicant", valid)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429 once the burst is spent, got %d", rr.Code)
	}
	if env.Message != constants.MsgTooManyRequests {
		t.Errorf("Expected %q, got %q", constants.MsgTooManyRequests, env.Message)
	}
}

func TestCronReminders_RequiresAPIKey(t *testing.T) {
	s := newTestServer(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("cron-secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash secret: %v", err)
	}
	if err := s.deps.Repo.Keys.Insert(context.Background(), &entities.ApiKey{
		ID:          "cronkey",
		SecretHash:  string(hash),
		Description: "test cron",
		Status:      true,
	}); err != nil {
		t.Fatalf("Failed to insert key: %v", err)
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no key", "", http.StatusUnauthorized},
		{"wrong secret", "cronkey.nope", http.StatusUnauthorized},
		{"valid key", "cronkey.cron-secret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/cron/reminders", nil)
			if tt.header != "" {
				req.Header.Set("X-API-Key", tt.header)
			}
			rr, env := s.serve(t, req)
			if rr.Code != tt.want {
				t.Fatalf("Expected %d, got %d: %s", tt.want, rr.Code, rr.Body.String())
			}
			if tt.want != http.StatusOK {
				return
			}

			var run dtos.ReminderRunResponse
			decodeData(t, env, &run)
			if len(run.Results) != 4 {
				t.Errorf("Expected 4 sweep results, got %d", len(run.Results))
			}
			for _, res := range run.Results {
				if res.Error != "" {
					t.Errorf("Expected sweep %s to succeed, got %s", res.Kind, res.Error)
				}
			}
		})
	}
}
