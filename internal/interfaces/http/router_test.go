package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"campusdesk/internal/infrastructure/auth"
	"campusdesk/internal/infrastructure/config"
	"campusdesk/internal/infrastructure/migration"
	"campusdesk/internal/infrastructure/persistence/seeds"
	"campusdesk/internal/shared/authorization"
	sharedConfig "campusdesk/internal/shared/config"
	"campusdesk/internal/shared/logger"
)

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	engine *gin.Engine
	jwt    *auth.JWTService
}

func testConfig() *config.Config {
	return &config.Config{
		Server:   sharedConfig.ServerConfig{Host: "127.0.0.1", Port: 0, Mode: gin.TestMode},
		Database: sharedConfig.DatabaseConfig{Driver: "sqlite", Path: ":memory:"},
		Auth: sharedConfig.AuthConfig{JWT: sharedConfig.JWTConfig{
			Secret: "test-secret",
			Issuer: "campusdesk-test",
		}},
		Notification: sharedConfig.NotificationConfig{BatchSize: 50, MaxAttempts: 3},
		Issue:        sharedConfig.IssueConfig{TransitionPolicy: "permissive", Authorizer: "roles"},
		Maintenance:  sharedConfig.MaintenanceConfig{ReconcileEnabled: false},
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	log := logger.NewNop()
	mgr, err := migration.NewManager("sqlite", log)
	require.NoError(t, err)
	require.NoError(t, mgr.Up(db))
	require.NoError(t, seeds.SeedReferenceData(db))

	cfg := testConfig()
	container, err := NewContainer(db, cfg, log)
	require.NoError(t, err)
	t.Cleanup(container.Shutdown)

	router := NewRouter(container)
	router.SetupRoutes()

	return &testServer{
		engine: router.GetEngine(),
		jwt:    auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Issuer),
	}
}

func (s *testServer) do(t *testing.T, method, path string, userID uint, role authorization.UserRole, body any) (*httptest.ResponseRecorder, apiEnvelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != 0 {
		token, err := s.jwt.Generate(userID, role, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env apiEnvelope
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestRouter_IssueLifecycle(t *testing.T) {
	s := newTestServer(t)

	const (
		reporter uint = 10
		neighbor uint = 11
		admin    uint = 1
	)

	w, env := s.do(t, http.MethodPost, "/issues", reporter, authorization.RoleStudent, map[string]any{
		"title":       "Leaking tap",
		"description": "The tap in the second floor washroom does not close",
		"category_id": 1,
		"location_id": 1,
		"priority":    "medium",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "reported", created.Status)
	issuePath := fmt.Sprintf("/issues/%d", created.ID)

	w, env = s.do(t, http.MethodPost, issuePath+"/upvote", neighbor, authorization.RoleStudent, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var toggle struct {
		State    string `json:"state"`
		NewCount int    `json:"new_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &toggle))
	assert.Equal(t, "upvoted", toggle.State)
	assert.Equal(t, 1, toggle.NewCount)

	w, _ = s.do(t, http.MethodPost, issuePath+"/comments", neighbor, authorization.RoleStudent, map[string]any{
		"content": "Same problem on the third floor",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, _ = s.do(t, http.MethodPatch, issuePath+"/status", reporter, authorization.RoleStudent, map[string]any{
		"status": "resolved",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(t, http.MethodPatch, issuePath+"/status", admin, authorization.RoleAdmin, map[string]any{
		"status":  "in_progress",
		"comment": "Plumber booked",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env = s.do(t, http.MethodGet, issuePath+"/history", reporter, authorization.RoleStudent, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []struct {
		OldStatus string `json:"old_status"`
		NewStatus string `json:"new_status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.Len(t, history, 1)
	assert.Equal(t, "reported", history[0].OldStatus)
	assert.Equal(t, "in_progress", history[0].NewStatus)

	w, env = s.do(t, http.MethodGet, issuePath, reporter, authorization.RoleStudent, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched struct {
		UpvotesCount  int `json:"upvotes_count"`
		CommentsCount int `json:"comments_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &fetched))
	assert.Equal(t, 1, fetched.UpvotesCount)
	assert.Equal(t, 1, fetched.CommentsCount)

	w, env = s.do(t, http.MethodGet, "/notifications", reporter, authorization.RoleStudent, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var inbox struct {
		Total       int64 `json:"total"`
		UnreadCount int64 `json:"unread_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &inbox))
	assert.Positive(t, inbox.Total)
	assert.Equal(t, inbox.Total, inbox.UnreadCount)
}

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodGet, "/issues", 0, "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_ReconcileRequiresManager(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodPost, "/admin/issues/reconcile", 10, authorization.RoleStudent, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := s.do(t, http.MethodPost, "/admin/issues/reconcile", 1, authorization.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result struct {
		Checked int `json:"checked"`
		Drifted int `json:"drifted"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 0, result.Checked)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodGet, "/health", 0, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	_, _ = s.do(t, http.MethodGet, "/issues", 0, "", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
