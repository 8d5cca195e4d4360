package http

import (
	"bytes"
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"genesiscode/internal/infrastructure/auth"
	"genesiscode/internal/infrastructure/config"
	"genesiscode/internal/infrastructure/persistence/models"
	"genesiscode/internal/infrastructure/seed"
	"genesiscode/internal/shared/constants"
	"genesiscode/internal/shared/db"
	"genesiscode/internal/shared/logger"
)

const (
	testJWTSecret     = "router-test-secret"
	testWebhookSecret = "router-webhook-secret"
)

// IDs follow insertion order of routerSeed on a fresh database.
const (
	seedCategoryID uint = 1
	seedPathID     uint = 1
	seedLevel1     uint = 1
	seedLevel2     uint = 2
	seedAdminID    uint = 1
	seedStudentID  uint = 2
)

const routerSeed = `
categories:
  - name: Backend
    slug: backend
    paths:
      - key: go
        title: Go services
        description: "Learn **Go**"
        levels:
          - title: Basics
          - title: Concurrency
plans:
  - name: Backend
    type: category
    category: backend
    price_cents: 1500
users:
  - email: admin@example.com
    name: Admin
    roles: [admin]
  - email: student@example.com
    name: Student
`

type testServer struct {
	router *Router
	tokens map[uint]string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(models.All()...))

	cfg := &config.Config{}
	cfg.Auth.JWT.Secret = testJWTSecret
	cfg.Auth.JWT.AccessExpMinutes = 5
	cfg.Webhook.PaymentSecret = testWebhookSecret

	log := logger.NewNopLogger()
	router, err := NewRouter(gdb, nil, cfg, log)
	require.NoError(t, err)
	router.SetupRoutes()

	f, err := seed.Parse(strings.NewReader(routerSeed))
	require.NoError(t, err)
	seeder := seed.NewSeeder(db.NewTransactionManager(gdb),
		router.repos.Catalog, router.repos.Plans, router.repos.Users, router.enforcer, log)
	_, err = seeder.Apply(context.Background(), f)
	require.NoError(t, err)

	jwtService := auth.NewJWTService(testJWTSecret, 5)
	tokens := map[uint]string{}
	for _, id := range []uint{seedAdminID, seedStudentID} {
		tok, err := jwtService.Generate(id)
		require.NoError(t, err)
		tokens[id] = tok
	}
	return &testServer{router: router, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path string, userID uint, body any, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
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
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set(constants.HeaderAuthorization, "Bearer "+s.tokens[userID])
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.router.GetEngine().ServeHTTP(w, req)

	var decoded map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func errorMessage(resp map[string]any) string {
	e, _ := resp["error"].(map[string]any)
	msg, _ := e["message"].(string)
	return msg
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, nethttp.MethodGet, "/health", 0, nil, nil)
	assert.Equal(t, nethttp.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])

	s.do(t, nethttp.MethodGet, "/api/paths/1/access?level_id=1", seedStudentID, nil, nil)

	w, _ = s.do(t, nethttp.MethodGet, "/metrics", 0, nil, nil)
	assert.Equal(t, nethttp.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "genesis_access_decisions_total")
	assert.Contains(t, w.Body.String(), `route="/api/paths/:path_id/access"`)
}

func TestRouter_PathOverviewIsPublic(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, nethttp.MethodGet, "/api/paths/1", 0, nil, nil)
	require.Equal(t, nethttp.StatusOK, w.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Go services", data["title"])
	assert.Contains(t, data["description_html"], "<strong>Go</strong>")
}

func TestRouter_AccessRequiresToken(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, nethttp.MethodGet, "/api/paths/1/access", 0, nil, nil)
	assert.Equal(t, nethttp.StatusUnauthorized, w.Code)
}

func TestRouter_PurchaseThenSequentialUnlock(t *testing.T) {
	s := newTestServer(t)
	levelPath := func(levelID uint) string {
		return "/api/paths/1/access?level_id=" + map[uint]string{seedLevel1: "1", seedLevel2: "2"}[levelID]
	}

	// The first level is free, the second is offered for sale.
	w, _ := s.do(t, nethttp.MethodGet, levelPath(seedLevel1), seedStudentID, nil, nil)
	assert.Equal(t, nethttp.StatusOK, w.Code)

	w, body := s.do(t, nethttp.MethodGet, levelPath(seedLevel2), seedStudentID, nil, nil)
	require.Equal(t, nethttp.StatusForbidden, w.Code)
	assert.Equal(t, "not_first_lesson", errorMessage(body))
	plans := body["data"].(map[string]any)["plans"].([]any)
	require.Len(t, plans, 1)
	assert.Equal(t, "Backend", plans[0].(map[string]any)["name"])

	payment := map[string]any{"user_id": seedStudentID, "category_id": seedCategoryID, "payment_reference": "pay_1"}
	w, _ = s.do(t, nethttp.MethodPost, "/api/webhooks/category-payment", 0, payment, nil)
	assert.Equal(t, nethttp.StatusUnauthorized, w.Code, "webhook needs the shared secret")

	w, _ = s.do(t, nethttp.MethodPost, "/api/webhooks/category-payment", 0, payment,
		map[string]string{constants.HeaderWebhookSecret: testWebhookSecret})
	require.Equal(t, nethttp.StatusOK, w.Code)

	w, body = s.do(t, nethttp.MethodGet, levelPath(seedLevel2), seedStudentID, nil, nil)
	require.Equal(t, nethttp.StatusForbidden, w.Code)
	assert.Equal(t, "previous_level_not_completed", errorMessage(body))
	assert.Nil(t, body["data"].(map[string]any)["plans"])

	w, _ = s.do(t, nethttp.MethodPost, "/api/levels/1/complete", seedStudentID, nil, nil)
	require.Equal(t, nethttp.StatusOK, w.Code)

	w, body = s.do(t, nethttp.MethodGet, levelPath(seedLevel2), seedStudentID, nil, nil)
	require.Equal(t, nethttp.StatusOK, w.Code)
	assert.Equal(t, "sequential_unlock", body["data"].(map[string]any)["source"])
}

func TestRouter_CompletingLockedLevelIsRefused(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, nethttp.MethodPost, "/api/levels/2/complete", seedStudentID, nil, nil)
	assert.Equal(t, nethttp.StatusForbidden, w.Code, "no category access yet")

	payment := map[string]any{"user_id": seedStudentID, "category_id": seedCategoryID, "payment_reference": "pay_1"}
	w, _ = s.do(t, nethttp.MethodPost, "/api/webhooks/category-payment", 0, payment,
		map[string]string{constants.HeaderWebhookSecret: testWebhookSecret})
	require.Equal(t, nethttp.StatusOK, w.Code)

	w, _ = s.do(t, nethttp.MethodPost, "/api/levels/2/complete", seedStudentID, nil, nil)
	assert.Equal(t, nethttp.StatusForbidden, w.Code, "level 1 is not completed")

	w, body := s.do(t, nethttp.MethodGet, "/api/paths/1/access?level_id=2", seedStudentID, nil, nil)
	require.Equal(t, nethttp.StatusForbidden, w.Code)
	assert.Equal(t, "previous_level_not_completed", errorMessage(body))
}

func TestRouter_AdminRoutes(t *testing.T) {
	s := newTestServer(t)
	grant := map[string]any{"user_id": seedStudentID, "path_id": seedPathID, "level_id": seedLevel2, "access_type": "unlocked"}

	w, _ := s.do(t, nethttp.MethodPost, "/api/admin/course-access", seedStudentID, grant, nil)
	assert.Equal(t, nethttp.StatusForbidden, w.Code)

	w, body := s.do(t, nethttp.MethodPost, "/api/admin/course-access", seedAdminID, grant, nil)
	require.Equal(t, nethttp.StatusCreated, w.Code)
	grantID := body["data"].(map[string]any)["id"].(float64)

	w, body = s.do(t, nethttp.MethodGet, "/api/paths/1/access?level_id=2", seedStudentID, nil, nil)
	require.Equal(t, nethttp.StatusOK, w.Code)
	assert.Equal(t, "explicit", body["data"].(map[string]any)["source"])

	w, _ = s.do(t, nethttp.MethodDelete, "/api/admin/course-access/"+jsonNumber(grantID), seedAdminID, nil, nil)
	assert.Equal(t, nethttp.StatusNoContent, w.Code)

	w, _ = s.do(t, nethttp.MethodGet, "/api/paths/1/access?level_id=2", seedStudentID, nil, nil)
	assert.Equal(t, nethttp.StatusForbidden, w.Code)

	w, _ = s.do(t, nethttp.MethodPost, "/api/categories/1/unlock", seedStudentID,
		map[string]any{"user_id": seedStudentID, "path_id": seedPathID, "level_id": seedLevel2}, nil)
	assert.Equal(t, nethttp.StatusForbidden, w.Code)
}

func jsonNumber(f float64) string {
	raw, _ := json.Marshal(uint(f))
	return string(raw)
}
