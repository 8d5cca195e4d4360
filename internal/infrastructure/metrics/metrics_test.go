package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genesiscode/internal/domain/access"
)

func TestMetrics_ObserveDecision(t *testing.T) {
	m := New()

	m.ObserveDecision(access.FullAccess(access.SourceAdminBypass), time.Millisecond)
	m.ObserveDecision(access.Deny(access.ReasonNoAccess), time.Millisecond)
	m.ObserveDecision(access.Deny(access.ReasonNoAccess), time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.decisions.WithLabelValues("allow", string(access.SourceAdminBypass), "")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.decisions.WithLabelValues("deny", "", string(access.ReasonNoAccess))))
}

func TestMetrics_CacheAndExpiry(t *testing.T) {
	m := New()

	m.CacheResult("hit")
	m.CacheResult("miss")
	m.CacheResult("hit")
	m.EntitlementsExpired("grant", 3)
	m.EntitlementsExpired("grant", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.expiredTotal.WithLabelValues("grant")))
}

func TestMetrics_GinMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.GinMiddleware())
	r.GET("/api/paths/:path_id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	for _, p := range []string{"/api/paths/1", "/api/paths/2", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/api/paths/:path_id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "unmatched", "404")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "genesis_http_requests_total"))
}
