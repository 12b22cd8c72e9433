package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gescom/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// profiledRouter captures the pprof labels visible inside the handler
func profiledRouter(cfg ProfilingConfig, route string, labels *map[string]string) *gin.Engine {
	router := gin.New()
	router.Use(ProfilingWithConfig(cfg))
	router.GET(route, func(c *gin.Context) {
		seen := make(map[string]string)
		for _, key := range []string{
			telemetry.ProfilingLabelMethod,
			telemetry.ProfilingLabelRoute,
			telemetry.ProfilingLabelController,
			telemetry.ProfilingLabelOwnerID,
		} {
			if v, ok := pprof.Label(c.Request.Context(), key); ok {
				seen[key] = v
			}
		}
		*labels = seen
		c.Status(http.StatusOK)
	})
	return router
}

func TestDefaultProfilingConfig(t *testing.T) {
	cfg := DefaultProfilingConfig()

	assert.True(t, cfg.Enabled)
	assert.ElementsMatch(t, []string{"/health", "/healthz", "/ready", "/metrics"}, cfg.SkipPaths)
	assert.Contains(t, cfg.SkipPathPrefixes, "/debug")
}

func TestProfilingWithConfig_AttachesLabels(t *testing.T) {
	var labels map[string]string
	router := profiledRouter(DefaultProfilingConfig(), "/api/v1/ledger/funds/:id", &labels)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ledger/funds/42", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.MethodGet, labels[telemetry.ProfilingLabelMethod])
	assert.Equal(t, "/api/v1/ledger/funds/:id", labels[telemetry.ProfilingLabelRoute])
	assert.Equal(t, "funds", labels[telemetry.ProfilingLabelController])
	assert.NotContains(t, labels, telemetry.ProfilingLabelOwnerID)
}

func TestProfilingWithConfig_OwnerLabelFromAuthenticatedRequest(t *testing.T) {
	var labels map[string]string
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(JWTUserIDKey, "b7f1c9ae-0000-4000-8000-00000000000a")
		c.Next()
	})
	router.Use(ProfilingWithConfig(DefaultProfilingConfig()))
	router.GET("/api/v1/ledger/expenses", func(c *gin.Context) {
		seen := make(map[string]string)
		if v, ok := pprof.Label(c.Request.Context(), telemetry.ProfilingLabelOwnerID); ok {
			seen[telemetry.ProfilingLabelOwnerID] = v
		}
		labels = seen
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ledger/expenses", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "b7f1c9ae-0000-4000-8000-00000000000a", labels[telemetry.ProfilingLabelOwnerID])
}

func TestProfilingWithConfig_SkipPaths(t *testing.T) {
	cases := []struct {
		name    string
		route   string
		skipped bool
	}{
		{"health probe", "/health", true},
		{"readiness probe", "/ready", true},
		{"pprof endpoint", "/debug/pprof/heap", true},
		{"ledger route", "/api/v1/ledger/funds", false},
		{"prefix does not match subpath of exact skip", "/health/check", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var labels map[string]string
			router := profiledRouter(DefaultProfilingConfig(), tc.route, &labels)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.route, nil))

			require.Equal(t, http.StatusOK, w.Code)
			if tc.skipped {
				assert.Empty(t, labels)
			} else {
				assert.NotEmpty(t, labels)
			}
		})
	}
}

func TestProfilingWithConfig_Disabled(t *testing.T) {
	var labels map[string]string
	router := profiledRouter(ProfilingConfig{Enabled: false}, "/api/v1/ledger/funds", &labels)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ledger/funds", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, labels)
}

func TestProfilingWithConfig_NonStringOwnerIgnored(t *testing.T) {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(JWTUserIDKey, 12345)
		c.Next()
	})
	router.Use(ProfilingWithConfig(DefaultProfilingConfig()))

	var hasOwner bool
	router.GET("/api/v1/ledger/funds", func(c *gin.Context) {
		_, hasOwner = pprof.Label(c.Request.Context(), telemetry.ProfilingLabelOwnerID)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ledger/funds", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, hasOwner)
}

func TestControllerFromRoute(t *testing.T) {
	cases := []struct {
		route string
		want  string
	}{
		{"/api/v1/ledger/funds", "funds"},
		{"/api/v1/ledger/funds/:id", "funds"},
		{"/api/v1/ledger/expenses/:id/approve", "expenses"},
		{"/api/v1/ledger/funds/:id/transactions", "funds"},
		{"/api/v2/reports", "reports"},
		{"/api/v10/reports", "reports"},
		{"/version/:id", "version"},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, controllerFromRoute(tc.route), "route %q", tc.route)
	}
}
