// Package middleware provides HTTP middleware for the ledger service.
package middleware

import (
	"context"
	"strings"

	"github.com/gescom/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// ProfilingConfig controls which requests get Pyroscope labels
type ProfilingConfig struct {
	Enabled bool
	// SkipPaths and SkipPathPrefixes exclude probe and debug endpoints
	// whose profiles carry no signal
	SkipPaths        []string
	SkipPathPrefixes []string
}

// DefaultProfilingConfig labels everything except health probes and
// debug endpoints
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:          true,
		SkipPaths:        []string{"/health", "/healthz", "/ready", "/metrics"},
		SkipPathPrefixes: []string{"/debug"},
	}
}

// ProfilingWithConfig tags each request's profile samples with method,
// route pattern, controller and owner so flame graphs can be sliced per
// endpoint in the Pyroscope UI. Labels use the route pattern, never the
// raw path, to keep cardinality bounded.
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		if skipProfiling(cfg, c.Request.URL.Path) {
			c.Next()
			return
		}

		telemetry.WithProfilingLabels(c.Request.Context(), profilingLabels(c), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func skipProfiling(cfg ProfilingConfig, path string) bool {
	for _, p := range cfg.SkipPaths {
		if path == p {
			return true
		}
	}
	for _, prefix := range cfg.SkipPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func profilingLabels(c *gin.Context) map[string]string {
	labels := make(map[string]string, 4)

	if method := c.Request.Method; method != "" {
		labels[telemetry.ProfilingLabelMethod] = method
	}

	route := c.FullPath()
	if route != "" {
		labels[telemetry.ProfilingLabelRoute] = route
	}
	if controller := controllerFromRoute(route); controller != "" {
		labels[telemetry.ProfilingLabelController] = controller
	}

	if ownerID := ownerIDFromRequest(c); ownerID != "" {
		labels[telemetry.ProfilingLabelOwnerID] = ownerID
	}

	return labels
}

// controllerFromRoute names the resource a route serves: the static
// segment before the first path parameter, or the last static segment
// when the route has none. "/api/v1/ledger/expenses/:id/approve" maps
// to "expenses", "/api/v1/ledger/funds" to "funds".
func controllerFromRoute(route string) string {
	last := ""
	for _, part := range strings.Split(route, "/") {
		switch {
		case part == "" || part == "api" || isVersionSegment(part):
			continue
		case strings.HasPrefix(part, ":") || strings.HasPrefix(part, "*"):
			return last
		default:
			last = part
		}
	}
	return last
}

// isVersionSegment reports whether a path segment is an API version
// such as v1 or v2
func isVersionSegment(segment string) bool {
	if len(segment) < 2 || (segment[0] != 'v' && segment[0] != 'V') {
		return false
	}
	for i := 1; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return false
		}
	}
	return true
}
