// Package middleware provides HTTP middleware for the ledger service.
package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// Header-sourced attribute values are capped to keep oversized
	// headers out of exported spans
	maxRequestIDLength = 128
	maxOwnerIDLength   = 64
)

var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// TracingConfig holds configuration for the tracing middleware
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// TracingWithConfig returns the otelgin tracing middleware, which opens a
// server span per request named "METHOD route_pattern". Pair it with
// SpanErrorMarker, which annotates the span from inside the request.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// SpanErrorMarker annotates the current request span with the request ID
// and owner, then marks 4xx/5xx responses with error status once the
// handler has run. Must sit after TracingWithConfig in the chain so it
// executes while the span is still recording.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if requestID := spanRequestID(c); requestID != "" {
				span.SetAttributes(attribute.String("request_id", requestID))
			}
			if ownerID := ownerIDFromRequest(c); ownerID != "" {
				span.SetAttributes(attribute.String("owner_id", ownerID))
			}
		}

		c.Next()

		if !span.IsRecording() {
			return
		}

		statusCode := c.Writer.Status()
		if statusCode < http.StatusBadRequest {
			return
		}

		var errorMessage string
		switch {
		case statusCode >= http.StatusInternalServerError:
			errorMessage = "Internal Server Error"
		case statusCode == http.StatusUnauthorized:
			errorMessage = "Unauthorized"
		case statusCode == http.StatusForbidden:
			errorMessage = "Forbidden"
		case statusCode == http.StatusNotFound:
			errorMessage = "Not Found"
		default:
			errorMessage = "Client Error"
		}

		span.SetStatus(codes.Error, errorMessage)
		span.SetAttributes(attribute.Int("http.status_code", statusCode))
	}
}

// spanRequestID reads the request ID set by the RequestID middleware,
// falling back to the raw header with a length cap
func spanRequestID(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok && id != "" {
			return id
		}
	}

	headerID := c.GetHeader("X-Request-ID")
	if len(headerID) > maxRequestIDLength {
		return headerID[:maxRequestIDLength]
	}
	return headerID
}

// ownerIDFromRequest prefers the authenticated owner from the JWT claims; the
// X-Owner-ID header is only trusted when it parses as a UUID, keeping
// arbitrary caller data out of trace attributes
func ownerIDFromRequest(c *gin.Context) string {
	if ownerID, exists := c.Get(JWTUserIDKey); exists {
		if id, ok := ownerID.(string); ok && id != "" {
			return id
		}
	}

	headerOwnerID := c.GetHeader("X-Owner-ID")
	if headerOwnerID != "" && len(headerOwnerID) <= maxOwnerIDLength && uuidRegex.MatchString(headerOwnerID) {
		return headerOwnerID
	}
	return ""
}
