package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gescom/backend/internal/infrastructure/auth"
	"github.com/gescom/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "test-issuer",
	})
}

func newTestToken(t *testing.T, jwtService *auth.JWTService) (string, uuid.UUID) {
	t.Helper()
	ownerID := uuid.New()
	token, err := jwtService.IssueToken(ownerID, "testuser")
	require.NoError(t, err)
	return token, ownerID
}

// authRouter mounts the auth middleware in front of a ledger route that
// records the claims it saw.
func authRouter(cfg JWTMiddlewareConfig) (*gin.Engine, *auth.Claims) {
	seen := &auth.Claims{}
	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	router.GET("/api/v1/ledger/funds", func(c *gin.Context) {
		if claims := GetJWTClaims(c); claims != nil {
			*seen = *claims
		}
		c.Status(http.StatusOK)
	})
	return router, seen
}

func doAuthRequest(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ledger/funds", nil)
	if authorization != "" {
		req.Header.Set(AuthHeaderKey, authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// stubBlacklist is a configurable in-memory TokenBlacklist for middleware tests.
type stubBlacklist struct {
	blacklistedJTIs map[string]bool
	invalidatedUser string
	err             error
}

func (s *stubBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.blacklistedJTIs[jti], nil
}

func (s *stubBlacklist) IsUserTokenInvalidated(ctx context.Context, userID string, tokenIssuedAt time.Time) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.invalidatedUser == userID, nil
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	jwtService := newTestJWTService()
	token, ownerID := newTestToken(t, jwtService)

	router, seen := authRouter(JWTMiddlewareConfig{JWTService: jwtService})
	w := doAuthRequest(router, BearerPrefix+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ownerID.String(), seen.UserID)
	assert.Equal(t, "testuser", seen.Username)
}

func TestJWTAuthMiddleware_RejectsMalformedCredentials(t *testing.T) {
	cases := []struct {
		name          string
		authorization string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"empty bearer token", "Bearer "},
		{"garbage token", "Bearer not-a-jwt"},
	}

	jwtService := newTestJWTService()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, _ := authRouter(JWTMiddlewareConfig{JWTService: jwtService})
			w := doAuthRequest(router, tc.authorization)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestJWTAuthMiddleware_ExpiredToken(t *testing.T) {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: -time.Hour, // already expired on issue
		Issuer:                "test-issuer",
	})
	token, _ := newTestToken(t, jwtService)

	router, _ := authRouter(JWTMiddlewareConfig{JWTService: jwtService})
	w := doAuthRequest(router, BearerPrefix+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
		JWTService: newTestJWTService(),
		SkipPaths:  []string{"/api/v1/ping"},
	}))
	router.GET("/api/v1/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/api/v1/ledger/funds", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// Everything else still needs a token
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ledger/funds", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_BlacklistedToken(t *testing.T) {
	jwtService := newTestJWTService()
	token, _ := newTestToken(t, jwtService)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)

	router, _ := authRouter(JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: &stubBlacklist{blacklistedJTIs: map[string]bool{claims.ID: true}},
	})
	w := doAuthRequest(router, BearerPrefix+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
}

func TestJWTAuthMiddleware_UserTokensInvalidated(t *testing.T) {
	jwtService := newTestJWTService()
	token, ownerID := newTestToken(t, jwtService)

	router, _ := authRouter(JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: &stubBlacklist{invalidatedUser: ownerID.String()},
	})
	w := doAuthRequest(router, BearerPrefix+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_BlacklistFailOpen(t *testing.T) {
	jwtService := newTestJWTService()
	token, _ := newTestToken(t, jwtService)

	// Blacklist backend is down; requests must still succeed
	router, _ := authRouter(JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: &stubBlacklist{err: errors.New("redis: connection refused")},
	})
	w := doAuthRequest(router, BearerPrefix+token)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMiddleware_InMemoryBlacklistRevocation(t *testing.T) {
	jwtService := newTestJWTService()
	token, _ := newTestToken(t, jwtService)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)

	blacklist := auth.NewInMemoryTokenBlacklist()
	router, _ := authRouter(JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
	})

	// Accepted before revocation
	assert.Equal(t, http.StatusOK, doAuthRequest(router, BearerPrefix+token).Code)

	// Rejected after
	blacklist.Revoke(claims.ID, time.Hour)
	assert.Equal(t, http.StatusUnauthorized, doAuthRequest(router, BearerPrefix+token).Code)
}

func TestJWTContextAccessors_OutsideAuthenticatedRequest(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, GetJWTClaims(c))
	assert.Empty(t, GetJWTUserID(c))
}
