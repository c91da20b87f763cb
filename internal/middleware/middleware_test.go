package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubValidator struct {
	claims *types.TokenClaims
	err    error
}

func (s *stubValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	return s.claims, s.err
}

func TestRecoveryConvertsPanicTo500(t *testing.T) {
	router := gin.New()
	router.Use(Recovery())
	router.GET("/boom", func(c *gin.Context) {
		panic("something broke")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	router := gin.New()
	router.GET("/secure", AuthMiddleware(&stubValidator{}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/secure", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	router := gin.New()
	router.GET("/secure", AuthMiddleware(&stubValidator{}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Basic abc123")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	router := gin.New()
	validator := &stubValidator{err: errors.New("token expired")}
	router.GET("/secure", AuthMiddleware(validator), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer bad-token")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareSetsUserContext(t *testing.T) {
	userID := uuid.New()
	validator := &stubValidator{claims: &types.TokenClaims{UserID: userID, Username: "alice", IsEmailVerified: true}}

	router := gin.New()
	router.GET("/secure", AuthMiddleware(validator), func(c *gin.Context) {
		got, exists := c.Get("user_id")
		require.True(t, exists)
		assert.Equal(t, userID, got)
		assert.Equal(t, "alice", c.GetString("username"))
		assert.True(t, c.GetBool("email_verified"))
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer good-token")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireVerifiedEmail(t *testing.T) {
	userID := uuid.New()
	handler := func(c *gin.Context) { c.Status(http.StatusOK) }

	t.Run("blocks unverified account", func(t *testing.T) {
		validator := &stubValidator{claims: &types.TokenClaims{UserID: userID, Username: "alice"}}
		router := gin.New()
		router.POST("/guarded", AuthMiddleware(validator), RequireVerifiedEmail(), handler)

		req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
		req.Header.Set("Authorization", "Bearer good-token")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t, `{"error":"email verification required"}`, w.Body.String())
	})

	t.Run("passes verified account", func(t *testing.T) {
		validator := &stubValidator{claims: &types.TokenClaims{UserID: userID, Username: "alice", IsEmailVerified: true}}
		router := gin.New()
		router.POST("/guarded", AuthMiddleware(validator), RequireVerifiedEmail(), handler)

		req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
		req.Header.Set("Authorization", "Bearer good-token")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
