package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/testhelpers"
)

const testJWTSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func setupAPIDB(t *testing.T) (*gorm.DB, *service.AuthService) {
	t.Helper()
	db := testhelpers.SetupSQLiteDatabase(t)
	return db, service.NewAuthService(db, testJWTSecret)
}

// registerTestUser creates a user through the auth service and returns a
// valid bearer token plus the user id.
func registerTestUser(t *testing.T, authSvc *service.AuthService, username string) (string, uuid.UUID) {
	t.Helper()

	token, err := authSvc.Register(username, username+"@example.com", "password123", username, nil, nil)
	require.NoError(t, err)

	claims, err := authSvc.ValidateToken(token)
	require.NoError(t, err)

	return token, claims.UserID
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out),
		fmt.Sprintf("body: %s", w.Body.String()))
}

// fakeChatServer returns an httptest server that answers every
// chat-completions call with the given content.
func fakeChatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(ts.Close)
	return ts
}
