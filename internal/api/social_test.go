package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/backend/internal/service"
)

func setupSocialRouter(t *testing.T) (*gin.Engine, *service.AuthService) {
	t.Helper()

	db, authSvc := setupAPIDB(t)
	profileSvc := service.NewProfileService(db)
	socialSvc := service.NewSocialService(db, service.NewNotificationService(db, nil))

	handler := NewSocialHandler(socialSvc, profileSvc, authSvc)

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router, authSvc
}

func TestFollowByUsername(t *testing.T) {
	router, authSvc := setupSocialRouter(t)
	aliceToken, _ := registerTestUser(t, authSvc, "alice")
	registerTestUser(t, authSvc, "bob")

	w := doJSON(t, router, http.MethodPost, "/api/v1/users/bob/follow", aliceToken, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/api/v1/users/bob/follow", aliceToken, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/users/bob/followers", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Followers []struct {
			Username string `json:"username"`
		} `json:"followers"`
	}
	decodeBody(t, w, &resp)
	require.Len(t, resp.Followers, 1)
	assert.Equal(t, "alice", resp.Followers[0].Username)

	w = doJSON(t, router, http.MethodGet, "/api/v1/users/alice/following", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var following struct {
		Following []struct {
			Username string `json:"username"`
		} `json:"following"`
	}
	decodeBody(t, w, &following)
	require.Len(t, following.Following, 1)
	assert.Equal(t, "bob", following.Following[0].Username)
}

func TestFollowSelfRejected(t *testing.T) {
	router, authSvc := setupSocialRouter(t)
	token, _ := registerTestUser(t, authSvc, "alice")

	w := doJSON(t, router, http.MethodPost, "/api/v1/users/alice/follow", token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFollowUnknownUser(t *testing.T) {
	router, authSvc := setupSocialRouter(t)
	token, _ := registerTestUser(t, authSvc, "alice")

	w := doJSON(t, router, http.MethodPost, "/api/v1/users/ghost/follow", token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnfollow(t *testing.T) {
	router, authSvc := setupSocialRouter(t)
	aliceToken, _ := registerTestUser(t, authSvc, "alice")
	registerTestUser(t, authSvc, "bob")

	w := doJSON(t, router, http.MethodDelete, "/api/v1/users/bob/follow", aliceToken, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/users/bob/follow", aliceToken, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/users/bob/follow", aliceToken, "")
	assert.Equal(t, http.StatusOK, w.Code)
}
