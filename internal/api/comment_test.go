package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/backend/internal/model"
	"github.com/platefeed/backend/internal/service"
)

func setupCommentRouter(t *testing.T) (*gin.Engine, *service.AuthService, *service.RecipeService) {
	t.Helper()

	db, authSvc := setupAPIDB(t)
	recipeSvc := service.NewRecipeService(db)
	commentSvc := service.NewCommentService(db, service.NewNotificationService(db, nil))

	handler := NewCommentHandler(commentSvc, authSvc)

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router, authSvc, recipeSvc
}

func createTestRecipe(t *testing.T, recipeSvc *service.RecipeService, userID uuid.UUID) *model.Recipe {
	t.Helper()

	recipe := &model.Recipe{
		Name:         "Test Dish",
		Ingredients:  model.JSONBStringArray{"salt"},
		Instructions: model.JSONBStringArray{"season"},
		Source:       model.SourceUser,
		UserID:       userID,
	}
	created, err := recipeSvc.CreateRecipe(context.Background(), recipe)
	require.NoError(t, err)
	return created
}

func TestCommentFlow(t *testing.T) {
	router, authSvc, recipeSvc := setupCommentRouter(t)
	_, ownerID := registerTestUser(t, authSvc, "owner")
	commenterToken, commenterID := registerTestUser(t, authSvc, "commenter")

	recipe := createTestRecipe(t, recipeSvc, ownerID)
	commentsPath := fmt.Sprintf("/api/v1/recipes/%s/comments", recipe.ID)

	w := doJSON(t, router, http.MethodPost, commentsPath, commenterToken, `{"body":"Looks great"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created model.Comment
	decodeBody(t, w, &created)
	assert.Equal(t, "Looks great", created.Body)
	assert.Equal(t, commenterID, created.UserID)

	w = doJSON(t, router, http.MethodGet, commentsPath, "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Comments []model.Comment `json:"comments"`
	}
	decodeBody(t, w, &list)
	require.Len(t, list.Comments, 1)
	assert.Equal(t, created.ID, list.Comments[0].ID)
}

func TestCommentOnMissingRecipe(t *testing.T) {
	router, authSvc, _ := setupCommentRouter(t)
	token, _ := registerTestUser(t, authSvc, "commenter")

	path := fmt.Sprintf("/api/v1/recipes/%s/comments", uuid.New())
	w := doJSON(t, router, http.MethodPost, path, token, `{"body":"hello"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentRequiresBody(t *testing.T) {
	router, authSvc, recipeSvc := setupCommentRouter(t)
	token, userID := registerTestUser(t, authSvc, "commenter")

	recipe := createTestRecipe(t, recipeSvc, userID)
	path := fmt.Sprintf("/api/v1/recipes/%s/comments", recipe.ID)

	w := doJSON(t, router, http.MethodPost, path, token, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteCommentPermissions(t *testing.T) {
	router, authSvc, recipeSvc := setupCommentRouter(t)
	_, ownerID := registerTestUser(t, authSvc, "owner")
	commenterToken, _ := registerTestUser(t, authSvc, "commenter")
	strangerToken, _ := registerTestUser(t, authSvc, "stranger")

	recipe := createTestRecipe(t, recipeSvc, ownerID)
	path := fmt.Sprintf("/api/v1/recipes/%s/comments", recipe.ID)

	w := doJSON(t, router, http.MethodPost, path, commenterToken, `{"body":"first"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created model.Comment
	decodeBody(t, w, &created)

	deletePath := "/api/v1/comments/" + created.ID.String()

	w = doJSON(t, router, http.MethodDelete, deletePath, strangerToken, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodDelete, deletePath, commenterToken, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodDelete, deletePath, commenterToken, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
