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

func setupReportRouter(t *testing.T) (*gin.Engine, *service.AuthService, *service.RecipeService) {
	t.Helper()

	db, authSvc := setupAPIDB(t)
	recipeSvc := service.NewRecipeService(db)
	handler := NewReportHandler(service.NewReportService(db, nil), authSvc)

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router, authSvc, recipeSvc
}

// verifyTestUser walks the real verification flow and returns a fresh
// token whose claims carry the verified flag.
func verifyTestUser(t *testing.T, authSvc *service.AuthService, username string, userID uuid.UUID) string {
	t.Helper()

	vtoken, err := authSvc.GenerateVerificationToken(userID)
	require.NoError(t, err)
	_, err = authSvc.VerifyEmail(vtoken)
	require.NoError(t, err)

	token, err := authSvc.Login(username+"@example.com", "password123")
	require.NoError(t, err)
	return token
}

func TestCreateReportRequiresVerifiedEmail(t *testing.T) {
	router, authSvc, recipeSvc := setupReportRouter(t)
	token, userID := registerTestUser(t, authSvc, "reporter")

	recipe, err := recipeSvc.CreateRecipe(context.Background(),
		&model.Recipe{Name: "Spam Recipe", UserID: userID})
	require.NoError(t, err)

	body := fmt.Sprintf(`{"target_type":"recipe","target_id":"%s","reason":"spam"}`, recipe.ID)
	w := doJSON(t, router, http.MethodPost, "/api/v1/reports", token, body)
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
}

func TestCreateAndListReports(t *testing.T) {
	router, authSvc, recipeSvc := setupReportRouter(t)
	_, userID := registerTestUser(t, authSvc, "reporter")
	token := verifyTestUser(t, authSvc, "reporter", userID)

	recipe, err := recipeSvc.CreateRecipe(context.Background(),
		&model.Recipe{Name: "Spam Recipe", UserID: userID})
	require.NoError(t, err)

	body := fmt.Sprintf(`{"target_type":"recipe","target_id":"%s","reason":"spam"}`, recipe.ID)
	w := doJSON(t, router, http.MethodPost, "/api/v1/reports", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var report model.Report
	decodeBody(t, w, &report)
	assert.Equal(t, userID, report.ReporterID)
	assert.Equal(t, model.ReportTargetRecipe, report.TargetType)
	assert.Equal(t, model.ReportStatusOpen, report.Status)

	w = doJSON(t, router, http.MethodGet, "/api/v1/reports", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Reports []model.Report `json:"reports"`
	}
	decodeBody(t, w, &resp)
	require.Len(t, resp.Reports, 1)
	assert.Equal(t, report.ID, resp.Reports[0].ID)
}

func TestCreateReportMissingTarget(t *testing.T) {
	router, authSvc, _ := setupReportRouter(t)
	_, userID := registerTestUser(t, authSvc, "reporter")
	token := verifyTestUser(t, authSvc, "reporter", userID)

	body := fmt.Sprintf(`{"target_type":"recipe","target_id":"%s","reason":"spam"}`, uuid.New())
	w := doJSON(t, router, http.MethodPost, "/api/v1/reports", token, body)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
