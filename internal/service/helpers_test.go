package service

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/model"
	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/testhelpers"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testhelpers.SetupSQLiteDatabase(t)
}

func seedUser(t *testing.T, db *gorm.DB, username string) uuid.UUID {
	t.Helper()

	user := models.User{
		ID:           uuid.New(),
		Name:         username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	profile := models.UserProfile{
		ID:           uuid.New(),
		UserID:       user.ID,
		Username:     username,
		PrivacyLevel: "public",
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}

	return user.ID
}

func seedRecipe(t *testing.T, db *gorm.DB, userID uuid.UUID, name string) *model.Recipe {
	t.Helper()

	recipe := model.Recipe{
		ID:           uuid.New(),
		Name:         name,
		Description:  "seeded",
		Ingredients:  model.JSONBStringArray{"flour"},
		Instructions: model.JSONBStringArray{"mix"},
		Source:       model.SourceUser,
		UserID:       userID,
		Embedding:    GenerateEmbedding(name),
	}
	if err := db.Create(&recipe).Error; err != nil {
		t.Fatalf("failed to seed recipe: %v", err)
	}
	return &recipe
}
