package testhelpers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/platewise/backend/internal/models"
)

// CreateTestUser creates a test user in the database
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Name:         "Test User",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hashed_password",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestProfile creates a complete biometric profile for a user
func CreateTestProfile(t *testing.T, db *gorm.DB, userID uuid.UUID) *models.UserProfile {
	t.Helper()
	profile := &models.UserProfile{
		UserID:        userID,
		Age:           30,
		Gender:        "male",
		Weight:        80,
		WeightUnit:    "kg",
		Height:        180,
		HeightUnit:    "cm",
		ActivityLevel: "moderate",
		Goal:          "muscle gain",
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

// CreateTestMeal creates a stored meal analysis for a user
func CreateTestMeal(t *testing.T, db *gorm.DB, userID *uuid.UUID) *models.MealAnalysis {
	t.Helper()
	meal := &models.MealAnalysis{
		UserID:   userID,
		MealName: "Grilled Chicken Salad",
		Calories: 420,
		Macronutrients: models.NutrientList{
			{Name: "Protein", Amount: 35, Unit: "g"},
			{Name: "Carbohydrates", Amount: 20, Unit: "g"},
			{Name: "Fat", Amount: 22, Unit: "g"},
		},
		Benefits: models.JSONBStringArray{"high protein"},
	}
	require.NoError(t, db.Create(meal).Error)
	return meal
}
