package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/nutrition"
)

// IMealService defines the interface for meal analysis operations
type IMealService interface {
	AnalyzeMeal(ctx context.Context, userID *uuid.UUID, imageData []byte, partial *nutrition.Profile) (*models.MealAnalysis, error)
	GetMeal(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*models.MealAnalysis, error)
	ListMeals(ctx context.Context, userID uuid.UUID, limit int) ([]models.MealAnalysis, error)
	GetDailySummary(ctx context.Context, userID uuid.UUID, day time.Time) (*DailySummary, error)
	GetInsights(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*InsightStatus, error)
}

// IProfileService defines the interface for biometric profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *nutrition.Profile) (*models.UserProfile, error)
	GetProfileHistory(ctx context.Context, userID uuid.UUID) ([]models.ProfileHistory, error)
}

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, email, password, name string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	ValidateToken(token string) (uuid.UUID, error)
}
