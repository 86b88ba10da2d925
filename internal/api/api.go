package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/platewise/backend/config"
	"github.com/platewise/backend/internal/middleware"
	"github.com/platewise/backend/internal/service"
)

// SetupAPI wires the services and handlers onto the /api/v1 group.
func SetupAPI(router *gin.Engine, db *gorm.DB, redisClient *redis.Client, s3Config *config.S3Config, jwtSecret string) error {
	visionService, err := service.NewVisionService()
	if err != nil {
		return fmt.Errorf("failed to initialize vision service: %w", err)
	}

	authService := service.NewAuthService(db, jwtSecret)
	profileService := service.NewProfileService(db, redisClient)
	imageService := service.NewImageService(s3Config)
	insightService := service.NewInsightService(db, redisClient, visionService)
	mealService := service.NewMealService(db, visionService, imageService, profileService, insightService)

	rateLimiter := middleware.NewAnalysisRateLimiter(redisClient)

	authHandler := NewAuthHandler(authService)
	mealHandler := NewMealHandler(mealService, rateLimiter, authService)
	profileHandler := NewProfileHandler(profileService, authService)
	dashboardHandler := NewDashboardHandler(mealService, authService)
	nutrientHandler := NewNutrientHandler()

	v1 := router.Group("/api/v1")
	{
		authHandler.RegisterRoutes(v1)
		mealHandler.RegisterRoutes(v1)
		profileHandler.RegisterRoutes(v1)
		dashboardHandler.RegisterRoutes(v1)
		nutrientHandler.RegisterRoutes(v1)
	}
	return nil
}
