package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/platewise/backend/config"
	"github.com/platewise/backend/internal/api"
	"github.com/platewise/backend/internal/database"
	"github.com/platewise/backend/internal/middleware"
)

// New configures the application routes and middleware stack.
func New(db *database.DB, redisClient *redis.Client, s3Config *config.S3Config, jwtSecret string) (*gin.Engine, error) {
	router := gin.Default()

	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	router.GET("/health", healthHandler(db, redisClient))

	if err := api.SetupAPI(router, db.Gorm, redisClient, s3Config, jwtSecret); err != nil {
		return nil, err
	}

	return router, nil
}

func healthHandler(db *database.DB, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK

		dbStatus := "ok"
		if err := db.HealthCheck(ctx); err != nil {
			dbStatus = "unreachable"
			status = http.StatusServiceUnavailable
		}

		redisStatus := "ok"
		if redisClient == nil {
			redisStatus = "disabled"
		} else if err := redisClient.Ping(ctx).Err(); err != nil {
			redisStatus = "unreachable"
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{"database": dbStatus, "redis": redisStatus})
	}
}
