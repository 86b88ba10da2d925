package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/platewise/backend/config"
	"github.com/platewise/backend/internal/database"
	"github.com/platewise/backend/internal/router"
	"github.com/platewise/backend/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("[Main] no .env file loaded: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("[Main] failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("[Main] failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := database.RunMigrations(db.Gorm, "migrations"); err != nil {
		log.Fatalf("[Main] failed to run migrations: %v", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("[Main] Redis unavailable, caching and rate limiting disabled: %v", err)
		redisClient = nil
	}

	ctx := context.Background()
	s3Config, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		log.Printf("[Main] S3 unavailable, meal photo storage disabled: %v", err)
		s3Config = nil
	}
	if s3Config != nil {
		if err := s3Config.SetupBucketPolicy(ctx); err != nil {
			log.Printf("[Main] could not apply bucket policy: %v", err)
		}
	}

	engine, err := router.New(db, redisClient, s3Config, cfg.JWTSecret)
	if err != nil {
		log.Fatalf("[Main] failed to set up routes: %v", err)
	}

	srv := server.New(engine)
	if err := srv.Start(cfg.ServerHost + ":" + cfg.ServerPort); err != nil {
		log.Fatalf("[Main] server error: %v", err)
	}
}
