package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/platewise/backend/config"
	"github.com/platewise/backend/internal/database"
)

func main() {
	dir := flag.String("dir", "migrations", "directory holding the SQL migration files")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("[Migrate] no .env file loaded: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("[Migrate] failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("[Migrate] failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := database.RunMigrations(db.Gorm, *dir); err != nil {
		log.Fatalf("[Migrate] migration failed: %v", err)
	}

	log.Printf("[Migrate] migrations applied")
}
