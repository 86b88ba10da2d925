package main

import (
	"log"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/platewise/backend/config"
	"github.com/platewise/backend/internal/database"
	"github.com/platewise/backend/internal/models"
)

type seedUser struct {
	name    string
	email   string
	profile *models.UserProfile
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("[Seed] no .env file loaded: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("[Seed] failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("[Seed] failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := database.AutoMigrate(db.Gorm); err != nil {
		log.Fatalf("[Seed] failed to migrate: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("testpassword123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("[Seed] failed to hash password: %v", err)
	}

	users := []seedUser{
		{
			name:  "Maya Chen",
			email: "maya.chen@example.com",
			profile: &models.UserProfile{
				Age: 28, Gender: "female",
				Weight: 135, WeightUnit: "lb",
				Height: 64, HeightUnit: "in",
				ActivityLevel: "very active",
				Goal:          "muscle gain",
			},
		},
		{
			name:  "Daniel Okafor",
			email: "daniel.okafor@example.com",
			profile: &models.UserProfile{
				Age: 42, Gender: "male",
				Weight: 95, WeightUnit: "kg",
				Height: 183, HeightUnit: "cm",
				ActivityLevel: "sedentary",
				Goal:          "weight loss",
			},
		},
		{
			// Incomplete profile: resolver fills the gaps from defaults.
			name:  "Sofia Reyes",
			email: "sofia.reyes@example.com",
			profile: &models.UserProfile{
				Age: 35, Gender: "female",
			},
		},
		{
			// No profile at all.
			name:  "Tom Alvarez",
			email: "tom.alvarez@example.com",
		},
	}

	for _, u := range users {
		user := models.User{
			Name:         u.name,
			Email:        u.email,
			PasswordHash: string(hashed),
		}

		result := db.Gorm.Where("email = ?", u.email).FirstOrCreate(&user)
		if result.Error != nil {
			log.Fatalf("[Seed] failed to create user %s: %v", u.email, result.Error)
		}
		if result.RowsAffected == 0 {
			log.Printf("[Seed] user %s already exists, skipping", u.email)
			continue
		}

		if u.profile != nil {
			u.profile.UserID = user.ID
			if err := db.Gorm.Create(u.profile).Error; err != nil {
				log.Fatalf("[Seed] failed to create profile for %s: %v", u.email, err)
			}
		}

		log.Printf("[Seed] created user %s", u.email)
	}

	log.Printf("[Seed] done; password for all test users is %q", "testpassword123")
}
