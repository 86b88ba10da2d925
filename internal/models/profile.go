package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platewise/backend/internal/nutrition"
)

// UserProfile holds the biometrics and goal that drive personalized
// nutrition math. Weight and height are stored in the unit the user
// entered them in; the nutrition package owns conversion.
type UserProfile struct {
	ID            uuid.UUID        `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID        uuid.UUID        `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	Age           int              `json:"age"`
	Gender        string           `gorm:"size:20" json:"gender"`
	Weight        float64          `gorm:"type:float" json:"weight"`
	WeightUnit    string           `gorm:"size:10" json:"weight_unit"`
	Height        float64          `gorm:"type:float" json:"height"`
	HeightUnit    string           `gorm:"size:10" json:"height_unit"`
	ActivityLevel string           `gorm:"size:50" json:"activity_level"`
	Goal          string           `gorm:"size:255" json:"goal"`
	DietaryPrefs  JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"dietary_preferences"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	DeletedAt     gorm.DeletedAt   `gorm:"index" json:"-"`
}

// BeforeCreate assigns the row ID when the caller did not.
func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ToPartial converts the stored row into the partial profile shape the
// resolver merges. Zero-valued columns stay zero so the fallback chain
// can fill them.
func (p *UserProfile) ToPartial() *nutrition.Profile {
	if p == nil {
		return nil
	}
	return &nutrition.Profile{
		Age:           p.Age,
		Gender:        p.Gender,
		Weight:        p.Weight,
		WeightUnit:    p.WeightUnit,
		Height:        p.Height,
		HeightUnit:    p.HeightUnit,
		ActivityLevel: p.ActivityLevel,
		Goal:          p.Goal,
	}
}
