package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MealAnalysis is the persisted result of one meal photo analysis. Rows
// from anonymous sessions carry a nil UserID and are still queryable by
// their own ID.
type MealAnalysis struct {
	ID        uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    *uuid.UUID     `gorm:"type:varchar(36);index" json:"user_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	MealName string  `gorm:"size:255;not null" json:"meal_name"`
	ImageURL string  `gorm:"size:512" json:"image_url"`
	Calories float64 `gorm:"type:float" json:"calories"`

	Macronutrients NutrientList `gorm:"type:jsonb;not null;default:'[]'" json:"macronutrients"`
	Micronutrients NutrientList `gorm:"type:jsonb;not null;default:'[]'" json:"micronutrients"`

	Benefits    JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"benefits"`
	Concerns    JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"concerns"`
	Suggestions JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"suggestions"`

	// Insights holds the deterministic summary written at analysis time;
	// PersonalizedInsights is patched in later by the insight job.
	Insights             string `gorm:"type:text" json:"insights"`
	PersonalizedInsights string `gorm:"type:text" json:"personalized_insights,omitempty"`
	Goal                 string `gorm:"size:255" json:"goal,omitempty"`

	InsightJobID     *uuid.UUID `gorm:"type:varchar(36)" json:"insight_job_id,omitempty"`
	InsightRequested bool       `gorm:"not null;default:false" json:"-"`
	InsightCompleted bool       `gorm:"not null;default:false" json:"insight_completed"`
}

// TableName specifies the table name for MealAnalysis
func (MealAnalysis) TableName() string {
	return "meal_analyses"
}

// BeforeCreate assigns the row ID when the caller did not.
func (m *MealAnalysis) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
