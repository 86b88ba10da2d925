package api

import (
	"time"

	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/nutrition"
)

// MealResponse represents the response structure for meal-analysis endpoints
type MealResponse struct {
	ID                   string               `json:"id"`
	MealName             string               `json:"meal_name"`
	ImageURL             string               `json:"image_url,omitempty"`
	Calories             float64              `json:"calories"`
	Macronutrients       []nutrition.Nutrient `json:"macronutrients"`
	Micronutrients       []nutrition.Nutrient `json:"micronutrients"`
	Benefits             []string             `json:"benefits"`
	Concerns             []string             `json:"concerns"`
	Suggestions          []string             `json:"suggestions"`
	Insights             string               `json:"insights,omitempty"`
	PersonalizedInsights string               `json:"personalized_insights,omitempty"`
	InsightsPending      bool                 `json:"insights_pending"`
	CreatedAt            time.Time            `json:"created_at"`
}

func toMealResponse(m *models.MealAnalysis) MealResponse {
	return MealResponse{
		ID:                   m.ID.String(),
		MealName:             m.MealName,
		ImageURL:             m.ImageURL,
		Calories:             m.Calories,
		Macronutrients:       m.Macronutrients,
		Micronutrients:       m.Micronutrients,
		Benefits:             m.Benefits,
		Concerns:             m.Concerns,
		Suggestions:          m.Suggestions,
		Insights:             m.Insights,
		PersonalizedInsights: m.PersonalizedInsights,
		InsightsPending:      m.InsightRequested && !m.InsightCompleted,
		CreatedAt:            m.CreatedAt,
	}
}
