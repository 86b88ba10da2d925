package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/nutrition"
)

// VisionAnalyzer is the slice of the vision provider the meal pipeline
// needs.
type VisionAnalyzer interface {
	AnalyzeMealImage(ctx context.Context, imageData []byte, mimeType string, profile *nutrition.ResolvedProfile) (*nutrition.Analysis, error)
}

// MealService orchestrates the analysis pipeline: validate the photo,
// resolve the profile, call the vision provider, stamp personalized
// daily values, persist, and dispatch the insight job.
type MealService struct {
	db       *gorm.DB
	vision   VisionAnalyzer
	images   *ImageService
	profiles *ProfileService
	insights *InsightService
}

// Ensure MealService implements IMealService
var _ IMealService = (*MealService)(nil)

// NewMealService creates a new MealService instance
func NewMealService(db *gorm.DB, vision VisionAnalyzer, images *ImageService, profiles *ProfileService, insights *InsightService) *MealService {
	return &MealService{
		db:       db,
		vision:   vision,
		images:   images,
		profiles: profiles,
		insights: insights,
	}
}

// AnalyzeMeal runs the full pipeline for one photo. A vision failure
// aborts before any database write; the caller gets the classified
// error and no partial rows.
func (s *MealService) AnalyzeMeal(ctx context.Context, userID *uuid.UUID, imageData []byte, partial *nutrition.Profile) (*models.MealAnalysis, error) {
	mimeType, err := s.images.ValidateImage(imageData)
	if err != nil {
		return nil, err
	}

	resolver := nutrition.NewResolver(s.profiles.StoreFor(userID), nil)
	profile := resolver.Resolve(ctx, partial)

	analysis, err := s.vision.AnalyzeMealImage(ctx, imageData, mimeType, profile)
	if err != nil {
		return nil, err
	}

	// Stamp fills personalized daily values and descriptions without
	// touching values the provider already supplied.
	analysis.Macronutrients = nutrition.Stamp(analysis.Macronutrients, profile)
	analysis.Micronutrients = nutrition.Stamp(analysis.Micronutrients, profile)

	// Photo storage is best effort: a missing image URL never blocks a
	// successful analysis.
	imageURL, err := s.images.UploadMealImage(ctx, imageData, mimeType)
	if err != nil {
		log.Printf("[MealService] meal photo upload failed, continuing without URL: %v", err)
		imageURL = ""
	}

	record := &models.MealAnalysis{
		UserID:         userID,
		MealName:       analysis.MealName,
		ImageURL:       imageURL,
		Calories:       analysis.Calories,
		Macronutrients: models.NutrientList(analysis.Macronutrients),
		Micronutrients: models.NutrientList(analysis.Micronutrients),
		Benefits:       models.JSONBStringArray(analysis.Benefits),
		Concerns:       models.JSONBStringArray(analysis.Concerns),
		Suggestions:    models.JSONBStringArray(analysis.Suggestions),
		Insights:       nutrition.HealthSummary(analysis, profile),
		Goal:           profile.Goal,
	}

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, &PersistenceError{Op: "meal analysis insert", Err: err}
	}

	if s.insights != nil {
		if jobID := s.insights.Dispatch(ctx, record, profile); jobID != uuid.Nil {
			record.InsightJobID = &jobID
			record.InsightRequested = true
		}
	}

	return record, nil
}

// GetMeal loads one analysis. Rows owned by a user are only visible to
// that user; anonymous rows are visible to whoever holds the ID.
func (s *MealService) GetMeal(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*models.MealAnalysis, error) {
	var record models.MealAnalysis
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Op: "meal analysis load", Err: err}
	}

	if record.UserID != nil && (userID == nil || *record.UserID != *userID) {
		return nil, ErrNotFound
	}

	normalizeStoredAnalysis(&record)
	return &record, nil
}

// ListMeals returns a user's analyses, newest first.
func (s *MealService) ListMeals(ctx context.Context, userID uuid.UUID, limit int) ([]models.MealAnalysis, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var records []models.MealAnalysis
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, &PersistenceError{Op: "meal history load", Err: err}
	}

	for i := range records {
		normalizeStoredAnalysis(&records[i])
	}
	return records, nil
}

// DailySummary aggregates one day's meals against the user's targets.
type DailySummary struct {
	Date           string                `json:"date"`
	MealCount      int                   `json:"meal_count"`
	TotalCalories  float64               `json:"total_calories"`
	TargetCalories int                   `json:"target_calories"`
	Macros         []nutrition.Nutrient  `json:"macros"`
	Meals          []models.MealAnalysis `json:"meals"`
}

// GetDailySummary aggregates the meals logged on one calendar day (UTC)
// and stamps the totals against the user's personalized targets.
func (s *MealService) GetDailySummary(ctx context.Context, userID uuid.UUID, day time.Time) (*DailySummary, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	var records []models.MealAnalysis
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, &PersistenceError{Op: "daily summary load", Err: err}
	}

	resolver := nutrition.NewResolver(s.profiles.StoreFor(&userID), nil)
	profile := resolver.Resolve(ctx, nil)

	summary := &DailySummary{
		Date:           start.Format("2006-01-02"),
		MealCount:      len(records),
		TargetCalories: profile.TargetCalories,
		Meals:          records,
	}

	totals := map[string]*nutrition.Nutrient{}
	order := []string{}
	for i := range records {
		normalizeStoredAnalysis(&records[i])
		summary.TotalCalories += records[i].Calories
		for _, n := range records[i].Macronutrients {
			slug := nutrition.SlugName(n.Name)
			if t, ok := totals[slug]; ok {
				t.Amount += nutrition.ConvertAmount(n.Amount, n.Unit, t.Unit)
			} else {
				copied := n
				copied.PercentDailyValue = nil
				copied.Description = ""
				totals[slug] = &copied
				order = append(order, slug)
			}
		}
	}

	summary.Macros = make([]nutrition.Nutrient, 0, len(order))
	for _, slug := range order {
		n := *totals[slug]
		dv := nutrition.PersonalizedDV(n, profile)
		n.PercentDailyValue = &dv
		summary.Macros = append(summary.Macros, n)
	}

	return summary, nil
}

// InsightStatus is the poll result for an analysis's insight job.
type InsightStatus struct {
	JobID                *uuid.UUID `json:"job_id,omitempty"`
	Requested            bool       `json:"requested"`
	Completed            bool       `json:"completed"`
	Insights             string     `json:"insights"`
	PersonalizedInsights string     `json:"personalized_insights,omitempty"`
}

// GetInsights reports the insight job state for an analysis. The
// deterministic summary is always present; the personalized text
// appears once the job finishes.
func (s *MealService) GetInsights(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*InsightStatus, error) {
	record, err := s.GetMeal(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	return &InsightStatus{
		JobID:                record.InsightJobID,
		Requested:            record.InsightRequested,
		Completed:            record.InsightCompleted,
		Insights:             record.Insights,
		PersonalizedInsights: record.PersonalizedInsights,
	}, nil
}

// normalizeStoredAnalysis backfills rows persisted before descriptions
// and synthetic macros existed, so history responses are uniform.
func normalizeStoredAnalysis(record *models.MealAnalysis) {
	a := nutrition.Renormalize(&nutrition.Analysis{
		MealName:       record.MealName,
		Calories:       record.Calories,
		Macronutrients: record.Macronutrients,
		Micronutrients: record.Micronutrients,
	})
	record.Macronutrients = models.NutrientList(a.Macronutrients)
	record.Micronutrients = models.NutrientList(a.Micronutrients)
	if record.Benefits == nil {
		record.Benefits = models.JSONBStringArray{}
	}
	if record.Concerns == nil {
		record.Concerns = models.JSONBStringArray{}
	}
	if record.Suggestions == nil {
		record.Suggestions = models.JSONBStringArray{}
	}
}
