package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/nutrition"
)

// pngBytes is a minimal payload content sniffing reports as image/png.
var pngBytes = []byte("\x89PNG\r\n\x1a\nfakeimagedata")

func setupMealTestDB(t *testing.T) *gorm.DB {
	// A file-backed database: the insight job writes from its own
	// goroutine, and every pooled connection must see the same tables.
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "meals.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.ProfileHistory{},
		&models.MealAnalysis{},
	))
	return db
}

func analysisFixture() *nutrition.Analysis {
	return &nutrition.Analysis{
		MealName: "Grilled chicken bowl",
		Calories: 640,
		Macronutrients: []nutrition.Nutrient{
			{Name: "Protein", Amount: 42, Unit: "g"},
			{Name: "Carbohydrates", Amount: 55, Unit: "g"},
			{Name: "Fat", Amount: 22, Unit: "g"},
		},
		Micronutrients: []nutrition.Nutrient{
			{Name: "Sodium", Amount: 820, Unit: "mg"},
		},
		Benefits:    []string{"High in lean protein"},
		Concerns:    []string{"Sodium is on the higher side"},
		Suggestions: []string{"Add a side of leafy greens"},
	}
}

type fakeAnalyzer struct {
	analysis *nutrition.Analysis
	err      error
	calls    int
}

func (f *fakeAnalyzer) AnalyzeMealImage(ctx context.Context, imageData []byte, mimeType string, profile *nutrition.ResolvedProfile) (*nutrition.Analysis, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	// Copy so callers can mutate freely.
	a := *f.analysis
	return &a, nil
}

func newMealService(t *testing.T, analyzer VisionAnalyzer) (*MealService, *gorm.DB) {
	db := setupMealTestDB(t)
	profiles := NewProfileService(db, nil)
	images := NewImageService(nil)
	return NewMealService(db, analyzer, images, profiles, nil), db
}

func TestAnalyzeMealPersistsStampedAnalysis(t *testing.T) {
	svc, db := newMealService(t, &fakeAnalyzer{analysis: analysisFixture()})

	record, err := svc.AnalyzeMeal(context.Background(), nil, pngBytes, nil)
	require.NoError(t, err)

	assert.Equal(t, "Grilled chicken bowl", record.MealName)
	assert.Equal(t, 640.0, record.Calories)
	assert.Nil(t, record.UserID)
	assert.NotEqual(t, uuid.Nil, record.ID)

	// Daily values and descriptions are stamped for every nutrient.
	require.Len(t, record.Macronutrients, 3)
	for _, n := range record.Macronutrients {
		assert.NotNil(t, n.PercentDailyValue, n.Name)
	}
	assert.NotEmpty(t, record.Insights)

	var count int64
	db.Model(&models.MealAnalysis{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAnalyzeMealUpstreamFailureWritesNothing(t *testing.T) {
	analyzer := &fakeAnalyzer{err: NewUpstreamError(ReasonTimeout, context.DeadlineExceeded)}
	svc, db := newMealService(t, analyzer)

	_, err := svc.AnalyzeMeal(context.Background(), nil, pngBytes, nil)

	ue, ok := IsUpstreamError(err)
	require.True(t, ok)
	assert.Equal(t, ReasonTimeout, ue.Reason)

	var count int64
	db.Model(&models.MealAnalysis{}).Count(&count)
	assert.Equal(t, int64(0), count, "a failed analysis must not leave partial rows")
}

func TestAnalyzeMealRejectsOversizedImage(t *testing.T) {
	svc, _ := newMealService(t, &fakeAnalyzer{analysis: analysisFixture()})

	big := make([]byte, MaxImageBytes+1)
	copy(big, pngBytes)

	_, err := svc.AnalyzeMeal(context.Background(), nil, big, nil)
	assert.True(t, IsInputError(err))
}

func TestAnalyzeMealRejectsNonImagePayload(t *testing.T) {
	svc, _ := newMealService(t, &fakeAnalyzer{analysis: analysisFixture()})

	_, err := svc.AnalyzeMeal(context.Background(), nil, []byte("this is a text file"), nil)
	assert.True(t, IsInputError(err))
}

func TestAnalyzeMealUsesPassedProfile(t *testing.T) {
	analyzer := &fakeAnalyzer{analysis: analysisFixture()}
	svc, _ := newMealService(t, analyzer)

	partial := &nutrition.Profile{
		Age: 25, Gender: "male", Weight: 70, WeightUnit: "kg",
		Height: 178, HeightUnit: "cm", ActivityLevel: "very active", Goal: "muscle gain",
	}
	record, err := svc.AnalyzeMeal(context.Background(), nil, pngBytes, partial)
	require.NoError(t, err)

	assert.Equal(t, "muscle gain", record.Goal)

	// 1.8 g/kg for a very active muscle-gain profile puts the protein
	// target at 126g, so 42g stamps as 33%.
	var protein *nutrition.Nutrient
	for i := range record.Macronutrients {
		if record.Macronutrients[i].Name == "Protein" {
			protein = &record.Macronutrients[i]
		}
	}
	require.NotNil(t, protein)
	require.NotNil(t, protein.PercentDailyValue)
	assert.Equal(t, 33.0, *protein.PercentDailyValue)
}

func TestGetMealOwnership(t *testing.T) {
	svc, _ := newMealService(t, &fakeAnalyzer{analysis: analysisFixture()})
	owner := uuid.New()
	stranger := uuid.New()

	record, err := svc.AnalyzeMeal(context.Background(), &owner, pngBytes, nil)
	require.NoError(t, err)

	_, err = svc.GetMeal(context.Background(), record.ID, &owner)
	assert.NoError(t, err)

	_, err = svc.GetMeal(context.Background(), record.ID, &stranger)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetMeal(context.Background(), record.ID, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetMealAnonymousRowIsPublic(t *testing.T) {
	svc, _ := newMealService(t, &fakeAnalyzer{analysis: analysisFixture()})
	someone := uuid.New()

	record, err := svc.AnalyzeMeal(context.Background(), nil, pngBytes, nil)
	require.NoError(t, err)

	got, err := svc.GetMeal(context.Background(), record.ID, &someone)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)
}

func TestGetMealUnknownID(t *testing.T) {
	svc, _ := newMealService(t, &fakeAnalyzer{analysis: analysisFixture()})

	_, err := svc.GetMeal(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListMealsNewestFirst(t *testing.T) {
	svc, db := newMealService(t, &fakeAnalyzer{analysis: analysisFixture()})
	userID := uuid.New()

	older := &models.MealAnalysis{UserID: &userID, MealName: "Breakfast", Calories: 300}
	require.NoError(t, db.Create(older).Error)
	db.Model(older).Update("created_at", time.Now().Add(-2*time.Hour))

	newer := &models.MealAnalysis{UserID: &userID, MealName: "Lunch", Calories: 550}
	require.NoError(t, db.Create(newer).Error)

	records, err := svc.ListMeals(context.Background(), userID, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Lunch", records[0].MealName)
	assert.Equal(t, "Breakfast", records[1].MealName)
}

func TestListMealsBackfillsLegacyRows(t *testing.T) {
	svc, db := newMealService(t, &fakeAnalyzer{analysis: analysisFixture()})
	userID := uuid.New()

	// A legacy row that predates stored macro breakdowns.
	legacy := &models.MealAnalysis{UserID: &userID, MealName: "Old entry", Calories: 600}
	require.NoError(t, db.Create(legacy).Error)

	records, err := svc.ListMeals(context.Background(), userID, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	// Synthetic 40/30/30 split by calories.
	require.Len(t, records[0].Macronutrients, 3)
	assert.Equal(t, 45.0, records[0].Macronutrients[0].Amount) // protein
	assert.Equal(t, 60.0, records[0].Macronutrients[1].Amount) // carbs
	assert.Equal(t, 20.0, records[0].Macronutrients[2].Amount) // fat
}

func TestGetDailySummaryAggregates(t *testing.T) {
	svc, db := newMealService(t, &fakeAnalyzer{analysis: analysisFixture()})
	userID := uuid.New()

	for _, cal := range []float64{400, 600} {
		row := &models.MealAnalysis{
			UserID:   &userID,
			MealName: "Meal",
			Calories: cal,
			Macronutrients: models.NutrientList{
				{Name: "Protein", Amount: 30, Unit: "g"},
			},
		}
		require.NoError(t, db.Create(row).Error)
	}

	summary, err := svc.GetDailySummary(context.Background(), userID, time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.MealCount)
	assert.Equal(t, 1000.0, summary.TotalCalories)
	assert.Greater(t, summary.TargetCalories, 0)

	require.NotEmpty(t, summary.Macros)
	assert.Equal(t, "Protein", summary.Macros[0].Name)
	assert.Equal(t, 60.0, summary.Macros[0].Amount)
	require.NotNil(t, summary.Macros[0].PercentDailyValue)
}

func TestGetInsightsPlaceholderBeforeJobCompletes(t *testing.T) {
	svc, _ := newMealService(t, &fakeAnalyzer{analysis: analysisFixture()})

	record, err := svc.AnalyzeMeal(context.Background(), nil, pngBytes, nil)
	require.NoError(t, err)

	status, err := svc.GetInsights(context.Background(), record.ID, nil)
	require.NoError(t, err)

	assert.False(t, status.Completed)
	assert.NotEmpty(t, status.Insights, "deterministic summary is always available")
	assert.Empty(t, status.PersonalizedInsights)
}
