package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func athleteProfile() *ResolvedProfile {
	return Complete(Profile{
		Age: 25, Gender: GenderMale,
		Weight: 70, WeightUnit: UnitKg,
		Height: 178, HeightUnit: UnitCm,
		ActivityLevel: "very active",
		Goal:          "muscle gain",
	})
}

func TestProteinTargetForStrengthGoal(t *testing.T) {
	p := athleteProfile()

	target, ok := PersonalizedTarget("Protein", p)
	require.True(t, ok)
	// 1.8 g/kg for a very-active, muscle-building profile.
	assert.InDelta(t, 126, target.Amount, 0.01)
	assert.False(t, target.IsLimit)

	dv := PersonalizedDV(Nutrient{Name: "Protein", Amount: 42, Unit: "g"}, p)
	assert.Equal(t, 33.0, dv)
}

func TestSodiumIsLimitNutrient(t *testing.T) {
	p := athleteProfile()

	target, ok := PersonalizedTarget("Sodium", p)
	require.True(t, ok)
	assert.True(t, target.IsLimit)
	assert.Equal(t, 2300.0, target.Amount)

	// 2760mg against a 2300mg ceiling reads as 120%: 20% over the
	// recommended limit, not "good".
	dv := PersonalizedDV(Nutrient{Name: "Sodium", Amount: 2760, Unit: "mg"}, p)
	assert.Equal(t, 120.0, dv)
}

func TestSodiumLoweredForHeartHealth(t *testing.T) {
	p := Complete(Profile{Age: 55, Gender: GenderFemale, Weight: 70, WeightUnit: UnitKg,
		Height: 165, HeightUnit: UnitCm, ActivityLevel: "light", Goal: "heart health"})

	target, ok := PersonalizedTarget("Sodium", p)
	require.True(t, ok)
	assert.Equal(t, 1500.0, target.Amount)
}

func TestCarbAndFatTargetsScaleWithTDEE(t *testing.T) {
	p := Complete(Profile{Age: 30, Gender: GenderMale, Weight: 80, WeightUnit: UnitKg,
		Height: 180, HeightUnit: UnitCm, ActivityLevel: "moderate"})

	carbs, ok := PersonalizedTarget("Carbohydrates", p)
	require.True(t, ok)
	assert.InDelta(t, float64(p.TDEE)*0.5/4, carbs.Amount, 0.01)

	fat, ok := PersonalizedTarget("Total Fat", p)
	require.True(t, ok)
	assert.InDelta(t, float64(p.TDEE)*0.3/9, fat.Amount, 0.01)
}

func TestKetoGoalFlipsCarbFatSplit(t *testing.T) {
	p := Complete(Profile{Age: 30, Gender: GenderFemale, Weight: 65, WeightUnit: UnitKg,
		Height: 165, HeightUnit: UnitCm, ActivityLevel: "moderate", Goal: "keto"})

	carbs, _ := PersonalizedTarget("Carbohydrates", p)
	fat, _ := PersonalizedTarget("Fat", p)
	assert.InDelta(t, float64(p.TDEE)*0.1/4, carbs.Amount, 0.01)
	assert.InDelta(t, float64(p.TDEE)*0.7/9, fat.Amount, 0.01)
}

func TestFiberTargetHasGenderFloor(t *testing.T) {
	male := Complete(Profile{Age: 30, Gender: GenderMale, Weight: 55, WeightUnit: UnitKg,
		Height: 165, HeightUnit: UnitCm, ActivityLevel: "sedentary"})
	fiber, ok := PersonalizedTarget("Dietary Fiber", male)
	require.True(t, ok)
	assert.GreaterOrEqual(t, fiber.Amount, 38.0)

	female := Complete(Profile{Age: 30, Gender: GenderFemale, Weight: 55, WeightUnit: UnitKg,
		Height: 160, HeightUnit: UnitCm, ActivityLevel: "sedentary"})
	fiber, ok = PersonalizedTarget("Fiber", female)
	require.True(t, ok)
	assert.GreaterOrEqual(t, fiber.Amount, 25.0)
}

func TestMicronutrientAgeGenderBanding(t *testing.T) {
	youngWoman := Complete(Profile{Age: 25, Gender: GenderFemale, Weight: 60, WeightUnit: UnitKg,
		Height: 165, HeightUnit: UnitCm, ActivityLevel: "moderate"})
	iron, ok := PersonalizedTarget("Iron", youngWoman)
	require.True(t, ok)
	assert.Equal(t, 18.0, iron.Amount)

	olderWoman := Complete(Profile{Age: 60, Gender: GenderFemale, Weight: 60, WeightUnit: UnitKg,
		Height: 165, HeightUnit: UnitCm, ActivityLevel: "moderate"})
	iron, ok = PersonalizedTarget("Iron", olderWoman)
	require.True(t, ok)
	assert.Equal(t, 8.0, iron.Amount)

	calcium, ok := PersonalizedTarget("Calcium", olderWoman)
	require.True(t, ok)
	assert.Equal(t, 1200.0, calcium.Amount)
}

func TestUnknownNutrientFallsBackToSuppliedDV(t *testing.T) {
	p := athleteProfile()

	supplied := 42.0
	dv := PersonalizedDV(Nutrient{Name: "Astaxanthin", Amount: 3, Unit: "mg", PercentDailyValue: &supplied}, p)
	assert.Equal(t, 42.0, dv)

	dv = PersonalizedDV(Nutrient{Name: "Astaxanthin", Amount: 3, Unit: "mg"}, p)
	assert.Equal(t, 0.0, dv)
}

func TestUnitReconciliation(t *testing.T) {
	p := athleteProfile()

	// Vitamin C reference for a 25-year-old male is 90mg; 0.09g should
	// read identically to 90mg.
	inMg := PersonalizedDV(Nutrient{Name: "Vitamin C", Amount: 90, Unit: "mg"}, p)
	inG := PersonalizedDV(Nutrient{Name: "Vitamin C", Amount: 0.09, Unit: "g"}, p)
	assert.Equal(t, inMg, inG)
	assert.Equal(t, 100.0, inMg)
}

func TestStampNeverOverwritesSuppliedDV(t *testing.T) {
	p := athleteProfile()
	supplied := 77.0

	stamped := Stamp([]Nutrient{
		{Name: "Protein", Amount: 42, Unit: "g", PercentDailyValue: &supplied},
		{Name: "Protein", Amount: 42, Unit: "g"},
	}, p)

	require.Len(t, stamped, 2)
	assert.Equal(t, 77.0, *stamped[0].PercentDailyValue)
	assert.Equal(t, 33.0, *stamped[1].PercentDailyValue)
}

func TestStampAddsDescriptions(t *testing.T) {
	p := athleteProfile()
	stamped := Stamp([]Nutrient{{Name: "Iron", Amount: 4, Unit: "mg"}}, p)
	require.Len(t, stamped, 1)
	assert.NotEmpty(t, stamped[0].Description)
}

func TestSlugAndTitle(t *testing.T) {
	assert.Equal(t, "vitamin_b12", SlugName("Vitamin B12"))
	assert.Equal(t, "saturated_fat", SlugName("Saturated  Fat"))
	assert.Equal(t, "Vitamin B12", TitleFromSlug("vitamin_b12"))
	assert.Equal(t, "Saturated Fat", TitleFromSlug("saturated_fat"))
	assert.Equal(t, "Vitamin C", TitleFromSlug("vitamin_c"))
}

func TestReferenceTableCoverage(t *testing.T) {
	// Every nutrient the analysis pipeline emits must resolve.
	for _, name := range []string{
		"protein", "carbohydrates", "fat", "fiber", "sugar", "sodium",
		"cholesterol", "saturated fat", "calcium", "iron", "potassium",
		"magnesium", "zinc", "vitamin a", "vitamin c", "vitamin d",
		"vitamin e", "vitamin k", "vitamin b1", "vitamin b2", "vitamin b3",
		"vitamin b6", "vitamin b9", "vitamin b12",
	} {
		_, ok := LookupReference(name)
		assert.True(t, ok, "missing reference for %q", name)
	}
}
