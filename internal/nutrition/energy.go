package nutrition

import (
	"math"
	"strings"
)

// Energy estimation: Mifflin-St Jeor BMR, activity-scaled TDEE and the
// goal-adjusted calorie target.

// activityMultipliers is the canonical table. The keys are substring
// matched against the profile's free-text activity level, longest match
// wins, so "very active" resolves to 1.9 rather than "active"'s 1.725.
// Historical call sites in the product used 1.8 and 2.0 for the top
// tier; 1.9 is the canonical value here.
var activityMultipliers = []struct {
	key    string
	factor float64
}{
	{"very active", 1.9},
	{"very_active", 1.9},
	{"athlete", 1.9},
	{"extra", 1.9},
	{"sedentary", 1.2},
	{"light", 1.375},
	{"moderate", 1.55},
	{"active", 1.725},
}

// Goal adjustments applied on top of TDEE: a 15% deficit for weight
// loss, a 10% surplus for muscle gain.
const (
	weightLossFactor = 0.85
	muscleGainFactor = 1.10
)

// BMI computes body mass index from metric inputs.
func BMI(weightKg, heightCm float64) float64 {
	if weightKg <= 0 || heightCm <= 0 {
		return 0
	}
	m := heightCm / 100
	return math.Round(weightKg/(m*m)*10) / 10
}

// BMR computes Basal Metabolic Rate via Mifflin-St Jeor. Anything other
// than a male profile uses the female coefficients.
func BMR(p *ResolvedProfile) int {
	base := 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.Age)
	if p.Gender == GenderMale {
		base += 5
	} else {
		base -= 161
	}
	if base < 0 {
		base = 0
	}
	return int(math.Round(base))
}

// ActivityFactor resolves the activity multiplier for a free-text
// activity level. Unrecognized levels fall back to moderate.
func ActivityFactor(level string) float64 {
	l := strings.ToLower(level)
	for _, m := range activityMultipliers {
		if strings.Contains(l, m.key) {
			return m.factor
		}
	}
	return 1.55
}

// TDEE is BMR scaled by the activity multiplier.
func TDEE(p *ResolvedProfile) int {
	return int(math.Round(float64(p.BMR) * ActivityFactor(p.ActivityLevel)))
}

// TargetCalories applies the goal adjustment to TDEE.
func TargetCalories(p *ResolvedProfile) int {
	tdee := float64(p.TDEE)
	switch {
	case goalMatches(p.Goal, "weight loss", "lose weight", "weight-loss", "cut"):
		tdee *= weightLossFactor
	case goalMatches(p.Goal, "muscle", "strength", "bulk", "gain"):
		tdee *= muscleGainFactor
	}
	return int(math.Round(tdee))
}
