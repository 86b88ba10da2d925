package nutrition

import (
	"math"
	"strings"
)

// Nutrient is one line item in a meal's nutritional breakdown.
// PercentDailyValue is nil until computed; a non-nil value supplied by
// the upstream source is never recomputed.
type Nutrient struct {
	Name              string   `json:"name"`
	Amount            float64  `json:"amount"`
	Unit              string   `json:"unit"`
	PercentDailyValue *float64 `json:"percentDailyValue,omitempty"`
	Description       string   `json:"description,omitempty"`
}

// Target is the personalized daily amount for one nutrient.
type Target struct {
	Amount  float64
	Unit    string
	IsLimit bool
}

// Atwater energy densities, kcal per gram.
const (
	kcalPerGramProtein = 4
	kcalPerGramCarb    = 4
	kcalPerGramFat     = 9
)

// PersonalizedTarget derives a profile-specific daily target for a
// nutrient name. It returns false when the nutrient is unrecognized, in
// which case the caller should fall back to any upstream-supplied
// percentage.
func PersonalizedTarget(name string, p *ResolvedProfile) (Target, bool) {
	slug := SlugName(name)
	tdee := float64(p.TDEE)

	switch {
	case strings.Contains(slug, "protein"):
		return Target{Amount: proteinTargetGrams(p), Unit: "g"}, true

	case strings.Contains(slug, "carb"):
		pct := 0.50
		switch {
		case goalMatches(p.Goal, "keto", "low carb", "low-carb"):
			pct = 0.10
		case goalMatches(p.Goal, "weight loss", "lose weight"):
			pct = 0.40
		case ActivityFactor(p.ActivityLevel) >= 1.9 || goalMatches(p.Goal, "endurance", "athlete"):
			pct = 0.60
		}
		return Target{Amount: tdee * pct / kcalPerGramCarb, Unit: "g"}, true

	case slug == "saturated_fat":
		// <10% of calories, a ceiling.
		return Target{Amount: tdee * 0.10 / kcalPerGramFat, Unit: "g", IsLimit: true}, true

	case slug == "trans_fat":
		ref := dvReference["trans_fat"]
		return Target{Amount: ref.Amount, Unit: ref.Unit, IsLimit: true}, true

	case strings.Contains(slug, "fat"):
		pct := 0.30
		switch {
		case goalMatches(p.Goal, "keto"):
			pct = 0.70
		case goalMatches(p.Goal, "heart", "cardiovascular"):
			pct = 0.25
		}
		return Target{Amount: tdee * pct / kcalPerGramFat, Unit: "g"}, true

	case strings.Contains(slug, "fiber"):
		floor := float64(fiberFloorFemale)
		if p.Gender == GenderMale {
			floor = fiberFloorMale
		}
		return Target{Amount: math.Max(14*tdee/1000, floor), Unit: "g"}, true

	case strings.Contains(slug, "sugar"):
		// <10% of calories, a ceiling.
		return Target{Amount: tdee * 0.10 / kcalPerGramCarb, Unit: "g", IsLimit: true}, true

	case slug == "sodium":
		amount := 2300.0
		if goalMatches(p.Goal, "heart", "blood pressure") {
			amount = 1500
		}
		return Target{Amount: amount, Unit: "mg", IsLimit: true}, true

	case slug == "calcium":
		return Target{Amount: bandedLookup(driCalciumMg, p.Age, p.Gender, 1000), Unit: "mg"}, true

	case slug == "iron":
		return Target{Amount: bandedLookup(driIronMg, p.Age, p.Gender, 18), Unit: "mg"}, true

	case slug == "vitamin_c":
		amount := bandedLookup(driVitaminCMg, p.Age, p.Gender, 90)
		return Target{Amount: amount, Unit: "mg"}, true
	}

	if ref, ok := dvReference[slug]; ok {
		return Target{Amount: ref.Amount, Unit: ref.Unit, IsLimit: ref.IsLimit}, true
	}
	return Target{}, false
}

// proteinTargetGrams picks the g/kg factor: the age-banded DRI baseline
// raised by activity and goals. Muscle/strength goals and very-active
// profiles use the 1.8 tier; weight loss uses 1.6 to preserve lean
// mass.
func proteinTargetGrams(p *ResolvedProfile) float64 {
	perKg := bandedLookup(driProteinPerKg, p.Age, p.Gender, 0.8)

	switch {
	case goalMatches(p.Goal, "muscle", "strength"):
		perKg = 1.8
	case ActivityFactor(p.ActivityLevel) >= 1.9:
		perKg = 1.8
	case goalMatches(p.Goal, "weight loss", "lose weight"):
		perKg = 1.6
	case ActivityFactor(p.ActivityLevel) >= 1.725:
		perKg = 1.4
	case ActivityFactor(p.ActivityLevel) >= 1.55:
		perKg = math.Max(perKg, 1.2)
	}

	// 2.2 g/kg is the ceiling past which evidence shows no benefit.
	perKg = math.Min(perKg, 2.2)
	return p.WeightKg * perKg
}

// PersonalizedDV computes the percent-daily-value for a nutrient
// against the profile's personalized target. For unknown nutrients it
// falls back to the upstream-supplied percentage, then 0. It never
// panics and never returns NaN.
func PersonalizedDV(n Nutrient, p *ResolvedProfile) float64 {
	if p == nil {
		return suppliedDV(n)
	}
	target, ok := PersonalizedTarget(n.Name, p)
	if !ok || target.Amount <= 0 {
		return suppliedDV(n)
	}
	amount := ConvertAmount(n.Amount, n.Unit, target.Unit)
	return math.Round(amount / target.Amount * 100)
}

// Stamp fills in PercentDailyValue for every nutrient that does not
// already carry one. Upstream-supplied values are authoritative and are
// left untouched; only genuine gaps are computed.
func Stamp(nutrients []Nutrient, p *ResolvedProfile) []Nutrient {
	out := make([]Nutrient, len(nutrients))
	for i, n := range nutrients {
		if n.Description == "" {
			n.Description = Describe(n.Name)
		}
		if n.PercentDailyValue == nil {
			dv := PersonalizedDV(n, p)
			n.PercentDailyValue = &dv
		}
		out[i] = n
	}
	return out
}

func suppliedDV(n Nutrient) float64 {
	if n.PercentDailyValue != nil {
		return *n.PercentDailyValue
	}
	return 0
}
