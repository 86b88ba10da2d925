package nutrition

import (
	"fmt"
	"math"
	"strings"
)

// HealthSummary builds a deterministic narrative for a meal against a
// resolved profile. It is the placeholder shown while the asynchronous
// insight job is still running, and the permanent fallback when that
// job fails.
func HealthSummary(a *Analysis, p *ResolvedProfile) string {
	if a == nil || (a.Calories == 0 && len(a.Macronutrients) == 0) {
		return "Health analysis requires meal data. Upload a photo of your food to get personalized insights."
	}

	protein := macroAmount(a, "protein")
	carbs := macroAmount(a, "carb")
	fat := macroAmount(a, "fat")
	fiber := macroAmount(a, "fiber")

	proteinCals := protein * kcalPerGramProtein
	carbCals := carbs * kcalPerGramCarb
	fatCals := fat * kcalPerGramFat
	totalCals := proteinCals + carbCals + fatCals
	if totalCals == 0 {
		totalCals = a.Calories
	}

	var b strings.Builder

	caloriePct := 0
	if p != nil && p.TargetCalories > 0 {
		caloriePct = int(math.Round(a.Calories / float64(p.TargetCalories) * 100))
		fmt.Fprintf(&b, "This %.0f calorie meal covers about %d%% of your %d kcal daily target. ",
			a.Calories, caloriePct, p.TargetCalories)
	} else {
		fmt.Fprintf(&b, "This %.0f calorie meal covers about %d%% of a standard 2000 kcal day. ",
			a.Calories, int(math.Round(a.Calories/2000*100)))
	}

	if totalCals > 0 {
		fmt.Fprintf(&b, "Its energy splits roughly %d%% protein, %d%% carbohydrate and %d%% fat. ",
			pctOf(proteinCals, totalCals), pctOf(carbCals, totalCals), pctOf(fatCals, totalCals))
	}

	if p != nil && p.WeightKg > 0 && protein > 0 {
		perKg := protein / p.WeightKg
		fmt.Fprintf(&b, "The %.0fg of protein works out to %.1fg/kg body weight", protein, perKg)
		switch {
		case perKg < 0.25:
			b.WriteString(", a fairly small dose for muscle protein synthesis in a single meal. ")
		case perKg < 0.5:
			b.WriteString(", a solid per-meal dose for muscle maintenance and recovery. ")
		default:
			b.WriteString(", well past the per-meal threshold where additional protein yields diminishing returns. ")
		}
	}

	if fiber >= 5 {
		fmt.Fprintf(&b, "The %.0fg of fiber supports satiety and steadier glucose absorption. ", fiber)
	}

	if p != nil {
		switch {
		case goalMatches(p.Goal, "weight loss", "lose weight"):
			if caloriePct > 35 {
				b.WriteString("For your weight-loss goal this is a substantial share of the day's budget; keep the remaining meals lighter to hold your deficit. ")
			} else {
				b.WriteString("For your weight-loss goal this portion leaves room for the rest of the day while holding your deficit. ")
			}
		case goalMatches(p.Goal, "muscle", "strength"):
			if protein >= 30 {
				b.WriteString("The protein content clears the ~30g per-meal threshold that best supports your muscle-building goal. ")
			} else {
				b.WriteString("A little more protein here would better support your muscle-building goal. ")
			}
		case goalMatches(p.Goal, "heart", "cardiovascular"):
			b.WriteString("For your heart-health goal, watch sodium and saturated fat in meals like this one. ")
		}

		if p.Age > 50 {
			b.WriteString("Past 50, anabolic resistance means protein needs per meal run higher than for younger adults. ")
		}
	}

	if high := highMicros(a); len(high) > 0 {
		fmt.Fprintf(&b, "Notably good sources of %s.", strings.Join(high, ", "))
	}

	return strings.TrimSpace(b.String())
}

func macroAmount(a *Analysis, nameFragment string) float64 {
	for _, n := range a.Macronutrients {
		slug := SlugName(n.Name)
		if strings.Contains(slug, nameFragment) && !strings.Contains(slug, "saturated") && !strings.Contains(slug, "trans") {
			return ConvertAmount(n.Amount, n.Unit, "g")
		}
	}
	return 0
}

func highMicros(a *Analysis) []string {
	var names []string
	for _, n := range a.Micronutrients {
		if n.PercentDailyValue != nil && *n.PercentDailyValue > 30 && !IsLimitNutrient(n.Name) {
			names = append(names, n.Name)
		}
		if len(names) == 3 {
			break
		}
	}
	return names
}

func pctOf(part, whole float64) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(part / whole * 100))
}
