package nutrition

import (
	"encoding/json"
	"math"
	"sort"
)

// The product has accumulated several encodings of the same meal
// analysis: flat fields, a nested "analysis" object, a nested
// "nutrients" object, a nested "data" object, and a JSONB keyed-object
// form where each key is a nutrient slug. Normalize reconciles all of
// them into one canonical Analysis. The operation is idempotent:
// normalizing its own output is a no-op.

// Shape identifies where a nutrient collection was found in a payload.
type Shape int

const (
	ShapeUnrecognized Shape = iota
	ShapeKeyedObject
	ShapeFlatArray
	ShapeNestedAnalysis
	ShapeNestedNutrients
	ShapeNestedData
)

func (s Shape) String() string {
	switch s {
	case ShapeKeyedObject:
		return "keyed-object"
	case ShapeFlatArray:
		return "flat-array"
	case ShapeNestedAnalysis:
		return "nested-analysis"
	case ShapeNestedNutrients:
		return "nested-nutrients"
	case ShapeNestedData:
		return "nested-data"
	default:
		return "unrecognized"
	}
}

// Analysis is the canonical, display-ready form of one analyzed meal.
type Analysis struct {
	MealName             string     `json:"meal_name,omitempty"`
	Calories             float64    `json:"calories"`
	Macronutrients       []Nutrient `json:"macronutrients"`
	Micronutrients       []Nutrient `json:"micronutrients"`
	Benefits             []string   `json:"benefits,omitempty"`
	Concerns             []string   `json:"concerns,omitempty"`
	Suggestions          []string   `json:"suggestions,omitempty"`
	Insights             string     `json:"insights,omitempty"`
	PersonalizedInsights string     `json:"personalized_insights,omitempty"`
	Goal                 string     `json:"goal,omitempty"`
}

// Synthetic macro split used only when no nutrient structure can be
// recognized but calories are known: 40% carbohydrate, 30% protein,
// 30% fat by calories.
const (
	syntheticCarbShare    = 0.40
	syntheticProteinShare = 0.30
	syntheticFatShare     = 0.30
)

// NormalizeJSON decodes a raw payload and normalizes it.
func NormalizeJSON(raw []byte) (*Analysis, error) {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return Normalize(payload), nil
}

// Normalize produces the canonical Analysis for an arbitrarily-shaped
// payload. The input is never mutated and an absent or unrecognizable
// structure yields an empty (never nil) nutrient slice.
func Normalize(payload map[string]any) *Analysis {
	a := &Analysis{
		MealName:             firstString(payload, "meal_name", "mealName", "name"),
		Calories:             numberAt(payload, "calories"),
		Benefits:             stringsAt(payload, "benefits"),
		Concerns:             stringsAt(payload, "concerns"),
		Suggestions:          stringsAt(payload, "suggestions"),
		Insights:             firstString(payload, "insights", "health_insights", "healthInsights"),
		PersonalizedInsights: firstString(payload, "personalized_insights", "personalizedInsights", "personalizedHealthInsights"),
		Goal:                 firstString(payload, "goal"),
	}
	if a.Calories == 0 {
		if nested, ok := childObject(payload, "analysis"); ok {
			a.Calories = numberAt(nested, "calories")
		}
	}

	a.Macronutrients, _ = ExtractNutrients(payload, "macronutrients")
	a.Micronutrients, _ = ExtractNutrients(payload, "micronutrients")

	if len(a.Macronutrients) == 0 && a.Calories > 0 {
		a.Macronutrients = syntheticMacros(a.Calories)
	}
	if a.Macronutrients == nil {
		a.Macronutrients = []Nutrient{}
	}
	if a.Micronutrients == nil {
		a.Micronutrients = []Nutrient{}
	}
	return a
}

// Renormalize applies the canonical guarantees to an Analysis decoded
// from storage rather than from a raw payload. Rows persisted before
// the synthetic split existed gain one here.
func Renormalize(a *Analysis) *Analysis {
	if len(a.Macronutrients) == 0 && a.Calories > 0 {
		a.Macronutrients = syntheticMacros(a.Calories)
	}
	if a.Macronutrients == nil {
		a.Macronutrients = []Nutrient{}
	}
	if a.Micronutrients == nil {
		a.Micronutrients = []Nutrient{}
	}
	return a
}

// ExtractNutrients locates a nutrient collection for the given field,
// checking candidate locations in priority order and reporting which
// shape matched. First match wins.
func ExtractNutrients(payload map[string]any, field string) ([]Nutrient, Shape) {
	if v, ok := payload[field]; ok {
		if obj, ok := v.(map[string]any); ok && len(obj) > 0 {
			if nutrients := fromKeyedObject(obj); len(nutrients) > 0 {
				return nutrients, ShapeKeyedObject
			}
		}
		if arr, ok := v.([]any); ok && len(arr) > 0 {
			return fromArray(arr), ShapeFlatArray
		}
	}

	for _, loc := range []struct {
		key   string
		shape Shape
	}{
		{"analysis", ShapeNestedAnalysis},
		{"nutrients", ShapeNestedNutrients},
		{"data", ShapeNestedData},
	} {
		nested, ok := childObject(payload, loc.key)
		if !ok {
			continue
		}
		if arr, ok := nested[field].([]any); ok && len(arr) > 0 {
			return fromArray(arr), loc.shape
		}
		if obj, ok := nested[field].(map[string]any); ok && len(obj) > 0 {
			if nutrients := fromKeyedObject(obj); len(nutrients) > 0 {
				return nutrients, loc.shape
			}
		}
	}

	return nil, ShapeUnrecognized
}

// fromKeyedObject converts the JSONB keyed encoding, e.g.
// {"protein": {"g": 30, "dv_percent": 60}}, into the canonical array,
// title-casing the slug into a display name.
func fromKeyedObject(obj map[string]any) []Nutrient {
	var out []Nutrient
	seen := map[string]bool{}
	for _, slug := range sortedKeys(obj) {
		entry, ok := obj[slug].(map[string]any)
		if !ok {
			return nil
		}
		unit := ""
		amount := 0.0
		var dv *float64
		for k, v := range entry {
			num, isNum := toNumber(v)
			if !isNum {
				continue
			}
			if k == "dv_percent" || k == "percentDailyValue" {
				value := num
				dv = &value
				continue
			}
			unit = k
			amount = num
		}
		if unit == "" && dv == nil {
			return nil
		}
		if unit == "grams" {
			unit = "g"
		}
		key := SlugName(slug)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Nutrient{
			Name:              TitleFromSlug(key),
			Amount:            amount,
			Unit:              unit,
			PercentDailyValue: dv,
		})
	}
	return out
}

// fromArray converts a heterogeneous nutrient array, deduplicating by
// slugged name (first occurrence wins).
func fromArray(arr []any) []Nutrient {
	out := make([]Nutrient, 0, len(arr))
	seen := map[string]bool{}
	for _, item := range arr {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name := firstString(entry, "name")
		if name == "" {
			continue
		}
		key := SlugName(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		n := Nutrient{
			Name:        name,
			Amount:      numberAt(entry, "amount"),
			Unit:        firstString(entry, "unit"),
			Description: firstString(entry, "description"),
		}
		for _, dvKey := range []string{"percentDailyValue", "dv_percent", "percent_daily_value"} {
			if v, ok := entry[dvKey]; ok {
				if num, isNum := toNumber(v); isNum {
					n.PercentDailyValue = &num
					break
				}
			}
		}
		out = append(out, n)
	}
	return out
}

// syntheticMacros derives a best-effort macro split from calories
// alone.
func syntheticMacros(calories float64) []Nutrient {
	return []Nutrient{
		{Name: "Protein", Amount: math.Round(calories * syntheticProteinShare / kcalPerGramProtein), Unit: "g"},
		{Name: "Carbohydrates", Amount: math.Round(calories * syntheticCarbShare / kcalPerGramCarb), Unit: "g"},
		{Name: "Fat", Amount: math.Round(calories * syntheticFatShare / kcalPerGramFat), Unit: "g"},
	}
}

func childObject(payload map[string]any, key string) (map[string]any, bool) {
	obj, ok := payload[key].(map[string]any)
	return obj, ok
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func numberAt(m map[string]any, key string) float64 {
	if v, ok := m[key]; ok {
		if num, isNum := toNumber(v); isNum {
			return num
		}
	}
	return 0
}

func stringsAt(m map[string]any, key string) []string {
	arr, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
