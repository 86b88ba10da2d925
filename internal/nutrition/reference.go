package nutrition

import (
	"strings"
)

// Reference daily-value data. Values follow FDA/NIH adult guidelines;
// a handful of nutrients additionally carry age/gender-banded DRI
// tables used when the profile supplies age and gender.

// Reference describes one nutrient's standard daily value.
type Reference struct {
	Amount  float64
	Unit    string
	IsLimit bool
}

// dvReference maps slugged nutrient names to their FDA reference
// values. Limit nutrients represent a ceiling, not a target.
var dvReference = map[string]Reference{
	// Macronutrients
	"protein":         {50, "g", false},
	"carbohydrates":   {275, "g", false},
	"carbohydrate":    {275, "g", false},
	"carbs":           {275, "g", false},
	"total_carbohydrate": {275, "g", false},
	"fat":             {78, "g", false},
	"total_fat":       {78, "g", false},
	"saturated_fat":   {20, "g", true},
	"trans_fat":       {2, "g", true},
	"fiber":           {28, "g", false},
	"dietary_fiber":   {28, "g", false},
	"sugar":           {50, "g", true},
	"sugars":          {50, "g", true},
	"total_sugar":     {50, "g", true},
	"added_sugar":     {25, "g", true},
	"cholesterol":     {300, "mg", true},
	"sodium":          {2300, "mg", true},

	// Minerals
	"calcium":    {1000, "mg", false},
	"iron":       {18, "mg", false},
	"potassium":  {4700, "mg", false},
	"magnesium":  {420, "mg", false},
	"zinc":       {11, "mg", false},
	"phosphorus": {1250, "mg", false},
	"iodine":     {150, "mcg", false},
	"selenium":   {55, "mcg", false},
	"copper":     {0.9, "mg", false},
	"manganese":  {2.3, "mg", false},
	"chromium":   {35, "mcg", false},
	"chloride":   {2300, "mg", false},

	// Vitamins
	"vitamin_a":        {900, "mcg", false},
	"vitamin_c":        {90, "mg", false},
	"vitamin_d":        {20, "mcg", false},
	"vitamin_e":        {15, "mg", false},
	"vitamin_k":        {120, "mcg", false},
	"vitamin_b1":       {1.2, "mg", false},
	"thiamin":          {1.2, "mg", false},
	"thiamine":         {1.2, "mg", false},
	"vitamin_b2":       {1.3, "mg", false},
	"riboflavin":       {1.3, "mg", false},
	"vitamin_b3":       {16, "mg", false},
	"niacin":           {16, "mg", false},
	"vitamin_b5":       {5, "mg", false},
	"pantothenic_acid": {5, "mg", false},
	"vitamin_b6":       {1.7, "mg", false},
	"vitamin_b7":       {30, "mcg", false},
	"biotin":           {30, "mcg", false},
	"vitamin_b9":       {400, "mcg", false},
	"folate":           {400, "mcg", false},
	"folic_acid":       {400, "mcg", false},
	"vitamin_b12":      {2.4, "mcg", false},
	"cobalamin":        {2.4, "mcg", false},
	"choline":          {550, "mg", false},
}

// ageBand returns the DRI age band for a given age.
func ageBand(age int) string {
	switch {
	case age <= 3:
		return "1-3"
	case age <= 8:
		return "4-8"
	case age <= 13:
		return "9-13"
	case age <= 18:
		return "14-18"
	case age <= 30:
		return "19-30"
	case age <= 50:
		return "31-50"
	case age <= 70:
		return "51-70"
	default:
		return "71+"
	}
}

type bandedValue struct {
	male   float64
	female float64
}

// Banded DRI tables for nutrients whose recommendation varies enough by
// age and gender to matter. Protein is g per kg body weight; the rest
// are absolute daily amounts in the reference unit.
var driProteinPerKg = map[string]bandedValue{
	"1-3":   {1.05, 1.05},
	"4-8":   {0.95, 0.95},
	"9-13":  {0.95, 0.95},
	"14-18": {0.85, 0.85},
	"19-30": {0.8, 0.8},
	"31-50": {0.8, 0.8},
	"51-70": {0.8, 0.8},
	"71+":   {0.8, 0.8},
}

var driCalciumMg = map[string]bandedValue{
	"1-3":   {700, 700},
	"4-8":   {1000, 1000},
	"9-13":  {1300, 1300},
	"14-18": {1300, 1300},
	"19-30": {1000, 1000},
	"31-50": {1000, 1000},
	"51-70": {1000, 1200},
	"71+":   {1200, 1200},
}

var driIronMg = map[string]bandedValue{
	"1-3":   {7, 7},
	"4-8":   {10, 10},
	"9-13":  {8, 8},
	"14-18": {11, 15},
	"19-30": {8, 18},
	"31-50": {8, 18},
	"51-70": {8, 8},
	"71+":   {8, 8},
}

var driVitaminCMg = map[string]bandedValue{
	"1-3":   {15, 15},
	"4-8":   {25, 25},
	"9-13":  {45, 45},
	"14-18": {75, 65},
	"19-30": {90, 75},
	"31-50": {90, 75},
	"51-70": {90, 75},
	"71+":   {90, 75},
}

func (b bandedValue) forGender(gender string) float64 {
	if gender == GenderMale {
		return b.male
	}
	return b.female
}

func bandedLookup(table map[string]bandedValue, age int, gender string, fallback float64) float64 {
	if v, ok := table[ageBand(age)]; ok {
		return v.forGender(gender)
	}
	return fallback
}

// Fiber adequate-intake floors by gender.
const (
	fiberFloorMale   = 38
	fiberFloorFemale = 25
)

// SlugName normalizes a nutrient name into the lookup key used by the
// reference tables: lowercased, with spaces and punctuation collapsed
// to underscores.
func SlugName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}

// TitleFromSlug converts a slug back into a display name:
// "vitamin_b12" -> "Vitamin B12".
func TitleFromSlug(slug string) string {
	parts := strings.Split(slug, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if isVitaminCode(p) {
			parts[i] = strings.ToUpper(p)
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// isVitaminCode matches single-letter vitamin codes like "a", "c" or
// B-complex codes like "b12".
func isVitaminCode(s string) bool {
	if len(s) == 1 {
		return strings.ContainsAny(s, "acdek")
	}
	if s[0] != 'b' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// LookupReference returns the standard reference for a nutrient name,
// if the name is recognized.
func LookupReference(name string) (Reference, bool) {
	ref, ok := dvReference[SlugName(name)]
	return ref, ok
}

// IsLimitNutrient reports whether a nutrient's daily value represents
// an upper bound rather than a target.
func IsLimitNutrient(name string) bool {
	slug := SlugName(name)
	if ref, ok := dvReference[slug]; ok {
		return ref.IsLimit
	}
	for _, limit := range []string{"sodium", "saturated_fat", "trans_fat", "cholesterol", "sugar"} {
		if strings.Contains(slug, limit) {
			return true
		}
	}
	return false
}

// massUnitFactors gives each mass unit's size in grams.
var massUnitFactors = map[string]float64{
	"g":     1,
	"mg":    1e-3,
	"mcg":   1e-6,
	"µg":    1e-6,
	"ug":    1e-6,
	"grams": 1,
}

// ConvertAmount converts an amount between mass units via fixed powers
// of 1000. Unconvertible units (IU, empty) pass through unchanged.
func ConvertAmount(amount float64, fromUnit, toUnit string) float64 {
	from, okFrom := massUnitFactors[strings.ToLower(fromUnit)]
	to, okTo := massUnitFactors[strings.ToLower(toUnit)]
	if !okFrom || !okTo {
		return amount
	}
	return amount * from / to
}

// nutrientDescriptions holds the research-backed blurbs surfaced next
// to each nutrient on the dashboard.
var nutrientDescriptions = map[string]string{
	"protein":       "Essential for building and repairing tissues, enzyme production, and immune function.",
	"carbohydrates": "Primary energy source for the body, particularly for brain function and high-intensity exercise.",
	"carbs":         "Primary energy source for the body, particularly for brain function and high-intensity exercise.",
	"fat":           "Crucial for hormone production, cell membrane integrity, and absorption of fat-soluble vitamins.",
	"fiber":         "Supports digestive health, feeds beneficial gut bacteria, and helps regulate blood sugar and cholesterol.",
	"sodium":        "Electrolyte that regulates fluid balance and nerve transmission. Excessive intake is linked to hypertension.",
	"vitamin_a":     "Critical for vision, immune function, and cellular communication.",
	"vitamin_c":     "Antioxidant that supports immune function, collagen production, and iron absorption.",
	"vitamin_d":     "Regulates calcium and phosphorus absorption, essential for bone health and immune function.",
	"vitamin_e":     "Antioxidant that protects cells from damage and supports immune function.",
	"vitamin_k":     "Essential for blood clotting and bone metabolism.",
	"vitamin_b12":   "Essential for nerve function, DNA synthesis, and red blood cell formation.",
	"calcium":       "Critical for bone health, muscle contraction, nerve transmission, and blood clotting.",
	"iron":          "Essential component of hemoglobin, transporting oxygen throughout the body.",
	"magnesium":     "Involved in over 300 biochemical reactions including energy production and neuromuscular function.",
	"zinc":          "Essential for immune function, protein synthesis, wound healing, and cell division.",
	"potassium":     "Electrolyte that helps maintain fluid balance, nerve signals, and muscle contractions.",
	"folate":        "Crucial for DNA synthesis and cell division.",
}

// Describe returns the display description for a nutrient, if one
// exists.
func Describe(name string) string {
	return nutrientDescriptions[SlugName(name)]
}

// References returns a copy of the full reference table keyed by slug.
func References() map[string]Reference {
	out := make(map[string]Reference, len(dvReference))
	for slug, ref := range dvReference {
		out[slug] = ref
	}
	return out
}
