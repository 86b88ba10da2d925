package nutrition

import (
	"context"
	"log"
	"strings"
)

// Gender values used by the energy formulas. Anything other than "male"
// uses the female coefficients.
const (
	GenderMale        = "male"
	GenderFemale      = "female"
	GenderUnspecified = "unspecified"
)

// Default profile values, used as fallbacks when a profile is missing
// fields entirely.
const (
	defaultAge           = 30
	defaultGender        = GenderFemale
	defaultWeightKg      = 65
	defaultHeightCm      = 165
	defaultActivityLevel = "moderate"
	defaultGoal          = "general wellness"
)

// Profile is a possibly-partial user profile. Zero values mean "not
// provided"; Resolve fills them from the fallback chain.
type Profile struct {
	Age           int     `json:"age,omitempty"`
	Gender        string  `json:"gender,omitempty"`
	Weight        float64 `json:"weight,omitempty"`
	WeightUnit    string  `json:"weight_unit,omitempty"`
	Height        float64 `json:"height,omitempty"`
	HeightUnit    string  `json:"height_unit,omitempty"`
	ActivityLevel string  `json:"activity_level,omitempty"`
	Goal          string  `json:"goal,omitempty"`
}

// ResolvedProfile is a fully-populated profile plus the derived values
// every downstream calculation needs.
type ResolvedProfile struct {
	Profile
	WeightKg       float64 `json:"weight_in_kg"`
	HeightCm       float64 `json:"height_in_cm"`
	BMI            float64 `json:"bmi"`
	BMR            int     `json:"bmr"`
	TDEE           int     `json:"tdee"`
	TargetCalories int     `json:"target_calories"`
}

// Cache is a non-authoritative profile cache. Implementations must
// tolerate concurrent access; a failed Get or Set is never an error the
// resolver surfaces.
type Cache interface {
	Get(ctx context.Context) (*Profile, bool)
	Set(ctx context.Context, p *Profile)
	Clear(ctx context.Context)
}

// Store is the authoritative profile source. A nil store or a failed
// fetch degrades to the next source in the chain.
type Store interface {
	Fetch(ctx context.Context) (*Profile, error)
}

// Resolver merges profile sources in precedence order: remote store,
// explicitly passed partial, cache, hard-coded defaults.
type Resolver struct {
	store Store
	cache Cache
}

// NewResolver creates a Resolver. Both dependencies are optional.
func NewResolver(store Store, cache Cache) *Resolver {
	return &Resolver{store: store, cache: cache}
}

// Resolve produces a fully-populated profile regardless of how
// incomplete the inputs are. Store failures are logged and absorbed;
// personalization degrades to defaults rather than blocking analysis.
func (r *Resolver) Resolve(ctx context.Context, partial *Profile) *ResolvedProfile {
	merged := Profile{}

	if r.cache != nil {
		if cached, ok := r.cache.Get(ctx); ok && cached != nil {
			merged = mergeProfiles(merged, *cached)
		}
	}
	if partial != nil {
		merged = mergeProfiles(merged, *partial)
	}
	if r.store != nil {
		remote, err := r.store.Fetch(ctx)
		if err != nil {
			log.Printf("[ProfileResolver] remote fetch failed, using next-best source: %v", err)
		} else if remote != nil {
			merged = mergeProfiles(merged, *remote)
		}
	}

	resolved := Complete(merged)

	// Best-effort cache refresh for the next caller.
	if r.cache != nil {
		r.cache.Set(ctx, &resolved.Profile)
	}

	return resolved
}

// Complete fills missing fields from defaults and computes derived
// values. It never fails: garbage in yields the default profile's math.
func Complete(p Profile) *ResolvedProfile {
	if p.Age <= 0 {
		p.Age = defaultAge
	}
	if strings.TrimSpace(p.Gender) == "" {
		p.Gender = defaultGender
	}
	p.Gender = strings.ToLower(strings.TrimSpace(p.Gender))
	if p.Weight <= 0 {
		p.Weight = defaultWeightKg
		p.WeightUnit = UnitKg
	}
	if p.Height <= 0 {
		p.Height = defaultHeightCm
		p.HeightUnit = UnitCm
	}
	if p.WeightUnit == "" {
		p.WeightUnit = InferWeightUnit(p.Weight)
	}
	if p.HeightUnit == "" {
		p.HeightUnit = InferHeightUnit(p.Height)
	}
	if strings.TrimSpace(p.ActivityLevel) == "" {
		p.ActivityLevel = defaultActivityLevel
	}
	if strings.TrimSpace(p.Goal) == "" {
		p.Goal = defaultGoal
	}

	weightKg := WeightToKg(p.Weight, p.WeightUnit)
	heightCm := HeightToCm(p.Height, p.HeightUnit)

	resolved := &ResolvedProfile{
		Profile:  p,
		WeightKg: weightKg,
		HeightCm: heightCm,
		BMI:      BMI(weightKg, heightCm),
	}
	resolved.BMR = BMR(resolved)
	resolved.TDEE = TDEE(resolved)
	resolved.TargetCalories = TargetCalories(resolved)
	return resolved
}

// mergeProfiles overlays non-zero fields of b onto a.
func mergeProfiles(a, b Profile) Profile {
	if b.Age > 0 {
		a.Age = b.Age
	}
	if b.Gender != "" {
		a.Gender = b.Gender
	}
	if b.Weight > 0 {
		a.Weight = b.Weight
		a.WeightUnit = b.WeightUnit
	}
	if b.Height > 0 {
		a.Height = b.Height
		a.HeightUnit = b.HeightUnit
	}
	if b.ActivityLevel != "" {
		a.ActivityLevel = b.ActivityLevel
	}
	if b.Goal != "" {
		a.Goal = b.Goal
	}
	return a
}

// MissingFields lists the profile fields still needed for full
// personalization. An empty result means the profile is complete.
func MissingFields(p *Profile) []string {
	if p == nil {
		return []string{"age", "gender", "weight", "height", "activity_level", "goal"}
	}
	var missing []string
	if p.Age <= 0 {
		missing = append(missing, "age")
	}
	if strings.TrimSpace(p.Gender) == "" {
		missing = append(missing, "gender")
	}
	if p.Weight <= 0 {
		missing = append(missing, "weight")
	}
	if p.Height <= 0 {
		missing = append(missing, "height")
	}
	if strings.TrimSpace(p.ActivityLevel) == "" {
		missing = append(missing, "activity_level")
	}
	if strings.TrimSpace(p.Goal) == "" {
		missing = append(missing, "goal")
	}
	return missing
}

// IsComplete reports whether the profile can drive fully personalized
// math without falling back to defaults.
func IsComplete(p *Profile) bool {
	return len(MissingFields(p)) == 0
}

// goalMatches reports whether the free-text goal contains any of the
// given keywords, case-insensitively.
func goalMatches(goal string, keywords ...string) bool {
	g := strings.ToLower(goal)
	for _, kw := range keywords {
		if strings.Contains(g, kw) {
			return true
		}
	}
	return false
}
