package nutrition

// Unit conversion and inference for profile biometrics. All downstream
// arithmetic works in kilograms and centimeters.

const (
	lbPerKg = 0.453592
	cmPerIn = 2.54
)

// Weight/height units accepted on profiles.
const (
	UnitKg = "kg"
	UnitLb = "lb"
	UnitCm = "cm"
	UnitIn = "in"
)

// Heuristic thresholds for inferring a missing unit from magnitude.
// A weight above 120 is almost certainly pounds; a height between 40
// and 96 is almost certainly inches.
const (
	weightLbThreshold = 120
	heightInMin       = 40
	heightInMax       = 96
)

// WeightToKg converts a weight to kilograms. An empty unit is inferred
// from magnitude.
func WeightToKg(value float64, unit string) float64 {
	if value <= 0 {
		return defaultWeightKg
	}
	switch unit {
	case UnitLb, "lbs":
		return value * lbPerKg
	case UnitKg:
		return value
	default:
		if value > weightLbThreshold {
			return value * lbPerKg
		}
		return value
	}
}

// KgToLb converts kilograms back to pounds.
func KgToLb(kg float64) float64 {
	return kg / lbPerKg
}

// HeightToCm converts a height to centimeters. An empty unit is
// inferred from magnitude.
func HeightToCm(value float64, unit string) float64 {
	if value <= 0 {
		return defaultHeightCm
	}
	switch unit {
	case UnitIn, "inch", "inches":
		return value * cmPerIn
	case UnitCm:
		return value
	default:
		if value > heightInMin && value < heightInMax {
			return value * cmPerIn
		}
		return value
	}
}

// CmToIn converts centimeters back to inches.
func CmToIn(cm float64) float64 {
	return cm / cmPerIn
}

// InferWeightUnit returns the unit a bare weight value most likely
// carries.
func InferWeightUnit(value float64) string {
	if value > weightLbThreshold {
		return UnitLb
	}
	return UnitKg
}

// InferHeightUnit returns the unit a bare height value most likely
// carries.
func InferHeightUnit(value float64) string {
	if value > heightInMin && value < heightInMax {
		return UnitIn
	}
	return UnitCm
}
