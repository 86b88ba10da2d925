package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/platewise/backend/internal/nutrition"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// NutrientList stores a slice of nutrients as a JSONB column.
type NutrientList []nutrition.Nutrient

// Value implements the driver.Valuer interface
func (n NutrientList) Value() (driver.Value, error) {
	if len(n) == 0 {
		return "[]", nil
	}
	return json.Marshal(n)
}

// Scan implements the sql.Scanner interface
func (n *NutrientList) Scan(value interface{}) error {
	if value == nil {
		*n = NutrientList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, n)
}
