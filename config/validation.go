package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// requiredFields maps field labels to accessors. Storage and vision
// settings are deliberately absent: the service degrades gracefully
// without them, the core cannot run without these.
var requiredFields = []struct {
	name string
	get  func(*Config) string
}{
	{"DB_HOST", func(c *Config) string { return c.DBHost }},
	{"DB_USER", func(c *Config) string { return c.DBUser }},
	{"DB_PASSWORD", func(c *Config) string { return c.DBPassword }},
	{"DB_NAME", func(c *Config) string { return c.DBName }},
	{"REDIS_HOST", func(c *Config) string { return c.RedisHost }},
	{"JWT_SECRET", func(c *Config) string { return c.JWTSecret }},
}

// ValidateConfig checks that every setting the service cannot start
// without is present.
func ValidateConfig(cfg *Config) error {
	var errors []string
	for _, f := range requiredFields {
		if f.get(cfg) == "" {
			errors = append(errors, fmt.Sprintf("required setting %s is not set", f.name))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
