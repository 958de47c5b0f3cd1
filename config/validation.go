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

// ValidateConfig checks that every value the service cannot run without is
// present. Tuning knobs have defaults and are not checked here.
func ValidateConfig(cfg *Config) error {
	required := []struct {
		field string
		value string
	}{
		{"server port", cfg.ServerPort},
		{"db host", cfg.DBHost},
		{"db port", cfg.DBPort},
		{"db user", cfg.DBUser},
		{"db password", cfg.DBPassword},
		{"db name", cfg.DBName},
		{"jwt secret", cfg.JWTSecret},
	}

	var errors []string
	for _, req := range required {
		if req.value == "" {
			errors = append(errors, fmt.Sprintf("required configuration %s is not set", req.field))
		}
	}

	// Redis needs either a URL or a host/port pair.
	if cfg.RedisURL == "" && (cfg.RedisHost == "" || cfg.RedisPort == "") {
		errors = append(errors, "redis configuration requires REDIS_URL or REDIS_HOST and REDIS_PORT")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
