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

// ValidateConfig checks that every setting the server cannot run without
// is present and well-formed.
func ValidateConfig(cfg *Config) error {
	var errs []string

	required := map[string]string{
		"ServerPort": cfg.ServerPort,
		"DBHost":     cfg.DBHost,
		"DBPort":     cfg.DBPort,
		"DBUser":     cfg.DBUser,
		"DBName":     cfg.DBName,
		"RedisHost":  cfg.RedisHost,
		"RedisPort":  cfg.RedisPort,
		"JWTSecret":  cfg.JWTSecret,
	}
	for field, value := range required {
		if value == "" {
			errs = append(errs, ValidationError{Field: field, Message: "must not be empty"}.Error())
		}
	}

	if cfg.DBSSLMode != "" {
		switch cfg.DBSSLMode {
		case "disable", "require", "verify-ca", "verify-full":
		default:
			errs = append(errs, ValidationError{Field: "DBSSLMode", Message: "invalid value " + cfg.DBSSLMode}.Error())
		}
	}

	if GetEnvironment() == Production && len(cfg.JWTSecret) < 32 {
		errs = append(errs, ValidationError{Field: "JWTSecret", Message: "must be at least 32 characters in production"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}
