package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// External content APIs
	SpoonacularAPIKey string
	SpoonacularAPIURL string
	MealDBAPIURL      string
}

// LoadConfig creates a new Config instance with values from environment
// variables or Docker secrets, depending on the environment.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	switch env {
	case CI:
		if err := loadCIConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load CI configuration: %w", err)
		}
	case Development, Test:
		if err := loadDevConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load development configuration: %w", err)
		}
	case Production:
		if err := loadProdConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load production configuration: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	loadExternalAPIConfig(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadCIConfig loads configuration for CI using environment variables only
func loadCIConfig(cfg *Config) error {
	cfg.ServerPort = os.Getenv("SERVER_PORT")
	cfg.ServerHost = os.Getenv("SERVER_HOST")
	cfg.DBHost = os.Getenv("DB_HOST")
	cfg.DBPort = os.Getenv("DB_PORT")
	cfg.DBUser = os.Getenv("DB_USER")
	cfg.DBName = os.Getenv("DB_NAME")
	cfg.DBSSLMode = os.Getenv("DB_SSL_MODE")
	cfg.RedisHost = os.Getenv("REDIS_HOST")
	cfg.RedisPort = os.Getenv("REDIS_PORT")

	cfg.DBPassword = os.Getenv("TEST_DB_PASSWORD")
	if cfg.DBPassword == "" {
		return fmt.Errorf("TEST_DB_PASSWORD environment variable is required in CI environment")
	}
	cfg.JWTSecret = os.Getenv("TEST_JWT_SECRET")
	cfg.RedisPassword = os.Getenv("TEST_REDIS_PASSWORD")
	cfg.RedisURL = os.Getenv("TEST_REDIS_URL")
	cfg.RedisDB = 0

	return nil
}

// loadDevConfig loads configuration for development, preferring Docker
// secrets and falling back to environment variables.
func loadDevConfig(cfg *Config) error {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}

	secrets := make(map[string]string)
	secretFiles := []string{
		"db_user",
		"db_password",
		"jwt_secret",
		"redis_password",
		"db_host",
		"db_port",
		"db_name",
		"db_ssl_mode",
		"redis_host",
		"redis_port",
		"redis_url",
		"server_port",
		"server_host",
	}

	for _, name := range secretFiles {
		content, err := os.ReadFile(filepath.Join(secretsDir, name))
		if err == nil {
			secrets[name] = strings.TrimSpace(string(content))
		}
	}

	cfg.ServerPort = firstNonEmpty(secrets["server_port"], os.Getenv("SERVER_PORT"), "8080")
	cfg.ServerHost = firstNonEmpty(secrets["server_host"], os.Getenv("SERVER_HOST"), "0.0.0.0")
	cfg.DBHost = firstNonEmpty(secrets["db_host"], os.Getenv("DB_HOST"), "localhost")
	cfg.DBPort = firstNonEmpty(secrets["db_port"], os.Getenv("DB_PORT"), "5432")
	cfg.DBUser = firstNonEmpty(secrets["db_user"], os.Getenv("DB_USER"), "postgres")
	cfg.DBPassword = firstNonEmpty(secrets["db_password"], os.Getenv("DB_PASSWORD"))
	cfg.DBName = firstNonEmpty(secrets["db_name"], os.Getenv("DB_NAME"), "platefeed")
	cfg.DBSSLMode = firstNonEmpty(secrets["db_ssl_mode"], os.Getenv("DB_SSL_MODE"), "disable")
	cfg.RedisHost = firstNonEmpty(secrets["redis_host"], os.Getenv("REDIS_HOST"), "localhost")
	cfg.RedisPort = firstNonEmpty(secrets["redis_port"], os.Getenv("REDIS_PORT"), "6379")
	cfg.RedisPassword = firstNonEmpty(secrets["redis_password"], os.Getenv("REDIS_PASSWORD"))
	cfg.RedisURL = firstNonEmpty(secrets["redis_url"], os.Getenv("REDIS_URL"))
	cfg.JWTSecret = firstNonEmpty(secrets["jwt_secret"], os.Getenv("JWT_SECRET"), "dev-secret")

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			cfg.RedisDB = db
		}
	}

	return nil
}

// loadProdConfig loads configuration for production from environment
// variables; all values must be present.
func loadProdConfig(cfg *Config) error {
	cfg.ServerPort = os.Getenv("SERVER_PORT")
	cfg.ServerHost = os.Getenv("SERVER_HOST")
	cfg.DBHost = os.Getenv("DB_HOST")
	cfg.DBPort = os.Getenv("DB_PORT")
	cfg.DBUser = os.Getenv("DB_USER")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.DBName = os.Getenv("DB_NAME")
	cfg.DBSSLMode = os.Getenv("DB_SSL_MODE")
	cfg.RedisHost = os.Getenv("REDIS_HOST")
	cfg.RedisPort = os.Getenv("REDIS_PORT")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.JWTSecret = os.Getenv("JWT_SECRET")

	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required in production")
	}
	if cfg.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD environment variable is required in production")
	}

	return nil
}

// loadExternalAPIConfig fills in the third-party recipe API settings.
// Keys may be absent: the bridges surface a clear error on first use.
func loadExternalAPIConfig(cfg *Config) {
	cfg.SpoonacularAPIKey = os.Getenv("SPOONACULAR_API_KEY")
	cfg.SpoonacularAPIURL = os.Getenv("SPOONACULAR_API_URL")
	if cfg.SpoonacularAPIURL == "" {
		cfg.SpoonacularAPIURL = "https://api.spoonacular.com"
	}
	cfg.MealDBAPIURL = os.Getenv("MEALDB_API_URL")
	if cfg.MealDBAPIURL == "" {
		cfg.MealDBAPIURL = "https://www.themealdb.com/api/json/v1/1"
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
