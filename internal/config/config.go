package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string

	// Database
	DatabaseDriver string
	DatabaseURL    string

	// JWT
	JWTSecret          string
	JWTExpirationHours int

	// Background Workers
	WorkerCount            int
	IntegrityCheckInterval time.Duration

	// CORS
	AllowedOrigins []string

	// Default administrator created on first start
	AdminPassword string

	// Sentry
	SentryDSN string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                   getEnv("PORT", "8080"),
		Environment:            getEnv("ENVIRONMENT", "development"),
		DatabaseDriver:         strings.ToLower(getEnv("DATABASE_DRIVER", DriverPostgres)),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		JWTSecret:              getEnv("JWT_SECRET", ""),
		JWTExpirationHours:     getEnvAsInt("JWT_EXPIRATION_HOURS", 12),
		WorkerCount:            getEnvAsInt("WORKER_COUNT", 2),
		IntegrityCheckInterval: getEnvAsDuration("INTEGRITY_CHECK_INTERVAL", 24*time.Hour),
		AllowedOrigins:         getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		AdminPassword:          getEnv("ADMIN_PASSWORD", ""),
		SentryDSN:              getEnv("SENTRY_DSN", ""),
	}

	switch cfg.DatabaseDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}

	// The desktop installs configure the connection piecewise
	if cfg.DatabaseURL == "" && cfg.DatabaseDriver == DriverPostgres {
		cfg.DatabaseURL = postgresURLFromParts()
	}

	// Validate required configuration
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" && cfg.Environment == "production" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}
	if cfg.AdminPassword == "" && cfg.Environment == "production" {
		return nil, fmt.Errorf("ADMIN_PASSWORD is required in production")
	}

	// Set development defaults
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-change-in-production"
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = "admin"
	}

	return cfg, nil
}

// postgresURLFromParts builds a connection URL from DB_USER, DB_PASSWORD, DB_HOST, DB_PORT and DB_NAME
func postgresURLFromParts() string {
	name := getEnv("DB_NAME", "")
	if name == "" {
		return ""
	}
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(getEnv("DB_USER", "postgres"), getEnv("DB_PASSWORD", "")),
		Host:   getEnv("DB_HOST", "localhost") + ":" + getEnv("DB_PORT", "5432"),
		Path:   "/" + name,
	}
	return u.String()
}

// getEnv reads an environment variable or returns a default value. Empty values count as unset.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration reads an environment variable as a time.Duration ("6h", "30m")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

// getEnvAsSlice reads an environment variable as comma-separated slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
