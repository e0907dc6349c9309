package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabaseURL    string
	DatabasePath   string
	MigrationsPath string

	SessionDuration time.Duration

	// AppBaseURL is the externally visible origin used to build invite and
	// password-reset links (e.g. https://familyhub.example.com).
	AppBaseURL string

	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	EmailDebug   bool

	AuthRateLimit  int
	AuthRateWindow time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// A local .env file is picked up if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		DatabaseType:    getEnv("DATABASE_TYPE", "sqlite"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		DatabasePath:    getEnv("DB_PATH", "./familyhub.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		SessionDuration: time.Duration(getEnvInt("SESSION_DURATION_HOURS", 24)) * time.Hour,
		AppBaseURL:      getEnv("APP_BASE_URL", "http://localhost:8080"),
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail:    getEnv("SES_FROM_EMAIL", ""),
		SESFromName:     getEnv("SES_FROM_NAME", "FamilyHub"),
		EmailDebug:      getEnvBool("EMAIL_DEBUG", false),
		AuthRateLimit:   getEnvInt("AUTH_RATE_LIMIT", 10),
		AuthRateWindow:  time.Duration(getEnvInt("AUTH_RATE_WINDOW_SECONDS", 60)) * time.Second,
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvBool reads a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
