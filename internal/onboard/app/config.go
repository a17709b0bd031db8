package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer  string // Issuer claim for session tokens (default: agencydesk-onboard)
	BaseURL string // Public base URL used to build invitation links

	DatabaseFile         string        // Path to SQLite database file (default: ./onboard.db)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expiry sweep interval (default: 1h)
	SessionTTL           time.Duration // Staff session token lifetime (default: 12h)

	// Primary mail transport (SES). Disabled when Region is empty.
	SESRegion          string
	SESEndpoint        string
	SESAccessKeyID     string
	SESSecretAccessKey string
	SESFrom            string

	// Legacy mail transport (SMTP). Disabled when Host is empty.
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	// First staff account, created on startup when the users table is empty.
	BootstrapEmail    string
	BootstrapPassword string
	BootstrapTeamID   string
}

func LoadConfig() Config {
	return Config{
		Issuer:  getEnvOrDefault("ONBOARD_ISSUER", "agencydesk-onboard"),
		BaseURL: getEnvOrDefault("ONBOARD_BASE_URL", "http://localhost:8080"),

		DatabaseFile:         getEnvOrDefault("ONBOARD_DATABASE_FILE", "onboard.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		SessionTTL:           getEnvDurationOrDefault("SESSION_TTL", 12*time.Hour),

		SESRegion:          os.Getenv("SES_REGION"),
		SESEndpoint:        os.Getenv("SES_ENDPOINT"),
		SESAccessKeyID:     os.Getenv("SES_ACCESS_KEY_ID"),
		SESSecretAccessKey: os.Getenv("SES_SECRET_ACCESS_KEY"),
		SESFrom:            os.Getenv("SES_FROM"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvOrDefault("SMTP_PORT", "587"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),

		BootstrapEmail:    os.Getenv("BOOTSTRAP_EMAIL"),
		BootstrapPassword: os.Getenv("BOOTSTRAP_PASSWORD"),
		BootstrapTeamID:   getEnvOrDefault("BOOTSTRAP_TEAM_ID", "default"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
