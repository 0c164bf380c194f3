package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config keeps runtime settings for the server.
type Config struct {
	Port          string
	DatabaseURL   string
	ScanInterval  time.Duration
	ScanBootDelay time.Duration

	// Email transport (EmailJS-style REST endpoint). Leaving these empty is
	// supported: sends are then logged and simulated instead of performed.
	EmailEndpoint   string
	EmailServiceID  string
	EmailTemplateID string
	EmailPublicKey  string

	// Google Sign-In. The JWKS URL has a working default; the client ID must
	// be provided for the google login route to accept tokens.
	GoogleClientID string
	GoogleJWKSURL  string
}

// Load reads configuration from environment variables with sane defaults.
// A .env file in the working directory is honored when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:            getEnv("PORT", "8008"),
		DatabaseURL:     getEnv("DATABASE_URL", "task-board.db"),
		ScanInterval:    parseDuration(os.Getenv("SCAN_INTERVAL"), time.Minute),
		ScanBootDelay:   parseDuration(os.Getenv("SCAN_BOOT_DELAY"), 3*time.Second),
		EmailEndpoint:   getEnv("EMAIL_ENDPOINT", "https://api.emailjs.com/api/v1.0/email/send"),
		EmailServiceID:  strings.TrimSpace(os.Getenv("EMAIL_SERVICE_ID")),
		EmailTemplateID: strings.TrimSpace(os.Getenv("EMAIL_TEMPLATE_ID")),
		EmailPublicKey:  strings.TrimSpace(os.Getenv("EMAIL_PUBLIC_KEY")),
		GoogleClientID:  strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_ID")),
		GoogleJWKSURL:   getEnv("GOOGLE_JWKS_URL", "https://www.googleapis.com/oauth2/v3/certs"),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
