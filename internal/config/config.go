package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AuthMode selects how users are authenticated.
type AuthMode string

const (
	// AuthModeLocal uses email/password registration with bearer tokens.
	AuthModeLocal AuthMode = "local"
	// AuthModeDev auto-provisions a single admin user for local development.
	AuthModeDev AuthMode = "dev"
)

// Config aggregates runtime settings loaded from environment variables,
// keeping the same variable names as the original Node.js server.
type Config struct {
	HTTPPort    string
	DatabaseURL string
	AuthMode    AuthMode
	JWTSecret   string
	TokenTTL    time.Duration

	SMTPHost   string
	SMTPPort   string
	SMTPUser   string
	SMTPPass   string
	SMTPFrom   string
	SMTPSecure bool

	// NotifyEmails receive a mail whenever a match event is created.
	NotifyEmails []string

	UploadDir     string
	UploadMaxSize int64

	DevUserID string
	DevEmail  string
	DevRole   string

	LogLevel  string
	LogFormat string
}

// Load builds a Config from the environment. A .env file in the working
// directory is merged in first when present.
func Load() Config {
	_ = godotenv.Load()

	ttl := 7 * 24 * time.Hour
	if raw := os.Getenv("TOKEN_TTL_DAYS"); raw != "" {
		if days, err := strconv.Atoi(raw); err == nil {
			ttl = time.Duration(days) * 24 * time.Hour
		}
	}

	maxUpload := int64(50 * 1024 * 1024)
	if raw := os.Getenv("UPLOAD_MAX_BYTES"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			maxUpload = n
		}
	}

	return Config{
		HTTPPort:      firstNonEmpty(os.Getenv("PORT"), "5000"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		AuthMode:      parseAuthMode(os.Getenv("AUTH_MODE")),
		JWTSecret:     firstNonEmpty(os.Getenv("SESSION_SECRET"), "dev-session-secret"),
		TokenTTL:      ttl,
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      firstNonEmpty(os.Getenv("SMTP_PORT"), "587"),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPass:      os.Getenv("SMTP_PASS"),
		SMTPFrom:      firstNonEmpty(os.Getenv("SMTP_FROM"), os.Getenv("SMTP_USER")),
		SMTPSecure:    os.Getenv("SMTP_SECURE") == "true",
		NotifyEmails:  splitEmails(os.Getenv("NOTIFY_EMAILS")),
		UploadDir:     firstNonEmpty(os.Getenv("UPLOAD_DIR"), "uploads"),
		UploadMaxSize: maxUpload,
		DevUserID:     firstNonEmpty(os.Getenv("DEV_USER_ID"), "dev-user"),
		DevEmail:      firstNonEmpty(os.Getenv("DEV_EMAIL"), "dev@example.com"),
		DevRole:       firstNonEmpty(os.Getenv("DEV_ROLE"), "admin"),
		LogLevel:      firstNonEmpty(os.Getenv("LOG_LEVEL"), "info"),
		LogFormat:     firstNonEmpty(os.Getenv("LOG_FORMAT"), "json"),
	}
}

// HasDatabase reports whether a Postgres connection string is configured.
// Without one the server runs on the in-memory store.
func (c Config) HasDatabase() bool { return c.DatabaseURL != "" }

// SMTPConfigured reports whether outbound mail can be sent.
func (c Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPass != ""
}

func parseAuthMode(raw string) AuthMode {
	switch AuthMode(strings.ToLower(raw)) {
	case AuthModeDev:
		return AuthModeDev
	default:
		return AuthModeLocal
	}
}

func splitEmails(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
