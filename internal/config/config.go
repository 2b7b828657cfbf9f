package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server         ServerConfig
	Database       DatabaseConfig
	Session        SessionConfig
	RateLimit      RateLimitConfig
	Email          EmailConfig
	Reminder       ReminderConfig
	AdminBootstrap AdminBootstrapConfig
	Logging        LoggingConfig
	Environment    string
}

type ServerConfig struct {
	Host    string
	Port    int
	BaseURL string
}

type DatabaseConfig struct {
	URL            string
	MaxConnections int
	MaxIdle        int
}

// SessionConfig drives the login cookie. Secret signs the JWT carried in
// the cookie; CSRFKey must be 32 bytes for gorilla/csrf.
type SessionConfig struct {
	Secret     string
	CSRFKey    string
	Expiry     time.Duration
	CookieName string
}

type RateLimitConfig struct {
	PublicPerMinute int
	LoginPerMinute  int
}

type EmailConfig struct {
	ResendAPIKey string
	From         string
}

// ReminderConfig controls the upcoming-event reminder sweep.
type ReminderConfig struct {
	Interval time.Duration
	Horizon  time.Duration
}

type AdminBootstrapConfig struct {
	Username string
	Password string
	Email    string
}

func Load() (Config, error) {
	// Missing .env is fine; real env vars win either way.
	_ = godotenv.Load()

	cfg := Config{
		Server: ServerConfig{
			Host:    getEnv("SERVER_HOST", "0.0.0.0"),
			Port:    getEnvInt("SERVER_PORT", 8080),
			BaseURL: getEnv("SERVER_BASE_URL", "http://localhost:8080"),
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxConnections: getEnvInt("DATABASE_MAX_CONNECTIONS", 25),
			MaxIdle:        getEnvInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
		},
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", ""),
			CSRFKey:    getEnv("CSRF_KEY", ""),
			Expiry:     time.Duration(getEnvInt("SESSION_EXPIRY_HOURS", 24)) * time.Hour,
			CookieName: getEnv("SESSION_COOKIE_NAME", "eventura_session"),
		},
		RateLimit: RateLimitConfig{
			PublicPerMinute: getEnvInt("RATE_LIMIT_PUBLIC", 120),
			LoginPerMinute:  getEnvInt("RATE_LIMIT_LOGIN", 10),
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			From:         getEnv("EMAIL_FROM", "Eventura <no-reply@eventura.app>"),
		},
		Reminder: ReminderConfig{
			Interval: time.Duration(getEnvInt("REMINDER_INTERVAL_MINUTES", 15)) * time.Minute,
			Horizon:  time.Duration(getEnvInt("REMINDER_HORIZON_HOURS", 24)) * time.Hour,
		},
		AdminBootstrap: AdminBootstrapConfig{
			Username: getEnv("ADMIN_USERNAME", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
			Email:    getEnv("ADMIN_EMAIL", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	if cfg.Database.URL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.Session.Secret == "" {
		return Config{}, fmt.Errorf("SESSION_SECRET is required")
	}
	if cfg.Session.CSRFKey == "" {
		return Config{}, fmt.Errorf("CSRF_KEY is required")
	}
	if len(cfg.Session.CSRFKey) != 32 {
		return Config{}, fmt.Errorf("CSRF_KEY must be exactly 32 bytes, got %d", len(cfg.Session.CSRFKey))
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
