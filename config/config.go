package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort           = "8080"
	defaultRequestTimeout = 10 * time.Second
	defaultTimezone       = "UTC"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	LogLevel    string
	Port        string
	// DBUrl is optional; empty disables the offline cache.
	DBUrl string

	CourseAPIBaseURL string
	JWTSecret        string
	DefaultTimezone  *time.Location
	RequestTimeout   time.Duration
	AllowedOrigins   []string

	Email EmailConfig
}

// EmailConfig holds the digest mailer settings.
type EmailConfig struct {
	Provider           string
	FromAddress        string
	FromName           string
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	InsecureSkipVerify bool
}

// Load loads configuration from environment variables
// It attempts to load from .env file if not in production
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// In production the environment is the only source.
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}
	if v := os.Getenv("GO_ENV"); v != "" {
		env = v
	}

	cfg := &Config{
		Environment:      env,
		LogLevel:         os.Getenv("LOG_LEVEL"),
		Port:             getenv("PORT", defaultPort),
		DBUrl:            os.Getenv("DATABASE_URL"),
		CourseAPIBaseURL: strings.TrimSuffix(os.Getenv("COURSE_API_BASE_URL"), "/"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		AllowedOrigins:   splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		Email: EmailConfig{
			Provider:           getenv("EMAIL_PROVIDER", "noop"),
			FromAddress:        os.Getenv("EMAIL_FROM_ADDRESS"),
			FromName:           os.Getenv("EMAIL_FROM_NAME"),
			AWSRegion:          os.Getenv("AWS_REGION"),
			AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		},
	}

	if cfg.CourseAPIBaseURL == "" {
		return nil, fmt.Errorf("COURSE_API_BASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	loc, err := time.LoadLocation(getenv("DEFAULT_TIMEZONE", defaultTimezone))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_TIMEZONE: %w", err)
	}
	cfg.DefaultTimezone = loc

	cfg.RequestTimeout = defaultRequestTimeout
	if s := os.Getenv("REQUEST_TIMEOUT"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid REQUEST_TIMEOUT %q", s)
		}
		cfg.RequestTimeout = d
	}

	if s := os.Getenv("SES_INSECURE_SKIP_VERIFY"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("invalid SES_INSECURE_SKIP_VERIFY: %w", err)
		}
		cfg.Email.InsecureSkipVerify = b
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
