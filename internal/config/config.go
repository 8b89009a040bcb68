package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Session   SessionConfig
	OAuth     OAuthConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Jobs      JobsConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
	ClientURL      string
}

// DatabaseConfig holds SurrealDB connection settings
type DatabaseConfig struct {
	Host      string
	Port      string
	Namespace string
	Database  string
	User      string
	Password  string
}

// SessionConfig holds login session settings
type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	CookieMaxAge time.Duration
}

// OAuthConfig holds social login provider settings
type OAuthConfig struct {
	Google   ProviderConfig
	Facebook ProviderConfig
	Line     ProviderConfig
}

// ProviderConfig holds the client credentials for one OAuth provider
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// RedisConfig selects the Redis session store when Addr is set
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RateLimitConfig holds per-client request limits
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// JobsConfig holds background job intervals
type JobsConfig struct {
	OrphanSweepInterval    time.Duration
	SessionCleanupInterval time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first when present; variables
// already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Env:            getEnv("SERVER_ENV", "development"),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			AllowedOrigins: getSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
			ClientURL:      strings.TrimRight(getEnv("CLIENT_URL", "http://localhost:5173"), "/"),
		},
		Database: DatabaseConfig{
			Host:      getEnv("DB_HOST", "localhost"),
			Port:      getEnv("DB_PORT", "8000"),
			Namespace: getEnv("DB_NAMESPACE", "marketplace"),
			Database:  getEnv("DB_DATABASE", "main"),
			User:      getEnv("DB_USER", "root"),
			Password:  getEnv("DB_PASSWORD", "root"),
		},
		Session: SessionConfig{
			Secret:       getEnv("SESSION_SECRET", "development-session-secret-change-me"),
			TTL:          getDurationEnv("SESSION_TTL", 14*24*time.Hour),
			CookieMaxAge: getDurationEnv("SESSION_COOKIE_MAX_AGE", 7*24*time.Hour),
		},
		OAuth: OAuthConfig{
			Google:   getProviderEnv("GOOGLE"),
			Facebook: getProviderEnv("FACEBOOK"),
			Line:     getProviderEnv("LINE"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			RPS:   getFloatEnv("RATE_LIMIT_RPS", 10),
			Burst: getIntEnv("RATE_LIMIT_BURST", 30),
		},
		Jobs: JobsConfig{
			OrphanSweepInterval:    getDurationEnv("ORPHAN_SWEEP_INTERVAL", time.Hour),
			SessionCleanupInterval: getDurationEnv("SESSION_CLEANUP_INTERVAL", time.Hour),
		},
	}, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// LogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Server.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}
	if c.Server.ClientURL == "" {
		errs = append(errs, errors.New("CLIENT_URL is required"))
	}

	if c.Database.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.Database.Port == "" {
		errs = append(errs, errors.New("DB_PORT is required"))
	}
	if c.Database.Namespace == "" {
		errs = append(errs, errors.New("DB_NAMESPACE is required"))
	}
	if c.Database.Database == "" {
		errs = append(errs, errors.New("DB_DATABASE is required"))
	}

	if c.Session.Secret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required"))
	} else if c.IsProduction() && len(c.Session.Secret) < 32 {
		errs = append(errs, errors.New("SESSION_SECRET must be at least 32 characters in production"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.Session.CookieMaxAge <= 0 {
		errs = append(errs, errors.New("SESSION_COOKIE_MAX_AGE must be positive"))
	}

	providers := map[string]ProviderConfig{
		"GOOGLE":   c.OAuth.Google,
		"FACEBOOK": c.OAuth.Facebook,
		"LINE":     c.OAuth.Line,
	}
	for _, name := range []string{"GOOGLE", "FACEBOOK", "LINE"} {
		p := providers[name]
		if p.IsConfigured() {
			if err := p.Validate(name); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if c.RateLimit.RPS <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS must be positive"))
	}
	if c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_BURST must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// IsConfigured returns true if any provider field is set
func (p ProviderConfig) IsConfigured() bool {
	return p.ClientID != "" || p.ClientSecret != "" || p.RedirectURL != ""
}

// Enabled returns true when the provider can be used for login
func (p ProviderConfig) Enabled() bool {
	return p.ClientID != "" && p.ClientSecret != "" && p.RedirectURL != ""
}

// Validate checks that all required provider fields are present.
// prefix is the environment variable prefix used in the error message.
func (p ProviderConfig) Validate(prefix string) error {
	var missing []string
	if p.ClientID == "" {
		missing = append(missing, prefix+"_CLIENT_ID")
	}
	if p.ClientSecret == "" {
		missing = append(missing, prefix+"_CLIENT_SECRET")
	}
	if p.RedirectURL == "" {
		missing = append(missing, prefix+"_REDIRECT_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s OAuth: missing required fields: %s", prefix, strings.Join(missing, ", "))
	}
	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

func getProviderEnv(prefix string) ProviderConfig {
	return ProviderConfig{
		ClientID:     getEnv(prefix+"_CLIENT_ID", ""),
		ClientSecret: getEnv(prefix+"_CLIENT_SECRET", ""),
		RedirectURL:  getEnv(prefix+"_REDIRECT_URL", ""),
	}
}
