// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Analysis limits
	// MaxResumeSize caps uploaded resume files (default 10MiB).
	MaxResumeSize int64 `env:"MAX_RESUME_SIZE" envDefault:"10485760"`
	// MaxJobDescriptionLength caps the pasted job description in bytes.
	MaxJobDescriptionLength int `env:"MAX_JOB_DESCRIPTION_LENGTH" envDefault:"65536"`
	// MinKeywordLength is the minimum rune length for extracted keywords.
	MinKeywordLength int `env:"MIN_KEYWORD_LENGTH" envDefault:"3"`

	// Rate limiting
	RateLimitAPIEnabled     bool `env:"RATE_LIMIT_API_ENABLED" envDefault:"true"`
	RateLimitAnalyzeEnabled bool `env:"RATE_LIMIT_ANALYZE_ENABLED" envDefault:"true"`
	RateLimitAnalyzeRPS     int  `env:"RATE_LIMIT_ANALYZE_RPS" envDefault:"2"`
	RateLimitAnalyzeBurst   int  `env:"RATE_LIMIT_ANALYZE_BURST" envDefault:"5"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// MaxRequestBodySize caps the whole request body and must exceed
	// MaxResumeSize to leave room for multipart framing.
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"12582912"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.MaxRequestBodySize <= cfg.MaxResumeSize {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE (%d) must exceed MAX_RESUME_SIZE (%d)",
			cfg.MaxRequestBodySize, cfg.MaxResumeSize)
	}

	return cfg, nil
}
