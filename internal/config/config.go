// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads contentdesk settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Storage backends.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBDriver      string `env:"CDESK_DB_DRIVER" envDefault:"sqlite"`
	DBPath        string `env:"CDESK_DB_PATH" envDefault:"./data/contentdesk.db"`
	SessionSecret string `env:"CDESK_SESSION_SECRET,required"`
	ServerHost    string `env:"CDESK_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"CDESK_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"CDESK_ENV" envDefault:"development"`
	LogLevel      string `env:"CDESK_LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"CDESK_LOG_FORMAT" envDefault:"text"`

	// Seeded administrator, created only when no user with this email exists
	AdminEmail    string `env:"CDESK_ADMIN_EMAIL" envDefault:"admin@example.com"`
	AdminPassword string `env:"CDESK_ADMIN_PASSWORD" envDefault:"changeme"`
	DemoMode      bool   `env:"CDESK_DEMO_MODE" envDefault:"false"` // Seed sample content into empty tables

	// Object storage
	StorageBackend string        `env:"CDESK_STORAGE_BACKEND" envDefault:"local"`
	UploadsDir     string        `env:"CDESK_UPLOADS_DIR" envDefault:"./uploads"`
	PublicBaseURL  string        `env:"CDESK_PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
	S3Endpoint     string        `env:"CDESK_S3_ENDPOINT"`
	S3AccessKey    string        `env:"CDESK_S3_ACCESS_KEY"`
	S3SecretKey    string        `env:"CDESK_S3_SECRET_KEY"`
	S3UseSSL       bool          `env:"CDESK_S3_USE_SSL" envDefault:"true"`
	S3PublicURL    string        `env:"CDESK_S3_PUBLIC_URL"`
	UploadBucket   string        `env:"CDESK_UPLOAD_BUCKET" envDefault:"content"`
	UploadGrace    time.Duration `env:"CDESK_UPLOAD_GRACE" envDefault:"24h"`
	ReaperSchedule string        `env:"CDESK_REAPER_SCHEDULE" envDefault:"@every 1h"`

	// Cache configuration
	RedisURL     string `env:"CDESK_REDIS_URL"`                          // Optional Redis URL for shared caching
	CachePrefix  string `env:"CDESK_CACHE_PREFIX" envDefault:"cdesk:"`   // Redis key prefix
	CacheTTL     int    `env:"CDESK_CACHE_TTL" envDefault:"30"`          // Read freshness window in seconds
	CacheMaxSize int    `env:"CDESK_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	MetricsEnabled bool `env:"CDESK_METRICS_ENABLED" envDefault:"true"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// UseS3 returns true if uploads go to an S3-compatible object store.
func (c Config) UseS3() bool {
	return c.StorageBackend == StorageS3
}

// CacheFreshness returns the read cache TTL as a duration.
func (c Config) CacheFreshness() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("CDESK_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("CDESK_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	switch cfg.DBDriver {
	case "sqlite", "sqlite3":
	default:
		return nil, fmt.Errorf("CDESK_DB_DRIVER must be sqlite or sqlite3, got %q", cfg.DBDriver)
	}

	switch cfg.StorageBackend {
	case StorageLocal:
	case StorageS3:
		if cfg.S3Endpoint == "" || cfg.S3AccessKey == "" || cfg.S3SecretKey == "" {
			return nil, fmt.Errorf("CDESK_STORAGE_BACKEND=s3 requires CDESK_S3_ENDPOINT, CDESK_S3_ACCESS_KEY and CDESK_S3_SECRET_KEY")
		}
	default:
		return nil, fmt.Errorf("CDESK_STORAGE_BACKEND must be %q or %q, got %q", StorageLocal, StorageS3, cfg.StorageBackend)
	}

	if cfg.CacheTTL <= 0 {
		return nil, fmt.Errorf("CDESK_CACHE_TTL must be positive, got %d", cfg.CacheTTL)
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("CDESK_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if !cfg.IsDevelopment() && cfg.AdminPassword == "changeme" {
		slog.Warn("CDESK_ADMIN_PASSWORD is the default value; change it before exposing the dashboard")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
