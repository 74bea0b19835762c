// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
	"your-super-secret-jwt-key-change-in-production",
}

// PrivateOrigins is the OCMS_CORS_ORIGINS entry that allows any origin on
// localhost or a private network address.
const PrivateOrigins = "private"

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"OCMS_DB_PATH" envDefault:"./data/ocms-api.db"`
	JWTSecret  string `env:"OCMS_JWT_SECRET,required"`
	ServerHost string `env:"OCMS_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"OCMS_SERVER_PORT" envDefault:"5000"`
	Env        string `env:"OCMS_ENV" envDefault:"development"`
	LogLevel   string `env:"OCMS_LOG_LEVEL" envDefault:"info"`

	RequestTimeout time.Duration `env:"OCMS_REQUEST_TIMEOUT" envDefault:"30s"`

	// Uploads
	UploadsDir  string `env:"OCMS_UPLOADS_DIR" envDefault:"./uploads"`
	MaxUploadMB int64  `env:"OCMS_MAX_UPLOAD_MB" envDefault:"10"`

	// Outgoing mail. Delivery is disabled while SMTPHost is empty.
	SMTPHost     string `env:"OCMS_SMTP_HOST"`
	SMTPPort     int    `env:"OCMS_SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"OCMS_SMTP_USER"`
	SMTPPassword string `env:"OCMS_SMTP_PASSWORD"`
	SMTPSecure   bool   `env:"OCMS_SMTP_SECURE" envDefault:"false"` // implicit TLS instead of STARTTLS
	SMTPFrom     string `env:"OCMS_SMTP_FROM" envDefault:"noreply@localhost"`
	AdminEmail   string `env:"OCMS_ADMIN_EMAIL"` // receives contact form copies

	FrontendURL string   `env:"OCMS_FRONTEND_URL" envDefault:"http://localhost:3000"`
	CORSOrigins []string `env:"OCMS_CORS_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	// Cache configuration
	RedisURL     string `env:"OCMS_REDIS_URL"` // Optional Redis URL for distributed caching
	CachePrefix  string `env:"OCMS_CACHE_PREFIX" envDefault:"ocms-api:"`
	CacheTTL     int    `env:"OCMS_CACHE_TTL" envDefault:"300"` // seconds
	CacheMaxSize int    `env:"OCMS_CACHE_MAX_SIZE" envDefault:"10000"`

	// Seeding configuration
	DoSeed        bool   `env:"OCMS_DO_SEED" envDefault:"false"`
	AdminPassword string `env:"OCMS_ADMIN_PASSWORD"` // generated and logged when empty
	AdminName     string `env:"OCMS_ADMIN_NAME" envDefault:"Administrator"`
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

// SMTPEnabled returns true if outgoing mail is configured.
func (c Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}

// MaxUploadBytes returns the upload size limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// CacheDefaultTTL returns CacheTTL as a duration.
func (c Config) CacheDefaultTTL() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// AllowPrivateOrigins reports whether the private-network CORS wildcard is on.
func (c Config) AllowPrivateOrigins() bool {
	return slices.ContainsFunc(c.CORSOrigins, func(o string) bool {
		return strings.TrimSpace(o) == PrivateOrigins
	})
}

// ExplicitOrigins returns the configured CORS origins without the wildcard entry.
func (c Config) ExplicitOrigins() []string {
	out := make([]string, 0, len(c.CORSOrigins))
	for _, o := range c.CORSOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" && o != PrivateOrigins {
			out = append(out, o)
		}
	}
	return out
}

// SlogLevel maps LogLevel to a slog level. Unknown values yield info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// MinJWTSecretLength is the minimum required length for the token signing secret.
const MinJWTSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	return LoadFrom(env.ToMap(os.Environ()))
}

// LoadFrom parses the given environment instead of the process environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("OCMS_JWT_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinJWTSecretLength, len(c.JWTSecret))
	}

	if slices.Contains(knownWeakSecrets, c.JWTSecret) {
		return errors.New("OCMS_JWT_SECRET is a known default value and must not be used; " +
			"generate a secure secret with: openssl rand -base64 32")
	}

	if !hasMinimumEntropy(c.JWTSecret) {
		slog.Warn("OCMS_JWT_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("OCMS_SERVER_PORT %d is out of range", c.ServerPort)
	}
	if c.MaxUploadMB < 1 {
		return fmt.Errorf("OCMS_MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("OCMS_REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if c.DoSeed && c.AdminEmail == "" {
		return errors.New("OCMS_DO_SEED requires OCMS_ADMIN_EMAIL")
	}
	return nil
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
