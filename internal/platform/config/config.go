// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env' file is
honoured when present so that the terminal client and the server share one setup.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (storage, remote client) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Storage Backends

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// # Structure Cache Modes

const (
	StructureCacheSnapshot = "snapshot"
	StructureCachePerKey   = "per_key"
)

// # Configuration Schema

// Config holds all runtime configuration for the Lectio server and terminal client.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Remote content service
	BibleAPIBaseURL string        `env:"BIBLE_API_BASE_URL" envDefault:"https://apiv2.axsphere.in/api/ax-tracker"`
	BibleAPITimeout time.Duration `env:"BIBLE_API_TIMEOUT"  envDefault:"15s"`
	BiblePageSize   int           `env:"BIBLE_PAGE_SIZE"    envDefault:"200"`

	// Response cache
	CacheTTL           time.Duration `env:"CACHE_TTL"            envDefault:"24h"`
	StructureCacheMode string        `env:"STRUCTURE_CACHE_MODE" envDefault:"snapshot"`

	// Persistent key-value medium
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"file"`
	StoragePath    string `env:"STORAGE_PATH"    envDefault:"./data/lectio.json"`
	SQLitePath     string `env:"SQLITE_PATH"     envDefault:"./data/lectio.db"`

	// Relational Database (PostgreSQL), required by the postgres backend only
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis), required by the redis backend only
	RedisURL string `env:"REDIS_URL"`

	// Cryptographic keys for reader session tokens. Both empty means an ephemeral key.
	JWTPrivKeyPath string        `env:"JWT_PRIVATE_KEY_PATH"`
	JWTPubKeyPath  string        `env:"JWT_PUBLIC_KEY_PATH"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"720h"`

	// OperatorPasswordHash is the bcrypt hash guarding cache administration. Empty disables it.
	OperatorPasswordHash string `env:"OPERATOR_PASSWORD_HASH"`

	// Devotional content
	DailyVerseFeedURL string `env:"DAILY_VERSE_FEED_URL"`

	// Sharing
	ShareWebhookURL string `env:"SHARE_WEBHOOK_URL"`
	ShareDir        string `env:"SHARE_DIR" envDefault:"./shares"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// A missing .env file is the normal production case
	_ = godotenv.Load()

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings that cannot produce a working process.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendMemory, BackendFile, BackendSQLite:
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config: REDIS_URL is required when STORAGE_BACKEND is redis")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required when STORAGE_BACKEND is postgres")
		}
	default:
		return fmt.Errorf("config: unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	if c.StructureCacheMode != StructureCacheSnapshot && c.StructureCacheMode != StructureCachePerKey {
		return fmt.Errorf("config: unknown STRUCTURE_CACHE_MODE %q", c.StructureCacheMode)
	}

	if c.CacheTTL <= 0 {
		return fmt.Errorf("config: CACHE_TTL must be positive")
	}

	if c.BiblePageSize < 1 {
		return fmt.Errorf("config: BIBLE_PAGE_SIZE must be at least 1")
	}

	if (c.JWTPrivKeyPath == "") != (c.JWTPubKeyPath == "") {
		return fmt.Errorf("config: JWT_PRIVATE_KEY_PATH and JWT_PUBLIC_KEY_PATH must be set together")
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the comma separated EXTRA_ORIGINS as a trimmed list.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
