// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lectio/internal/platform/config"
)

/*
TestLoad_Defaults verifies the zero-configuration setup used by the terminal client.
*/
func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, config.BackendFile, cfg.StorageBackend)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 200, cfg.BiblePageSize)
	assert.Equal(t, "https://apiv2.axsphere.in/api/ax-tracker", cfg.BibleAPIBaseURL)
	assert.True(t, cfg.IsDevelopment())
}

/*
TestConfig_Validate checks backend-specific requirements.
*/
func TestConfig_Validate(t *testing.T) {
	base := func() config.Config {
		return config.Config{
			StorageBackend:     config.BackendMemory,
			StructureCacheMode: config.StructureCacheSnapshot,
			CacheTTL:           time.Hour,
			BiblePageSize:      200,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		isValid bool
	}{
		{"memory_backend", func(c *config.Config) {}, true},
		{"redis_without_url", func(c *config.Config) { c.StorageBackend = config.BackendRedis }, false},
		{"redis_with_url", func(c *config.Config) {
			c.StorageBackend = config.BackendRedis
			c.RedisURL = "redis://localhost:6379/0"
		}, true},
		{"postgres_without_dsn", func(c *config.Config) { c.StorageBackend = config.BackendPostgres }, false},
		{"unknown_backend", func(c *config.Config) { c.StorageBackend = "etcd" }, false},
		{"unknown_cache_mode", func(c *config.Config) { c.StructureCacheMode = "lru" }, false},
		{"zero_ttl", func(c *config.Config) { c.CacheTTL = 0 }, false},
		{"half_key_pair", func(c *config.Config) { c.JWTPrivKeyPath = "priv.pem" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.isValid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

/*
TestConfig_AllowedOrigins verifies EXTRA_ORIGINS splitting.
*/
func TestConfig_AllowedOrigins(t *testing.T) {
	cfg := config.Config{ExtraOrigins: " https://a.example , ,https://b.example"}
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
}
