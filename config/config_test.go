package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "5250", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "database/listings.db", cfg.Database.Path)
	assert.Equal(t, 100, cfg.Listing.DefaultLimit)
	assert.Equal(t, "desc", cfg.Listing.DefaultOrder)
	assert.Equal(t, 100, cfg.BatchProcessing.MaxBatchSize)
	assert.Equal(t, 10, cfg.BatchProcessing.QueueSize)
	assert.Equal(t, 2, cfg.BatchProcessing.ProcessorCount)
	assert.Equal(t, 3, cfg.BatchProcessing.MaxRetries)
	assert.Equal(t, 5, cfg.BatchProcessing.RetryDelay)
	assert.False(t, cfg.Geocoding.Enabled)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.Geocoding.BaseURL)
	assert.Equal(t, "pl", cfg.Geocoding.CountryCodes)
	assert.Equal(t, time.Second, cfg.Geocoding.RequestInterval)
	assert.Equal(t, time.Hour, cfg.Geocoding.Interval)
	assert.Equal(t, 50, cfg.Geocoding.BatchSize)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,https://example.com")
	t.Setenv("PAGINATION_DEFAULT_LIMIT", "25")
	t.Setenv("BATCH_PROCESSOR_COUNT", "4")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000", "https://example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 25, cfg.Listing.DefaultLimit)
	assert.Equal(t, 4, cfg.BatchProcessing.ProcessorCount)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=debug\nDB_PATH=/tmp/listings-test.db\n"), 0644))
	t.Cleanup(func() {
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("DB_PATH")
	})

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/listings-test.db", cfg.Database.Path)
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		msg  string
	}{
		{
			name: "unknown driver",
			env:  map[string]string{"DB_DRIVER": "oracle"},
			msg:  `unsupported DB_DRIVER "oracle"`,
		},
		{
			name: "postgres without dsn",
			env:  map[string]string{"DB_DRIVER": "postgres"},
			msg:  "DB_DSN is required",
		},
		{
			name: "zero default limit",
			env:  map[string]string{"PAGINATION_DEFAULT_LIMIT": "0"},
			msg:  "PAGINATION_DEFAULT_LIMIT must be at least 1",
		},
		{
			name: "geocoding without interval",
			env:  map[string]string{"GEOCODING_ENABLED": "true", "GEOCODING_INTERVAL": "0s"},
			msg:  "GEOCODING_INTERVAL must be positive",
		},
		{
			name: "no processors",
			env:  map[string]string{"BATCH_PROCESSOR_COUNT": "0"},
			msg:  "BATCH_PROCESSOR_COUNT must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
