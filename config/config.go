package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Server struct {
		Port string `env:"HTTP_PORT" envDefault:"5250"`

		// debug, release or test
		GinMode string `env:"GIN_MODE" envDefault:"release"`

		AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

		ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL" envDefault:"info"`
	}

	Database Database

	Listing struct {
		// Page size for /locations when no limit is given
		DefaultLimit int `env:"PAGINATION_DEFAULT_LIMIT" envDefault:"100"`

		// Direction used by /offers when order is omitted
		DefaultOrder string `env:"OFFERS_DEFAULT_ORDER" envDefault:"desc"`
	}

	// BatchProcessing configuration for the listing import pipeline
	BatchProcessing struct {
		// Maximum number of listings accepted in a single import request
		MaxBatchSize int `env:"BATCH_MAX_SIZE" envDefault:"100"`

		// Number of batches the import queue buffers before rejecting new ones
		QueueSize int `env:"BATCH_QUEUE_SIZE" envDefault:"10"`

		// Number of concurrent batch processors
		ProcessorCount int `env:"BATCH_PROCESSOR_COUNT" envDefault:"2"`

		// Maximum number of retries for failed batches
		MaxRetries int `env:"BATCH_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"BATCH_RETRY_DELAY" envDefault:"5"`
	}

	Geocoding Geocoding
}

// Geocoding configures the background job that fills in missing location
// coordinates from a Nominatim compatible service.
type Geocoding struct {
	Enabled bool `env:"GEOCODING_ENABLED" envDefault:"false"`

	BaseURL      string `env:"GEOCODER_URL" envDefault:"https://nominatim.openstreetmap.org"`
	CountryCodes string `env:"GEOCODER_COUNTRY_CODES" envDefault:"pl"`
	UserAgent    string `env:"GEOCODER_USER_AGENT" envDefault:"estatequery/1.0"`

	// Nominatim allows one request per second
	RequestInterval time.Duration `env:"GEOCODER_REQUEST_INTERVAL" envDefault:"1s"`

	// How often the backfill job runs and how many locations it handles per run
	Interval  time.Duration `env:"GEOCODING_INTERVAL" envDefault:"1h"`
	BatchSize int           `env:"GEOCODING_BATCH_SIZE" envDefault:"50"`
}

type Database struct {
	// sqlite or postgres
	Driver string `env:"DB_DRIVER" envDefault:"sqlite"`

	// File used by the sqlite driver
	Path string `env:"DB_PATH" envDefault:"database/listings.db"`

	// Connection string used by the postgres driver
	DSN string `env:"DB_DSN"`
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return errors.New("DB_PATH is required for the sqlite driver")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return errors.New("DB_DSN is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if c.Listing.DefaultLimit < 1 {
		return fmt.Errorf("PAGINATION_DEFAULT_LIMIT must be at least 1, got %d", c.Listing.DefaultLimit)
	}
	if c.BatchProcessing.ProcessorCount < 1 {
		return fmt.Errorf("BATCH_PROCESSOR_COUNT must be at least 1, got %d", c.BatchProcessing.ProcessorCount)
	}
	if c.Geocoding.Enabled && c.Geocoding.Interval <= 0 {
		return fmt.Errorf("GEOCODING_INTERVAL must be positive, got %s", c.Geocoding.Interval)
	}
	return nil
}
