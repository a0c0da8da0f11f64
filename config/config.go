package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Server struct {
		Port string `env:"PORT" envDefault:"5250"`

		// Origins allowed by the CORS middleware
		AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

		// Public search requests per second allowed for a single client
		SearchRateLimit float64 `env:"SEARCH_RATE_LIMIT" envDefault:"10"`
		SearchRateBurst int     `env:"SEARCH_RATE_BURST" envDefault:"20"`
	}

	Database struct {
		Path string `env:"DATABASE_PATH" envDefault:"database/marketplace.db"`
	}

	Auth struct {
		JWTSecret string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	}

	PageSizes PageSizes

	// BatchProcessing configures the notification writer
	BatchProcessing struct {
		// Capacity of the notification queue, in batches
		QueueSize int `env:"BATCH_QUEUE_SIZE" envDefault:"100"`

		// Maximum number of retries for failed batches
		MaxRetries int `env:"BATCH_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"BATCH_RETRY_DELAY" envDefault:"5"`
	}

	Presentation struct {
		// Attach sample listings to empty public search results
		EmptyStateSamples bool `env:"EMPTY_STATE_SAMPLES" envDefault:"false"`
	}
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
