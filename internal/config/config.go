// Package config provides environment configuration management.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backends selectable with STORE_BACKEND.
const (
	BackendLocal     = "local"
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
)

// Config holds all environment configuration for the application.
type Config struct {
	Port      string `env:"PORT"       envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	StoreBackend             string `env:"STORE_BACKEND"              envDefault:"local"`
	FirestoreProjectID       string `env:"FIRESTORE_PROJECT_ID"`
	FirestoreCredentialsFile string `env:"FIRESTORE_CREDENTIALS_FILE"`
	DatabaseURL              string `env:"DATABASE_URL"`

	RedisAddr       string `env:"REDIS_ADDR"`
	ChangeStreamKey string `env:"CHANGE_STREAM_KEY" envDefault:"life:changes"`
	ConsumerGroup   string `env:"CONSUMER_GROUP"    envDefault:"life-consumers"`
	ConsumerName    string `env:"CONSUMER_NAME"     envDefault:"consumer-1"`

	AuthSecret      string        `env:"AUTH_SECRET"`
	AuthTokenTTL    time.Duration `env:"AUTH_TOKEN_TTL"   envDefault:"24h"`
	GeocoderURL     string        `env:"GEOCODER_URL"     envDefault:"https://nominatim.openstreetmap.org/search"`
	GeocoderTimeout time.Duration `env:"GEOCODER_TIMEOUT" envDefault:"5s"`

	RateLimitRPS   float64  `env:"RATE_LIMIT_RPS"   envDefault:"10"`
	RateLimitBurst int      `env:"RATE_LIMIT_BURST" envDefault:"20"`
	TrustedProxies []string `env:"TRUSTED_PROXIES"  envSeparator:","`
}

// LoadConfig parses environment variables into Config struct.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the selected backend has what it needs and that tokens
// are signed with a non-empty secret.
func (c *Config) Validate() error {
	if c.AuthSecret == "" {
		return errors.New("AUTH_SECRET is required")
	}

	switch c.StoreBackend {
	case BackendLocal:
	case BackendFirestore:
		if c.FirestoreProjectID == "" {
			return errors.New("FIRESTORE_PROJECT_ID is required for the firestore backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	return nil
}
