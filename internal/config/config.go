// Package config loads the service configuration from the environment, an
// optional .env file and an optional app.env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Draft store backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	ServerPort      string        `mapstructure:"server_port"`
	DatabaseURL     string        `mapstructure:"database_url"`
	RedisURL        string        `mapstructure:"redis_url"`
	DraftBackend    string        `mapstructure:"draft_backend"`
	DraftTTL        time.Duration `mapstructure:"draft_ttl"`
	JWTSecret       string        `mapstructure:"jwt_secret"`
	ClientOrigin    string        `mapstructure:"client_origin"`
	PublicBaseURL   string        `mapstructure:"public_base_url"`
	AutosaveDelay   time.Duration `mapstructure:"autosave_delay"`
	SessionIdle     time.Duration `mapstructure:"session_idle_timeout"`
	CatalogLatency  time.Duration `mapstructure:"catalog_latency"`
	AWSRegion       string        `mapstructure:"aws_region"`
	EmailFrom       string        `mapstructure:"email_from"`
	LogLevel        string        `mapstructure:"log_level"`
	SearchRateLimit float64       `mapstructure:"search_rate_limit"`
	PDFFontFile     string        `mapstructure:"pdf_font_file"`
}

// LoadConfig reads path/.env into the process environment (a missing file is
// fine), then resolves every key from the environment, path/app.env and the
// defaults, in that order.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config.LoadConfig: reading .env: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("server_port", "8080")
	v.SetDefault("database_url", "")
	v.SetDefault("redis_url", "")
	v.SetDefault("draft_backend", BackendMemory)
	v.SetDefault("draft_ttl", 30*24*time.Hour)
	v.SetDefault("jwt_secret", "")
	v.SetDefault("client_origin", "http://localhost:5173")
	v.SetDefault("public_base_url", "http://localhost:5173")
	v.SetDefault("autosave_delay", 3*time.Second)
	v.SetDefault("session_idle_timeout", 30*time.Minute)
	v.SetDefault("catalog_latency", time.Duration(0))
	v.SetDefault("aws_region", "eu-central-1")
	v.SetDefault("email_from", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("search_rate_limit", 5.0)
	v.SetDefault("pdf_font_file", "")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config.LoadConfig: reading app.env: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config.LoadConfig: %w", err)
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that have no usable default.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("config: DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	switch c.DraftBackend {
	case BackendMemory, BackendPostgres:
	case BackendRedis:
		if c.RedisURL == "" {
			return errors.New("config: REDIS_URL is required for the redis draft backend")
		}
	default:
		return fmt.Errorf("config: unknown DRAFT_BACKEND %q", c.DraftBackend)
	}
	if c.AutosaveDelay <= 0 {
		return fmt.Errorf("config: AUTOSAVE_DELAY must be positive, got %s", c.AutosaveDelay)
	}
	if c.CatalogLatency < 0 {
		return fmt.Errorf("config: CATALOG_LATENCY must not be negative, got %s", c.CatalogLatency)
	}
	if c.SearchRateLimit <= 0 {
		return fmt.Errorf("config: SEARCH_RATE_LIMIT must be positive, got %v", c.SearchRateLimit)
	}
	return nil
}
