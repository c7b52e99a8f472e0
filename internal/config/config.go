package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends for persisted decks
const (
	StorageMemory     = "memory"
	StorageFile       = "file"
	StorageSQLite     = "sqlite"
	StorageSQLitePure = "sqlite-pure"
	StoragePostgres   = "postgres"
)

// Card renderers
const (
	RendererText     = "text"
	RendererTerminal = "terminal"
	RendererTile     = "tile"
)

// Config holds all configuration for the application
type Config struct {
	// Discord configuration. The bot is only started when Token is set.
	Token   string
	AppID   string
	GuildID string

	// Environment
	Environment string // "development" or "production"
	LogLevel    string

	// Deck storage
	DataDir     string
	StorageType string
	DatabaseURL string

	// Draw history
	ElasticsearchURL      string
	ElasticsearchUsername string
	ElasticsearchPassword string
	IndexPrefix           string
	HistoryRetention      time.Duration

	// Live draw feed; empty disables it
	FeedAddr string

	// Card rendering
	Renderer  string
	AssetPath string
}

// Load reads the configuration from a .env file, if present, and the environment
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Only return error if file exists but couldn't be loaded
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		return nil, err
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// LoadFile reads the configuration from a single env file, ignoring the process environment
func LoadFile(path string) (*Config, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	return FromEnv(func(key string) string { return values[key] })
}

// FromEnv builds a config from the given lookup function
func FromEnv(getenv func(string) string) (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	get := func(key, defaultValue string) string {
		if value := strings.TrimSpace(getenv(key)); value != "" {
			return value
		}
		return defaultValue
	}

	cfg := &Config{
		Token:                 get("DISCORD_TOKEN", ""),
		AppID:                 get("APP_ID", ""),
		GuildID:               get("GUILD_ID", ""),
		Environment:           get("ENVIRONMENT", "development"),
		LogLevel:              get("LOG_LEVEL", "info"),
		DataDir:               get("DATA_DIR", filepath.Join(wd, "data")),
		StorageType:           strings.ToLower(get("STORAGE_TYPE", StorageMemory)),
		DatabaseURL:           get("DATABASE_URL", ""),
		ElasticsearchURL:      get("ELASTICSEARCH_URL", ""),
		ElasticsearchUsername: get("ELASTICSEARCH_USERNAME", ""),
		ElasticsearchPassword: get("ELASTICSEARCH_PASSWORD", ""),
		IndexPrefix:           get("ELASTICSEARCH_INDEX_PREFIX", "carddeck"),
		FeedAddr:              get("FEED_ADDR", ""),
		Renderer:              strings.ToLower(get("RENDERER", RendererText)),
		AssetPath:             get("ASSET_PATH", "/assets"),
	}

	retention, err := time.ParseDuration(get("HISTORY_RETENTION", "168h"))
	if err != nil {
		return nil, fmt.Errorf("invalid HISTORY_RETENTION: %w", err)
	}
	cfg.HistoryRetention = retention

	if cfg.DatabaseURL == "" {
		switch cfg.StorageType {
		case StorageSQLite, StorageSQLitePure:
			cfg.DatabaseURL = filepath.Join(cfg.DataDir, "carddeck.db")
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks if all required configuration is present
func (c *Config) validate() error {
	if c.Token != "" && c.AppID == "" {
		return fmt.Errorf("APP_ID is required when DISCORD_TOKEN is set")
	}

	switch c.StorageType {
	case StorageMemory, StorageFile, StorageSQLite, StorageSQLitePure:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for postgres storage")
		}
	default:
		return fmt.Errorf("unknown STORAGE_TYPE %q", c.StorageType)
	}

	switch c.Renderer {
	case RendererText, RendererTerminal, RendererTile:
	default:
		return fmt.Errorf("unknown RENDERER %q", c.Renderer)
	}

	if c.HistoryRetention < 0 {
		return fmt.Errorf("HISTORY_RETENTION must not be negative")
	}
	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// BotEnabled reports whether a Discord token was configured
func (c *Config) BotEnabled() bool {
	return c.Token != ""
}

// HistoryEnabled reports whether draws are indexed in Elasticsearch
func (c *Config) HistoryEnabled() bool {
	return c.ElasticsearchURL != ""
}
