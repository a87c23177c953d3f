// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Defaults applied by MergeWithDefaults when a field is left empty.
const (
	DefaultPort      = 8080
	DefaultQueueName = "career_analysis"
	DefaultCacheTTL  = 15 * time.Minute
	DefaultLogMode   = "dev"
)

// Config represents the configuration that can be loaded from a JSON file and
// overlaid with environment variables. All fields are optional; CLI flags win
// over both.
type Config struct {
	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	SQLitePath  string `json:"sqlite_path,omitempty"`  // SQLite file used when no database_url is set
	RedisAddr   string `json:"redis_addr,omitempty"`   // Redis address for the analysis cache
	CacheTTL    string `json:"cache_ttl,omitempty"`    // Analysis cache TTL, Go duration syntax

	// Messaging
	AMQPURL   string `json:"amqp_url,omitempty"`   // RabbitMQ URL for the analysis worker
	QueueName string `json:"queue_name,omitempty"` // Queue consumed by the worker

	// Catalogs
	CatalogDir string `json:"catalog_dir,omitempty"` // Directory overriding the embedded catalogs

	// Server
	Port    int    `json:"port,omitempty"`
	LogMode string `json:"log_mode,omitempty"` // "dev" or "prod"

	// Assistant
	APIKey string `json:"api_key,omitempty"` // Gemini API key
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv returns a copy of c with every environment variable that is set
// taking precedence over the file value.
func (c *Config) FromEnv() Config {
	result := *c

	overlay := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	overlay(&result.DatabaseURL, "DATABASE_URL")
	overlay(&result.SQLitePath, "SQLITE_PATH")
	overlay(&result.RedisAddr, "REDIS_ADDR")
	overlay(&result.CacheTTL, "CACHE_TTL")
	overlay(&result.AMQPURL, "AMQP_URL")
	overlay(&result.QueueName, "QUEUE_NAME")
	overlay(&result.CatalogDir, "CATALOG_DIR")
	overlay(&result.LogMode, "LOG_MODE")
	overlay(&result.APIKey, "GEMINI_API_KEY")

	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			result.Port = port
		}
	}

	return result
}

// Validate checks that the configuration has valid values.
// Required fields are checked by the commands that need them.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	if c.CacheTTL != "" {
		ttl, err := time.ParseDuration(c.CacheTTL)
		if err != nil {
			return fmt.Errorf("config error: invalid 'cache_ttl': %w", err)
		}
		if ttl < 0 {
			return fmt.Errorf("config error: 'cache_ttl' must be non-negative")
		}
	}

	switch strings.ToLower(c.LogMode) {
	case "", "dev", "development", "prod", "production":
	default:
		return fmt.Errorf("config error: unknown 'log_mode' %q", c.LogMode)
	}

	if c.CatalogDir != "" {
		info, err := os.Stat(c.CatalogDir)
		if err != nil {
			return fmt.Errorf("config error: catalog directory not found: %s", c.CatalogDir)
		}
		if !info.IsDir() {
			return fmt.Errorf("config error: 'catalog_dir' is not a directory: %s", c.CatalogDir)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults, then from the package defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	mergeString := func(dst *string, def, fallback string) {
		if *dst != "" {
			return
		}
		if def != "" {
			*dst = def
			return
		}
		*dst = fallback
	}

	mergeString(&result.DatabaseURL, defaults.DatabaseURL, "")
	mergeString(&result.SQLitePath, defaults.SQLitePath, "")
	mergeString(&result.RedisAddr, defaults.RedisAddr, "")
	mergeString(&result.CacheTTL, defaults.CacheTTL, DefaultCacheTTL.String())
	mergeString(&result.AMQPURL, defaults.AMQPURL, "")
	mergeString(&result.QueueName, defaults.QueueName, DefaultQueueName)
	mergeString(&result.CatalogDir, defaults.CatalogDir, "")
	mergeString(&result.LogMode, defaults.LogMode, DefaultLogMode)
	mergeString(&result.APIKey, defaults.APIKey, "")

	if result.Port == 0 {
		if defaults.Port > 0 {
			result.Port = defaults.Port
		} else {
			result.Port = DefaultPort
		}
	}

	return result
}

// CacheTTLDuration parses CacheTTL, falling back to DefaultCacheTTL when it
// is empty or invalid.
func (c *Config) CacheTTLDuration() time.Duration {
	if c.CacheTTL == "" {
		return DefaultCacheTTL
	}
	ttl, err := time.ParseDuration(c.CacheTTL)
	if err != nil || ttl < 0 {
		return DefaultCacheTTL
	}
	return ttl
}
