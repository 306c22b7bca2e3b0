package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tradejournal/ledger"
)

// Config represents the complete journal configuration
type Config struct {
	Ledger   LedgerConfig  `json:"ledger" yaml:"ledger"`
	Journal  JournalConfig `json:"journal" yaml:"journal"`
	Server   ServerConfig  `json:"server" yaml:"server"`
	Log      LogConfig     `json:"log" yaml:"log"`
	Timezone string        `json:"timezone,omitempty" yaml:"timezone,omitempty"`
}

// LedgerConfig contains accounting parameters
type LedgerConfig struct {
	MinTick float64 `json:"min_tick" yaml:"min_tick"`
	Epsilon float64 `json:"epsilon" yaml:"epsilon"`
}

// JournalConfig selects and configures the entry store
type JournalConfig struct {
	Type        string `json:"type" yaml:"type"` // "memory", "sqlite" or "postgres"
	DBPath      string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"`
	RedisURL    string `json:"redis_url,omitempty" yaml:"redis_url,omitempty"`
	CacheTTL    string `json:"cache_ttl,omitempty" yaml:"cache_ttl,omitempty"` // e.g. "30s"
	User        string `json:"user" yaml:"user"`
}

// ServerConfig contains HTTP API parameters
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// LogConfig contains logging parameters
type LogConfig struct {
	Level       string `json:"level" yaml:"level"`
	Development bool   `json:"development" yaml:"development"`
}

// ParseCacheTTL converts the cache TTL string to time.Duration
func (jc JournalConfig) ParseCacheTTL() (time.Duration, error) {
	if jc.CacheTTL == "" {
		return 30 * time.Second, nil
	}
	return time.ParseDuration(jc.CacheTTL)
}

// LedgerOptions converts the ledger section into reconstruction options.
func (c *Config) LedgerOptions() ledger.Options {
	opts := ledger.DefaultOptions()
	if c.Ledger.MinTick > 0 {
		opts.MinTick = c.Ledger.MinTick
	}
	if c.Ledger.Epsilon > 0 {
		opts.Epsilon = c.Ledger.Epsilon
	}
	return opts
}

// Location resolves Timezone; empty or "Local" is the host zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}
	return loc, nil
}

// LoadFromFile loads configuration from a file (JSON or YAML)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Load reads path when it is set, otherwise starts from Default, then
// applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		cfg, err = LoadFromFile(path)
		if err != nil {
			return nil, err
		}
	}
	LoadEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadEnv loads a .env file if present and applies TRADEJOURNAL_*
// overrides to cfg.
func LoadEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("TRADEJOURNAL_DB_PATH"); v != "" {
		cfg.Journal.DBPath = v
		if cfg.Journal.Type == "memory" {
			cfg.Journal.Type = "sqlite"
		}
	}
	if v := os.Getenv("TRADEJOURNAL_DATABASE_URL"); v != "" {
		cfg.Journal.DatabaseURL = v
		cfg.Journal.Type = "postgres"
	}
	if v := os.Getenv("TRADEJOURNAL_REDIS_URL"); v != "" {
		cfg.Journal.RedisURL = v
	}
	if v := os.Getenv("TRADEJOURNAL_USER"); v != "" {
		cfg.Journal.User = v
	}
	if v := os.Getenv("TRADEJOURNAL_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("TRADEJOURNAL_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TRADEJOURNAL_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Ledger.MinTick < 0.1 || c.Ledger.MinTick > 0.5 {
		return fmt.Errorf("ledger.min_tick must be between 0.1 and 0.5")
	}
	if c.Ledger.Epsilon <= 0 || c.Ledger.Epsilon >= 0.01 {
		return fmt.Errorf("ledger.epsilon must be positive and below 0.01")
	}
	switch c.Journal.Type {
	case "memory":
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for sqlite type")
		}
	case "postgres":
		if c.Journal.DatabaseURL == "" {
			return fmt.Errorf("journal database_url required for postgres type")
		}
	default:
		return fmt.Errorf("journal.type must be 'memory', 'sqlite' or 'postgres'")
	}
	if _, err := c.Journal.ParseCacheTTL(); err != nil {
		return fmt.Errorf("journal.cache_ttl: %w", err)
	}
	if c.Journal.User == "" {
		return fmt.Errorf("journal.user is required")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Ledger: LedgerConfig{
			MinTick: ledger.DefaultMinTick,
			Epsilon: ledger.DefaultEpsilon,
		},
		Journal: JournalConfig{
			Type:     "sqlite",
			DBPath:   "./tradejournal.sqlite",
			CacheTTL: "30s",
			User:     "default",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level: "info",
		},
		Timezone: "Local",
	}
}
