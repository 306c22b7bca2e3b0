package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
	assert.Equal(t, 0.5, cfg.Ledger.MinTick)
	assert.Equal(t, 1e-6, cfg.Ledger.Epsilon)
	assert.Equal(t, "default", cfg.Journal.User)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := func(mod func(c *Config)) *Config {
		c := Default()
		mod(c)
		return c
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			config:  Default(),
			wantErr: false,
		},
		{
			name:    "memory store",
			config:  valid(func(c *Config) { c.Journal.Type = "memory"; c.Journal.DBPath = "" }),
			wantErr: false,
		},
		{
			name:    "min tick too small",
			config:  valid(func(c *Config) { c.Ledger.MinTick = 0.01 }),
			wantErr: true,
			errMsg:  "ledger.min_tick must be between 0.1 and 0.5",
		},
		{
			name:    "zero epsilon",
			config:  valid(func(c *Config) { c.Ledger.Epsilon = 0 }),
			wantErr: true,
			errMsg:  "ledger.epsilon",
		},
		{
			name:    "unknown store",
			config:  valid(func(c *Config) { c.Journal.Type = "firestore" }),
			wantErr: true,
			errMsg:  "journal.type must be",
		},
		{
			name:    "sqlite without path",
			config:  valid(func(c *Config) { c.Journal.DBPath = "" }),
			wantErr: true,
			errMsg:  "journal db_path required",
		},
		{
			name:    "postgres without url",
			config:  valid(func(c *Config) { c.Journal.Type = "postgres" }),
			wantErr: true,
			errMsg:  "journal database_url required",
		},
		{
			name:    "bad cache ttl",
			config:  valid(func(c *Config) { c.Journal.CacheTTL = "soon" }),
			wantErr: true,
			errMsg:  "journal.cache_ttl",
		},
		{
			name:    "missing user",
			config:  valid(func(c *Config) { c.Journal.User = "" }),
			wantErr: true,
			errMsg:  "journal.user is required",
		},
		{
			name:    "bad timezone",
			config:  valid(func(c *Config) { c.Timezone = "Mars/Olympus" }),
			wantErr: true,
			errMsg:  "timezone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Ledger.MinTick = 0.1
			cfg.Journal.User = "alice"
			path := filepath.Join(tmpDir, "test"+tt.ext)

			err := cfg.SaveToFile(path)
			require.NoError(t, err)

			_, err = os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)

			assert.Equal(t, cfg.Ledger, loaded.Ledger)
			assert.Equal(t, cfg.Journal, loaded.Journal)
			assert.Equal(t, cfg.Server, loaded.Server)
		})
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("journal:\n  type: memory\n  user: bob\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Journal.Type)
	assert.Equal(t, "bob", cfg.Journal.User)
	assert.Equal(t, 0.5, cfg.Ledger.MinTick)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TRADEJOURNAL_DATABASE_URL", "postgres://localhost/journal")
	t.Setenv("TRADEJOURNAL_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("TRADEJOURNAL_ADDR", ":9090")
	t.Setenv("TRADEJOURNAL_USER", "carol")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Journal.Type)
	assert.Equal(t, "postgres://localhost/journal", cfg.Journal.DatabaseURL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Journal.RedisURL)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "carol", cfg.Journal.User)
}

func TestLedgerOptions(t *testing.T) {
	cfg := Default()
	cfg.Ledger.MinTick = 0.1
	opts := cfg.LedgerOptions()
	assert.Equal(t, 0.1, opts.MinTick)
	assert.Equal(t, 1e-6, opts.Epsilon)
}

func TestParseCacheTTL(t *testing.T) {
	tests := []struct {
		ttl      string
		expected string
		wantErr  bool
	}{
		{"1m", "1m0s", false},
		{"30s", "30s", false},
		{"", "30s", false},
		{"invalid", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.ttl, func(t *testing.T) {
			jc := JournalConfig{CacheTTL: tt.ttl}
			d, err := jc.ParseCacheTTL()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, d.String())
			}
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := Default()
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	cfg.Timezone = "UTC"
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}
