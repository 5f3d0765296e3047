package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, StoreMemory, cfg.Store.Type)
	assert.False(t, cfg.Analytics.Enabled)
	assert.Equal(t, 365, cfg.Analytics.ViewsDays)
	assert.Equal(t, 30, cfg.Analytics.TrendingDays)
	assert.Equal(t, 60, cfg.Analytics.ViewsInterval)
	assert.Equal(t, 24, cfg.Nonce.LifetimeHours)
	assert.Equal(t, 30, cfg.HTTP.TimeoutSeconds)
	assert.Equal(t, 0, cfg.HTTP.Retries)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv_ServerSettings(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name:    "uses PORT env var when set",
			envVars: map[string]string{"PORT": "3000"},
			check:   func(t *testing.T, cfg *Config) { assert.Equal(t, "3000", cfg.Server.Port) },
		},
		{
			name:    "store type is lowercased",
			envVars: map[string]string{"STORE_TYPE": " SQLite "},
			check:   func(t *testing.T, cfg *Config) { assert.Equal(t, StoreSQLite, cfg.Store.Type) },
		},
		{
			name:    "invalid integer keeps default",
			envVars: map[string]string{"REDIS_DB": "not-a-number"},
			check:   func(t *testing.T, cfg *Config) { assert.Equal(t, 0, cfg.Store.Redis.DB) },
		},
		{
			name:    "rate limit parsed as float",
			envVars: map[string]string{"RATE_LIMIT": "0.5"},
			check:   func(t *testing.T, cfg *Config) { assert.Equal(t, 0.5, cfg.Server.RateLimit) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := LoadFromEnv()
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoad_AnalyticsConstantsOverrideFile(t *testing.T) {
	os.Clearenv()
	path := writeFile(t, "options.yaml", `
analytics:
  enabled: false
  site_id: 4
  url: https://file.example.com
  token: FileToken
  views_days: 90
store:
  type: sqlite
  sqlite:
    path: /tmp/views.db
`)
	t.Setenv(EnvEnabled, "1")
	t.Setenv(EnvSiteID, "12")
	t.Setenv(EnvViewsInterval, "-15")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Analytics.Enabled)
	assert.Equal(t, 12, cfg.Analytics.SiteID)
	assert.Equal(t, "https://file.example.com/", cfg.Analytics.URL)
	assert.Equal(t, "filetoken", cfg.Analytics.Token)
	assert.Equal(t, 90, cfg.Analytics.ViewsDays)
	assert.Equal(t, 30, cfg.Analytics.TrendingDays)
	assert.Equal(t, 15, cfg.Analytics.ViewsInterval)
	assert.Equal(t, StoreSQLite, cfg.Store.Type)
	assert.Equal(t, "/tmp/views.db", cfg.Store.SQLite.Path)

	core := cfg.Analytics.Core()
	assert.True(t, core.Enabled)
	assert.True(t, core.HasCredentials())
	assert.Equal(t, 15*time.Minute, core.Interval())
	assert.Equal(t, 90, core.ViewsDays)
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	os.Clearenv()
	envFile := writeFile(t, ".env", "MAI_ANALYTICS_TOKEN=fromfile\nMAI_ANALYTICS_URL=https://stats.example.com/matomo\n")
	t.Setenv(EnvToken, "fromenv")

	cfg, err := Load("", envFile)
	require.NoError(t, err)

	assert.Equal(t, "fromenv", cfg.Analytics.Token)
	assert.Equal(t, "https://stats.example.com/matomo/", cfg.Analytics.URL)
}

func TestLoad_Errors(t *testing.T) {
	os.Clearenv()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := writeFile(t, "bad.yaml", "analytics: [unclosed")
	_, err = Load(bad)
	assert.Error(t, err)

	_, err = Load("", filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestSanitizeURL(t *testing.T) {
	assert.Equal(t, "", sanitizeURL(""))
	assert.Equal(t, "", sanitizeURL("javascript:alert(1)"))
	assert.Equal(t, "", sanitizeURL("stats.example.com"))
	assert.Equal(t, "https://stats.example.com/", sanitizeURL(" https://stats.example.com "))
	assert.Equal(t, "https://stats.example.com/m/", sanitizeURL("https://stats.example.com/m/"))
}

func TestSanitizeKey(t *testing.T) {
	assert.Equal(t, "abc_12-3", sanitizeKey("ABC_12-3"))
	assert.Equal(t, "abc", sanitizeKey("a b!c"))
}

func TestGetEnvAsBoolOrDefault(t *testing.T) {
	os.Clearenv()
	assert.True(t, getEnvAsBoolOrDefault("FLAG", true))

	for _, v := range []string{"", "0", "false", "No", "off"} {
		t.Setenv("FLAG", v)
		assert.False(t, getEnvAsBoolOrDefault("FLAG", true), v)
	}
	for _, v := range []string{"1", "true", "yes"} {
		t.Setenv("FLAG", v)
		assert.True(t, getEnvAsBoolOrDefault("FLAG", false), v)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid config", func(*Config) {}, ""},
		{"empty port", func(c *Config) { c.Server.Port = "" }, "port cannot be empty"},
		{"negative rate", func(c *Config) { c.Server.RateLimit = -1 }, "rate limit cannot be negative"},
		{"invalid store type", func(c *Config) { c.Store.Type = "mysql" }, "store type must be 'memory', 'sqlite' or 'redis'"},
		{"redis without address", func(c *Config) { c.Store.Type = StoreRedis; c.Store.Redis.Address = "" }, "redis address cannot be empty when using redis store"},
		{"sqlite without path", func(c *Config) { c.Store.Type = StoreSQLite; c.Store.SQLite.Path = "" }, "sqlite path cannot be empty when using sqlite store"},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, `unknown log level "verbose"`},
		{"zero nonce lifetime", func(c *Config) { c.Nonce.LifetimeHours = 0 }, "nonce lifetime must be at least 1 hour"},
		{"zero timeout", func(c *Config) { c.HTTP.TimeoutSeconds = 0 }, "http timeout must be at least 1 second"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.errMsg, err.Error())
		})
	}
}
