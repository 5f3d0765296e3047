// ABOUTME: Configuration management for the application with YAML, .env and environment support
// ABOUTME: Analytics options follow the MAI_ANALYTICS_* constants, which override the options file

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	coreconfig "mai-analytics-api/core/config"
	"mai-analytics-api/pkg/utils/parse"
)

// Analytics environment constants. Each overrides the matching options file key.
const (
	EnvEnabled       = "MAI_ANALYTICS"
	EnvEnabledAdmin  = "MAI_ANALYTICS_ADMIN"
	EnvDebug         = "MAI_ANALYTICS_DEBUG"
	EnvSiteID        = "MAI_ANALYTICS_SITE_ID"
	EnvURL           = "MAI_ANALYTICS_URL"
	EnvToken         = "MAI_ANALYTICS_TOKEN"
	EnvTrendingDays  = "MAI_ANALYTICS_TRENDING_DAYS"
	EnvViewsDays     = "MAI_ANALYTICS_VIEWS_DAYS"
	EnvViewsInterval = "MAI_ANALYTICS_VIEWS_INTERVAL"
)

// Store backends
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig `yaml:"server"`

	// Store contains view metric storage configuration
	Store StoreConfig `yaml:"store"`

	// Analytics contains the analytics options
	Analytics AnalyticsOptions `yaml:"analytics"`

	// Log contains logging configuration
	Log LogConfig `yaml:"log"`

	// Nonce contains refresh nonce configuration
	Nonce NonceConfig `yaml:"nonce"`

	// HTTP contains outbound HTTP client configuration
	HTTP HTTPConfig `yaml:"http"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string `yaml:"port"`

	// RateLimit is the number of requests per second allowed per client, 0 disables limiting
	RateLimit float64 `yaml:"rate_limit"`

	// RateBurst is the burst size of the per-client limiter
	RateBurst int `yaml:"rate_burst"`

	// Metrics exposes Prometheus metrics at /metrics
	Metrics bool `yaml:"metrics"`
}

// StoreConfig holds view metric storage configuration
type StoreConfig struct {
	// Type specifies the backend (memory/sqlite/redis)
	Type string `yaml:"type"`

	// CacheTTL is the read cache lifetime in seconds, 0 disables the read cache
	CacheTTL int `yaml:"cache_ttl"`

	// Redis contains Redis-specific configuration
	Redis RedisConfig `yaml:"redis"`

	// SQLite contains SQLite-specific configuration
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string `yaml:"address"`

	// Password is the Redis authentication password
	Password string `yaml:"password"`

	// DB is the Redis database number
	DB int `yaml:"db"`
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	// Path is the database file
	Path string `yaml:"path"`
}

// AnalyticsOptions mirrors the analytics options keys
type AnalyticsOptions struct {
	Enabled       bool   `yaml:"enabled"`
	EnabledAdmin  bool   `yaml:"enabled_admin"`
	Debug         bool   `yaml:"debug"`
	SiteID        int    `yaml:"site_id"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	TrendingDays  int    `yaml:"trending_days"`
	ViewsDays     int    `yaml:"views_days"`
	ViewsInterval int    `yaml:"views_interval"`
}

// Core converts the options to the settings used by the core services
func (a AnalyticsOptions) Core() coreconfig.AnalyticsConfig {
	return coreconfig.AnalyticsConfig{
		Enabled:       a.Enabled,
		EnabledAdmin:  a.EnabledAdmin,
		Debug:         a.Debug,
		SiteID:        a.SiteID,
		URL:           a.URL,
		Token:         a.Token,
		ViewsDays:     a.ViewsDays,
		TrendingDays:  a.TrendingDays,
		ViewsInterval: a.ViewsInterval,
	}
}

// LogConfig holds logging configuration
type LogConfig struct {
	// Level is the minimum level (debug/info/warn/error)
	Level string `yaml:"level"`

	// File is an optional log file, rotated by size. Empty logs to stderr.
	File string `yaml:"file"`

	// MaxSizeMB is the size at which the log file is rotated
	MaxSizeMB int `yaml:"max_size_mb"`

	// MaxBackups is the number of rotated files kept
	MaxBackups int `yaml:"max_backups"`

	// MaxAgeDays is the age after which rotated files are removed
	MaxAgeDays int `yaml:"max_age_days"`
}

// NonceConfig holds refresh nonce configuration
type NonceConfig struct {
	// Secret keys the nonce MAC. Empty means a random per-process secret.
	Secret string `yaml:"secret"`

	// LifetimeHours is how long a nonce stays valid
	LifetimeHours int `yaml:"lifetime_hours"`
}

// HTTPConfig holds outbound HTTP client configuration
type HTTPConfig struct {
	// TimeoutSeconds bounds each analytics request
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// Retries is the number of retries on 5xx responses
	Retries int `yaml:"retries"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:      "8000",
			RateLimit: 5,
			RateBurst: 10,
			Metrics:   true,
		},
		Store: StoreConfig{
			Type:     StoreMemory,
			CacheTTL: 60,
			Redis: RedisConfig{
				Address: "localhost:6379",
			},
			SQLite: SQLiteConfig{
				Path: "mai-analytics.db",
			},
		},
		Analytics: AnalyticsOptions{
			TrendingDays:  30,
			ViewsDays:     365,
			ViewsInterval: 60,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Nonce: NonceConfig{
			LifetimeHours: 24,
		},
		HTTP: HTTPConfig{
			TimeoutSeconds: 30,
		},
	}
}

// LoadFromEnv loads configuration from the environment and an optional .env file
func LoadFromEnv() (*Config, error) {
	return Load("")
}

// Load builds the configuration: defaults, then the YAML options file at path
// (skipped when empty), then .env files, then environment variables, then
// sanitizing. envFiles defaults to ".env" when present.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := loadDotEnv(envFiles); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.sanitize()

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// loadDotEnv loads variables that are not already set in the environment
func loadDotEnv(files []string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnvOrDefault("PORT", c.Server.Port)
	c.Server.RateLimit = getEnvAsFloatOrDefault("RATE_LIMIT", c.Server.RateLimit)
	c.Server.RateBurst = getEnvAsIntOrDefault("RATE_BURST", c.Server.RateBurst)
	c.Server.Metrics = getEnvAsBoolOrDefault("METRICS_ENABLED", c.Server.Metrics)

	c.Store.Type = getEnvOrDefault("STORE_TYPE", c.Store.Type)
	c.Store.CacheTTL = getEnvAsIntOrDefault("STORE_CACHE_TTL", c.Store.CacheTTL)
	c.Store.Redis.Address = getEnvOrDefault("REDIS_ADDRESS", c.Store.Redis.Address)
	c.Store.Redis.Password = getEnvOrDefault("REDIS_PASSWORD", c.Store.Redis.Password)
	c.Store.Redis.DB = getEnvAsIntOrDefault("REDIS_DB", c.Store.Redis.DB)
	c.Store.SQLite.Path = getEnvOrDefault("SQLITE_PATH", c.Store.SQLite.Path)

	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)
	c.Log.File = getEnvOrDefault("LOG_FILE", c.Log.File)

	c.Nonce.Secret = getEnvOrDefault("NONCE_SECRET", c.Nonce.Secret)
	c.Nonce.LifetimeHours = getEnvAsIntOrDefault("NONCE_LIFETIME_HOURS", c.Nonce.LifetimeHours)

	c.HTTP.TimeoutSeconds = getEnvAsIntOrDefault("HTTP_TIMEOUT", c.HTTP.TimeoutSeconds)
	c.HTTP.Retries = getEnvAsIntOrDefault("HTTP_RETRIES", c.HTTP.Retries)

	a := &c.Analytics
	a.Enabled = getEnvAsBoolOrDefault(EnvEnabled, a.Enabled)
	a.EnabledAdmin = getEnvAsBoolOrDefault(EnvEnabledAdmin, a.EnabledAdmin)
	a.Debug = getEnvAsBoolOrDefault(EnvDebug, a.Debug)
	a.SiteID = getEnvAsAbsIntOrDefault(EnvSiteID, a.SiteID)
	a.URL = getEnvOrDefault(EnvURL, a.URL)
	a.Token = getEnvOrDefault(EnvToken, a.Token)
	a.TrendingDays = getEnvAsAbsIntOrDefault(EnvTrendingDays, a.TrendingDays)
	a.ViewsDays = getEnvAsAbsIntOrDefault(EnvViewsDays, a.ViewsDays)
	a.ViewsInterval = getEnvAsAbsIntOrDefault(EnvViewsInterval, a.ViewsInterval)
}

func (c *Config) sanitize() {
	a := &c.Analytics
	a.SiteID = absInt(a.SiteID)
	a.TrendingDays = absInt(a.TrendingDays)
	a.ViewsDays = absInt(a.ViewsDays)
	a.ViewsInterval = absInt(a.ViewsInterval)
	a.URL = sanitizeURL(a.URL)
	a.Token = sanitizeKey(a.Token)

	c.Store.Type = strings.ToLower(strings.TrimSpace(c.Store.Type))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
}

// sanitizeURL keeps http(s) URLs only and appends a trailing slash
func sanitizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	s := u.String()
	if !strings.HasSuffix(s, "/") {
		s += "/"
	}
	return s
}

// sanitizeKey lowercases and keeps only [a-z0-9_-]
func sanitizeKey(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsAbsIntOrDefault parses leading digits the way the options sanitizer does
func getEnvAsAbsIntOrDefault(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(key); ok {
		return int(parse.AbsInt(value))
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvAsBoolOrDefault treats "", "0", "false", "no" and "off" as false and
// any other set value as true
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "0", "false", "no", "off":
		return false
	}
	return true
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	if c.Server.RateLimit < 0 {
		return errors.New("rate limit cannot be negative")
	}

	switch c.Store.Type {
	case StoreMemory:
	case StoreSQLite:
		if c.Store.SQLite.Path == "" {
			return errors.New("sqlite path cannot be empty when using sqlite store")
		}
	case StoreRedis:
		if c.Store.Redis.Address == "" {
			return errors.New("redis address cannot be empty when using redis store")
		}
	default:
		return errors.New("store type must be 'memory', 'sqlite' or 'redis'")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}

	if c.Nonce.LifetimeHours < 1 {
		return errors.New("nonce lifetime must be at least 1 hour")
	}

	if c.HTTP.TimeoutSeconds < 1 {
		return errors.New("http timeout must be at least 1 second")
	}

	return nil
}
