// Package config provides configuration loading and validation for the
// service and CLI.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultPort              = 8080
	DefaultSQLitePath        = "skilltree.db"
	DefaultCacheTTL          = time.Hour
	DefaultCacheMaxEntries   = 10000
	DefaultRequestsPerMinute = 120
	DefaultBurst             = 20
	envPrefix                = "SKILLTREE"
)

// Config is the service configuration. Values come from (highest first)
// bound flags, environment variables, the optional config file and defaults.
type Config struct {
	Port int `mapstructure:"port"`

	// Storage. DatabaseURL selects PostgreSQL; otherwise SQLitePath is used.
	DatabaseURL string `mapstructure:"database-url"`
	SQLitePath  string `mapstructure:"sqlite-path"`

	// Recommendation cache. An empty RedisURL keeps the cache in-process.
	RedisURL        string        `mapstructure:"redis-url"`
	CacheTTL        time.Duration `mapstructure:"cache-ttl"`
	CacheMaxEntries int           `mapstructure:"cache-max-entries"`

	// Bearer auth is disabled when JWTSecret is empty.
	JWTSecret string        `mapstructure:"jwt-secret"`
	JWTLeeway time.Duration `mapstructure:"jwt-leeway"`

	RateLimit RateLimitConfig `mapstructure:"rate-limit"`
	Log       LogConfig       `mapstructure:"log"`
}

// RateLimitConfig configures per-client request limits.
type RateLimitConfig struct {
	Enabled           bool     `mapstructure:"enabled"`
	RequestsPerMinute int      `mapstructure:"requests-per-minute"`
	Burst             int      `mapstructure:"burst"`
	Whitelist         []string `mapstructure:"whitelist"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", DefaultPort)
	v.SetDefault("database-url", "")
	v.SetDefault("sqlite-path", DefaultSQLitePath)
	v.SetDefault("redis-url", "")
	v.SetDefault("cache-ttl", DefaultCacheTTL)
	v.SetDefault("cache-max-entries", DefaultCacheMaxEntries)
	v.SetDefault("jwt-secret", "")
	v.SetDefault("jwt-leeway", 30*time.Second)
	v.SetDefault("rate-limit.enabled", true)
	v.SetDefault("rate-limit.requests-per-minute", DefaultRequestsPerMinute)
	v.SetDefault("rate-limit.burst", DefaultBurst)
	v.SetDefault("rate-limit.whitelist", []string{})
	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
}

// BindEnv maps SKILLTREE_* variables onto keys ("rate-limit.burst" reads
// SKILLTREE_RATE_LIMIT_BURST) and accepts the plain names DATABASE_URL,
// REDIS_URL, JWT_SECRET and PORT as fallbacks.
func BindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	plain := map[string]string{
		"database-url": "DATABASE_URL",
		"redis-url":    "REDIS_URL",
		"jwt-secret":   "JWT_SECRET",
		"port":         "PORT",
	}
	for key, name := range plain {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
		if err := v.BindEnv(key, prefixed, name); err != nil {
			return fmt.Errorf("binding %s environment variable: %w", name, err)
		}
	}
	return nil
}

// Load reads configuration into a Config. path may be empty, in which case
// only defaults, environment and flags already bound on v apply.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)
	if err := BindEnv(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535, got %d", c.Port)
	}
	if c.DatabaseURL == "" && c.SQLitePath == "" {
		return fmt.Errorf("config error: one of 'database-url' or 'sqlite-path' is required")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("config error: 'cache-ttl' must be non-negative")
	}
	if c.CacheMaxEntries < 0 {
		return fmt.Errorf("config error: 'cache-max-entries' must be non-negative")
	}
	if c.JWTLeeway < 0 {
		return fmt.Errorf("config error: 'jwt-leeway' must be non-negative")
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerMinute < 1 {
			return fmt.Errorf("config error: 'rate-limit.requests-per-minute' must be at least 1")
		}
		if c.RateLimit.Burst < 1 {
			return fmt.Errorf("config error: 'rate-limit.burst' must be at least 1")
		}
	}
	return nil
}

// UsePostgres reports whether the PostgreSQL store is configured.
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}
