package ratelimit

import (
	"time"

	"github.com/jonathan/skilltree-advisor/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// NewConfig builds a limiter configuration from service settings.
func NewConfig(settings config.RateLimitConfig) *Config {
	if !settings.Enabled {
		return &Config{Enabled: false}
	}

	whitelist := make(map[string]bool, len(settings.Whitelist))
	for _, ip := range settings.Whitelist {
		if ip != "" {
			whitelist[ip] = true
		}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    settings.RequestsPerMinute,
		DefaultWindow:   time.Minute,
		DefaultBurst:    settings.Burst,
		CleanupInterval: 5 * time.Minute,
		Whitelist:       whitelist,
		Blacklist:       make(map[string]bool),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Writes: quiz submissions and saved results re-embed and re-score.
		{Path: "/students/", Method: "POST", Limit: 10, Window: time.Hour, Burst: 5},
		{Path: "/students/", Method: "DELETE", Limit: 60, Window: time.Minute, Burst: 10},

		// Reads use the default limit; /health is unlimited (see MatchEndpoint).
	}
}
