package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the product gateway service
type Config struct {
	// Server
	Port        string
	Environment string

	// Upstream HTTP client
	UpstreamTimeout time.Duration
	RateLimit       int // requests per second per upstream client

	// Aggregation
	ListingPageSize int // products per page on the Shopify listing path
	FanoutLimit     int // max concurrent secondary fetches per request

	// Single-tenant fallback credentials (optional). When set, the Magento
	// route may omit api_key/domain and these are injected per request.
	MagentoAPIKey string
	MagentoDomain string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		UpstreamTimeout: getEnvAsDuration("UPSTREAM_TIMEOUT", 30*time.Second),
		RateLimit:       getEnvAsInt("DEFAULT_RATE_LIMIT", 10),

		ListingPageSize: getEnvAsInt("LISTING_PAGE_SIZE", 1),
		FanoutLimit:     getEnvAsInt("FANOUT_LIMIT", 4),

		MagentoAPIKey: getEnv("MAGENTO_API_KEY", ""),
		MagentoDomain: getEnv("MAGENTO_DOMAIN", ""),
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
