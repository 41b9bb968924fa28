// Package config provides configuration management for feed-hub.
package config

import (
	"os"
	"strconv"
)

// Config holds the configuration for feed-hub.
type Config struct {
	// RedisURL is the Redis connection URL.
	RedisURL string
	// HTTPPort is the port for the HTTP server.
	HTTPPort int
	// LogLevel is the logging level.
	LogLevel string
	// FeedMaxLength is the default size bound applied to feeds that have
	// no explicit configuration. Zero means unbounded.
	FeedMaxLength int64
	// FeedMaxTxAttempts caps optimistic transaction retries per
	// operation. Zero means unlimited, matching the protocol's default
	// behavior under contention.
	FeedMaxTxAttempts int
}

// NewConfig creates a new Config from environment variables.
func NewConfig() *Config {
	port, _ := strconv.Atoi(getEnvOrDefault("HTTP_PORT", "9600"))
	maxLength, _ := strconv.ParseInt(getEnvOrDefault("FEED_MAX_LENGTH", "0"), 10, 64)
	maxAttempts, _ := strconv.Atoi(getEnvOrDefault("FEED_MAX_TX_ATTEMPTS", "0"))

	return &Config{
		RedisURL:          getEnvOrDefault("REDIS_URL", "redis://localhost:6379"),
		HTTPPort:          port,
		LogLevel:          getEnvOrDefault("LOG_LEVEL", "info"),
		FeedMaxLength:     maxLength,
		FeedMaxTxAttempts: maxAttempts,
	}
}

// getEnvOrDefault returns the value of an environment variable or a default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
