package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for PermitDesk
type Config struct {
	// HTTP server configuration
	HTTP HTTPConfig

	// Database (system of record) configuration
	Database DatabaseConfig

	// Search index configuration
	Search SearchConfig

	// Queue configuration (event stream)
	Queue QueueConfig

	// Data directory for embedded services
	DataDir string

	// Development mode
	DevMode bool
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Port        int
	CORSOrigins []string

	// RateLimit is the sustained requests-per-second budget per instance.
	// Zero disables rate limiting.
	RateLimit float64

	// RateBurst is the token bucket size for the rate limiter.
	RateBurst int
}

// DatabaseConfig holds relational store configuration
type DatabaseConfig struct {
	// Path is the SQLite database file path. ":memory:" is allowed for tests.
	Path string
}

// SearchConfig holds search index configuration
type SearchConfig struct {
	// URL is the Redis connection URL (redis://[user:password@]host:port/db)
	URL string

	// IndexName is the RediSearch index name for permission documents
	IndexName string

	Username string
	Password string
}

// QueueConfig holds event stream configuration
type QueueConfig struct {
	// Type is the queue implementation type: "embedded" or "nats"
	Type string

	NATS NATSConfig
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL     string
	DataDir string

	// StreamName is the JetStream stream carrying operation events
	StreamName string

	// Subject is the subject operation events are published to
	Subject string

	// ConsumerGroup is the durable consumer name downstream consumers use.
	// The publisher itself does not consume; kept for provisioning parity.
	ConsumerGroup string

	// MaxAge is the maximum age of messages retained in the stream
	MaxAge time.Duration
}

// Load loads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{
		HTTP: HTTPConfig{
			Port:        getEnvInt("HTTP_PORT", 8080),
			CORSOrigins: getEnvSlice("CORS_ORIGINS", []string{"http://localhost:4200"}),
			RateLimit:   getEnvFloat("HTTP_RATE_LIMIT", 0),
			RateBurst:   getEnvInt("HTTP_RATE_BURST", 20),
		},

		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "./data/permitdesk.db"),
		},

		Search: SearchConfig{
			URL:       getEnv("SEARCH_REDIS_URL", "redis://localhost:6379/0"),
			IndexName: getEnv("SEARCH_INDEX_NAME", "permissions"),
			Username:  getEnv("SEARCH_USERNAME", ""),
			Password:  getEnv("SEARCH_PASSWORD", ""),
		},

		Queue: QueueConfig{
			Type: getEnv("QUEUE_TYPE", "embedded"),
			NATS: NATSConfig{
				URL:           getEnv("NATS_URL", "nats://localhost:4222"),
				DataDir:       getEnv("NATS_DATA_DIR", "./data/nats"),
				StreamName:    getEnv("NATS_STREAM_NAME", "PERMISSIONS"),
				Subject:       getEnv("NATS_SUBJECT", "permissions.operations"),
				ConsumerGroup: getEnv("NATS_CONSUMER_GROUP", "permitdesk-operations"),
				MaxAge:        getEnvDuration("NATS_MAX_AGE", 7*24*time.Hour),
			},
		},

		DataDir: getEnv("DATA_DIR", "./data"),
		DevMode: getEnvBool("PERMITDESK_DEV", false),
	}

	return cfg, nil
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.Split(value, ",")
	}
	return defaultValue
}
