package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// TOMLConfig represents the TOML configuration file structure
type TOMLConfig struct {
	HTTP     TOMLHTTPConfig     `toml:"http"`
	Database TOMLDatabaseConfig `toml:"database"`
	Search   TOMLSearchConfig   `toml:"search"`
	Queue    TOMLQueueConfig    `toml:"queue"`
	DataDir  string             `toml:"data_dir"`
	DevMode  bool               `toml:"dev_mode"`
}

// TOMLHTTPConfig represents HTTP configuration in TOML
type TOMLHTTPConfig struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	RateLimit   float64  `toml:"rate_limit"`
	RateBurst   int      `toml:"rate_burst"`
}

// TOMLDatabaseConfig represents relational store configuration in TOML
type TOMLDatabaseConfig struct {
	Path string `toml:"path"`
}

// TOMLSearchConfig represents search index configuration in TOML
type TOMLSearchConfig struct {
	URL       string `toml:"url"`
	IndexName string `toml:"index_name"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// TOMLQueueConfig represents queue configuration in TOML
type TOMLQueueConfig struct {
	Type string         `toml:"type"`
	NATS TOMLNATSConfig `toml:"nats"`
}

// TOMLNATSConfig represents NATS configuration in TOML
type TOMLNATSConfig struct {
	URL           string `toml:"url"`
	DataDir       string `toml:"data_dir"`
	StreamName    string `toml:"stream_name"`
	Subject       string `toml:"subject"`
	ConsumerGroup string `toml:"consumer_group"`
	MaxAge        string `toml:"max_age"`
}

// ConfigPaths lists the paths to search for config files
var ConfigPaths = []string{
	"config.toml",
	"application.toml",
	"permitdesk.toml",
	"./config/config.toml",
	"./config/application.toml",
	"/etc/permitdesk/config.toml",
}

// LoadFromFile loads configuration from a TOML file
func LoadFromFile(path string) (*Config, error) {
	var tomlCfg TOMLConfig

	if _, err := toml.DecodeFile(path, &tomlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return tomlConfigToConfig(&tomlCfg)
}

// LoadWithFile loads configuration from file first, then overrides with env vars
func LoadWithFile() (*Config, error) {
	// Start with defaults from environment
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	// Check for explicit config file path
	configPath := os.Getenv("PERMITDESK_CONFIG")
	if configPath == "" {
		// Search for config file in standard locations
		for _, path := range ConfigPaths {
			if _, err := os.Stat(path); err == nil {
				configPath = path
				break
			}
		}
	}

	// If no config file found, just use env vars
	if configPath == "" {
		return cfg, nil
	}

	// Load from file
	fileCfg, err := LoadFromFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	// Merge: file config as base, env vars override
	return mergeConfigs(fileCfg, cfg), nil
}

// tomlConfigToConfig converts TOML config to the internal Config struct
func tomlConfigToConfig(tc *TOMLConfig) (*Config, error) {
	cfg := &Config{
		HTTP: HTTPConfig{
			Port:        tc.HTTP.Port,
			CORSOrigins: tc.HTTP.CORSOrigins,
			RateLimit:   tc.HTTP.RateLimit,
			RateBurst:   tc.HTTP.RateBurst,
		},
		Database: DatabaseConfig{
			Path: tc.Database.Path,
		},
		Search: SearchConfig{
			URL:       tc.Search.URL,
			IndexName: tc.Search.IndexName,
			Username:  tc.Search.Username,
			Password:  tc.Search.Password,
		},
		Queue: QueueConfig{
			Type: tc.Queue.Type,
			NATS: NATSConfig{
				URL:           tc.Queue.NATS.URL,
				DataDir:       tc.Queue.NATS.DataDir,
				StreamName:    tc.Queue.NATS.StreamName,
				Subject:       tc.Queue.NATS.Subject,
				ConsumerGroup: tc.Queue.NATS.ConsumerGroup,
			},
		},
		DataDir: tc.DataDir,
		DevMode: tc.DevMode,
	}

	if tc.Queue.NATS.MaxAge != "" {
		if d, err := time.ParseDuration(tc.Queue.NATS.MaxAge); err == nil {
			cfg.Queue.NATS.MaxAge = d
		}
	}

	return cfg, nil
}

// mergeConfigs merges file config with env config. Env values win only when
// the variable is actually set, so file values survive unset defaults.
func mergeConfigs(base, override *Config) *Config {
	result := *base

	// HTTP
	if isEnvSet("HTTP_PORT") {
		result.HTTP.Port = override.HTTP.Port
	}
	if isEnvSet("CORS_ORIGINS") {
		result.HTTP.CORSOrigins = override.HTTP.CORSOrigins
	}
	if isEnvSet("HTTP_RATE_LIMIT") {
		result.HTTP.RateLimit = override.HTTP.RateLimit
	}
	if isEnvSet("HTTP_RATE_BURST") {
		result.HTTP.RateBurst = override.HTTP.RateBurst
	}

	// Database
	if isEnvSet("DATABASE_PATH") {
		result.Database.Path = override.Database.Path
	}

	// Search
	if isEnvSet("SEARCH_REDIS_URL") {
		result.Search.URL = override.Search.URL
	}
	if isEnvSet("SEARCH_INDEX_NAME") {
		result.Search.IndexName = override.Search.IndexName
	}
	if isEnvSet("SEARCH_USERNAME") {
		result.Search.Username = override.Search.Username
	}
	if isEnvSet("SEARCH_PASSWORD") {
		result.Search.Password = override.Search.Password
	}

	// Queue
	if isEnvSet("QUEUE_TYPE") {
		result.Queue.Type = override.Queue.Type
	}
	if isEnvSet("NATS_URL") {
		result.Queue.NATS.URL = override.Queue.NATS.URL
	}
	if isEnvSet("NATS_DATA_DIR") {
		result.Queue.NATS.DataDir = override.Queue.NATS.DataDir
	}
	if isEnvSet("NATS_STREAM_NAME") {
		result.Queue.NATS.StreamName = override.Queue.NATS.StreamName
	}
	if isEnvSet("NATS_SUBJECT") {
		result.Queue.NATS.Subject = override.Queue.NATS.Subject
	}
	if isEnvSet("NATS_CONSUMER_GROUP") {
		result.Queue.NATS.ConsumerGroup = override.Queue.NATS.ConsumerGroup
	}
	if isEnvSet("NATS_MAX_AGE") {
		result.Queue.NATS.MaxAge = override.Queue.NATS.MaxAge
	}

	if isEnvSet("DATA_DIR") {
		result.DataDir = override.DataDir
	}
	if isEnvSet("PERMITDESK_DEV") {
		result.DevMode = override.DevMode
	}

	return &result
}

func isEnvSet(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}

// GenerateExampleConfig writes an example config file to the given path
func GenerateExampleConfig(path string) error {
	example := `# PermitDesk configuration

data_dir = "./data"
dev_mode = false

[http]
port = 8080
cors_origins = ["http://localhost:4200"]
rate_limit = 0.0   # requests per second, 0 disables
rate_burst = 20

[database]
path = "./data/permitdesk.db"

[search]
url = "redis://localhost:6379/0"
index_name = "permissions"
username = ""
password = ""

[queue]
type = "embedded"  # embedded, nats

[queue.nats]
url = "nats://localhost:4222"
data_dir = "./data/nats"
stream_name = "PERMISSIONS"
subject = "permissions.operations"
consumer_group = "permitdesk-operations"
max_age = "168h"
`

	// Ensure directory exists
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	return os.WriteFile(path, []byte(example), 0644)
}
