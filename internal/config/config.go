// Package config provides configuration loading and validation for the service and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Default values applied by Defaults.
const (
	DefaultPort            = 8000
	DefaultMaxUploadBytes  = 10 << 20
	DefaultAllowedOrigin   = "*"
	DefaultShutdownTimeout = 10 * time.Second
)

// Config represents the service configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults, environment variables or CLI flags.
type Config struct {
	// Server
	Port            int    `json:"port,omitempty"`             // HTTP listen port
	MaxUploadBytes  int64  `json:"max_upload_bytes,omitempty"` // Largest accepted document upload
	AllowedOrigin   string `json:"allowed_origin,omitempty"`   // CORS Access-Control-Allow-Origin value
	ShutdownTimeout string `json:"shutdown_timeout,omitempty"` // Graceful shutdown budget, e.g. "10s"

	// Data
	DatabaseURL    string `json:"database_url,omitempty"`    // PostgreSQL URL; empty disables analysis history
	VocabularyPath string `json:"vocabulary_path,omitempty"` // External vocabulary JSON; empty uses the embedded one

	// Logging
	LogJSON bool `json:"log_json,omitempty"` // Emit JSON logs instead of console output
	Debug   bool `json:"debug,omitempty"`    // Enable debug level logging
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:            DefaultPort,
		MaxUploadBytes:  DefaultMaxUploadBytes,
		AllowedOrigin:   DefaultAllowedOrigin,
		ShutdownTimeout: DefaultShutdownTimeout.String(),
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overrides fields from environment variables:
// PORT, MAX_UPLOAD_BYTES, CORS_ALLOWED_ORIGIN, SHUTDOWN_TIMEOUT, DATABASE_URL,
// VOCABULARY_PATH, LOG_JSON and DEBUG. Unset variables leave fields untouched.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config error: invalid MAX_UPLOAD_BYTES %q: %w", v, err)
		}
		c.MaxUploadBytes = n
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGIN"); v != "" {
		c.AllowedOrigin = v
	}
	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("VOCABULARY_PATH"); v != "" {
		c.VocabularyPath = v
	}
	if v := os.Getenv("LOG_JSON"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config error: invalid LOG_JSON %q: %w", v, err)
		}
		c.LogJSON = b
	}
	if v := os.Getenv("DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config error: invalid DEBUG %q: %w", v, err)
		}
		c.Debug = b
	}
	return nil
}

// Validate checks that the configuration has valid values.
// Zero values are allowed since MergeWithDefaults fills them.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535 (0 uses the default)")
	}
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("config error: 'max_upload_bytes' must be non-negative")
	}
	if c.ShutdownTimeout != "" {
		if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
			return fmt.Errorf("config error: invalid 'shutdown_timeout': %w", err)
		}
	}

	if c.VocabularyPath != "" {
		if _, err := os.Stat(c.VocabularyPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: vocabulary file not found: %s", c.VocabularyPath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}
	if result.AllowedOrigin == "" {
		result.AllowedOrigin = defaults.AllowedOrigin
	}
	if result.ShutdownTimeout == "" {
		result.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.VocabularyPath == "" {
		result.VocabularyPath = defaults.VocabularyPath
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags and environment always win for bools)

	return result
}

// ShutdownDuration returns the parsed shutdown timeout, DefaultShutdownTimeout when unset or invalid.
func (c *Config) ShutdownDuration() time.Duration {
	if d, err := time.ParseDuration(c.ShutdownTimeout); err == nil && d > 0 {
		return d
	}
	return DefaultShutdownTimeout
}

// Address returns the listen address for Port.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}
