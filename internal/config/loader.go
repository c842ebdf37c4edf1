// Package config loads harness settings from defaults, an optional JSON or YAML file,
// and HARNESS_* environment variables, in that order.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a file path and applies environment variable overrides.
// Fields missing from the file keep their defaults.
// Validation is deferred to allow CLI flag overrides to be applied first
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadFromFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	applyEnvironmentOverrides(cfg)

	return cfg, nil
}

// LoadFromEnvironment creates a configuration using only environment variables
func LoadFromEnvironment() (*Config, error) {
	cfg := DefaultConfig()
	applyEnvironmentOverrides(cfg)
	return cfg, nil
}

// loadFromFile decodes path onto cfg; .yaml/.yml is YAML, anything else JSON
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrConfigFileNotFound
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfigFormat, err)
	}

	return nil
}

// applyEnvironmentOverrides applies configuration from environment variables
func applyEnvironmentOverrides(cfg *Config) {
	if addr := os.Getenv("HARNESS_LISTEN_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}

	// Local origins (comma-separated list)
	if origins := os.Getenv("HARNESS_LOCAL_ORIGINS"); origins != "" {
		cfg.LocalOrigins = splitList(origins)
	}

	if transport := os.Getenv("HARNESS_TRANSPORT"); transport != "" {
		cfg.Transport = strings.ToLower(strings.TrimSpace(transport))
	}

	if insecure := os.Getenv("HARNESS_ALLOW_INSECURE"); insecure == "true" || insecure == "1" {
		cfg.AllowInsecureTransport = true
	}

	if retry := os.Getenv("HARNESS_RETRY_AFTER"); retry != "" {
		// Unparseable values are kept as 0 so Validate reports them
		n, _ := strconv.Atoi(retry)
		cfg.RetryAfterSeconds = n
	}

	if query := os.Getenv("HARNESS_DEMO_QUERY"); query != "" {
		cfg.DemoQuery = query
	}

	if rate := os.Getenv("HARNESS_RATE_LIMIT_PER_MINUTE"); rate != "" {
		if n, err := strconv.Atoi(rate); err == nil {
			cfg.RateLimitPerMinute = n
		}
	}

	if burst := os.Getenv("HARNESS_RATE_LIMIT_BURST"); burst != "" {
		if n, err := strconv.Atoi(burst); err == nil {
			cfg.RateLimitBurst = n
		}
	}

	if debug := os.Getenv("HARNESS_DEBUG"); debug == "true" || debug == "1" {
		cfg.Debug = true
	}

	if logLevel := os.Getenv("HARNESS_LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
