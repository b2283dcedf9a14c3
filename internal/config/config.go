package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds client configuration. Values are read from the YAML config
// file first, then overridden by environment variables, so one-off overrides
// (COURSEDECK_GATEWAY_URL=... coursedeck courses list) work without editing
// the file.
type Config struct {
	GatewayURL     string `yaml:"gateway_url"`
	StateDir       string `yaml:"state_dir"`
	CallbackAddr   string `yaml:"callback_addr"`
	RequestTimeout int    `yaml:"request_timeout_seconds"`
	RateLimit      string `yaml:"rate_limit"`
	Debug          bool   `yaml:"debug"`
	LogJSON        bool   `yaml:"log_json"`
	OTELEnabled    bool   `yaml:"otel_enabled"`
	OTELEndpoint   string `yaml:"otel_endpoint"`
	// OTELSampleRatio in (0,1) head-samples traces; 1 keeps every trace.
	OTELSampleRatio float64 `yaml:"otel_sample_ratio"`
}

// TokenDBPath returns the path of the bbolt file holding the session token.
func (c *Config) TokenDBPath() string {
	return filepath.Join(c.StateDir, "session.db")
}

// Load loads configuration from the config file (if present) and environment
// variables. A missing config file is not an error; a malformed one is.
func Load() (*Config, error) {
	cfg := &Config{
		GatewayURL:     "http://localhost:8080",
		CallbackAddr:   "127.0.0.1:8943",
		RequestTimeout: 30,
		RateLimit:      "10-S",

		OTELSampleRatio: 1.0,
	}

	path := configFilePath()
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg.GatewayURL = getEnv("COURSEDECK_GATEWAY_URL", cfg.GatewayURL)
	cfg.StateDir = getEnv("COURSEDECK_STATE_DIR", cfg.StateDir)
	cfg.CallbackAddr = getEnv("COURSEDECK_CALLBACK_ADDR", cfg.CallbackAddr)
	cfg.RequestTimeout = getEnvInt("COURSEDECK_REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.RateLimit = getEnv("COURSEDECK_RATE_LIMIT", cfg.RateLimit)
	cfg.Debug = getEnvBool("COURSEDECK_DEBUG", cfg.Debug)
	cfg.LogJSON = getEnvBool("COURSEDECK_LOG_JSON", cfg.LogJSON)
	cfg.OTELEnabled = getEnvBool("OTEL_ENABLED", cfg.OTELEnabled)
	cfg.OTELEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTELEndpoint)
	cfg.OTELSampleRatio = getEnvFloat("OTEL_TRACES_SAMPLER_ARG", cfg.OTELSampleRatio)

	if cfg.GatewayURL == "" {
		return nil, fmt.Errorf("COURSEDECK_GATEWAY_URL is required")
	}

	if cfg.StateDir == "" {
		dir, err := defaultStateDir()
		if err != nil {
			return nil, err
		}
		cfg.StateDir = dir
	}
	if err := os.MkdirAll(cfg.StateDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", cfg.StateDir, err)
	}

	return cfg, nil
}

// configFilePath resolves the config file location. COURSEDECK_CONFIG wins,
// then the per-user config dir.
func configFilePath() string {
	if p := os.Getenv("COURSEDECK_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "coursedeck", "config.yaml")
}

func defaultStateDir() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "coursedeck"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home dir: %w", err)
	}
	return filepath.Join(home, ".local", "state", "coursedeck"), nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
