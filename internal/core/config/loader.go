package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration and applies defaults.
func Parse(data []byte) (*AppConfig, error) {
	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}

	if cfg.Monitor.ProbeInterval == 0 {
		cfg.Monitor.ProbeInterval = 5 * time.Second
	}
	if cfg.Monitor.RetryInterval == 0 {
		cfg.Monitor.RetryInterval = 5 * time.Second
	}
	if cfg.Monitor.ProbeTimeout == 0 {
		cfg.Monitor.ProbeTimeout = 3 * time.Second
	}

	if cfg.Backend.Kind == "" {
		cfg.Backend.Kind = KindHTTP
	}

	if cfg.Settings.Source == "" {
		cfg.Settings.Source = SourceNone
	}
	if cfg.Settings.Key == "" {
		cfg.Settings.Key = "beacon:settings"
	}
	if cfg.Settings.Timeout == 0 {
		cfg.Settings.Timeout = 10 * time.Second
	}
}
