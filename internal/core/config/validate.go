package config

import (
	"errors"
	"fmt"
)

// Validate checks semantic constraints that YAML decoding cannot.
func Validate(cfg *AppConfig) error {
	if cfg == nil {
		return errors.New("config: nil")
	}

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port: out of range: %d", cfg.Server.Port)
	}

	m := cfg.Monitor
	if m.ProbeInterval <= 0 {
		return errors.New("monitor.probe_interval: must be > 0")
	}
	if m.RetryInterval <= 0 {
		return errors.New("monitor.retry_interval: must be > 0")
	}
	if m.ProbeTimeout <= 0 {
		return errors.New("monitor.probe_timeout: must be > 0")
	}

	switch cfg.Backend.Kind {
	case KindHTTP, KindGRPC:
		if cfg.Backend.URL == "" {
			return fmt.Errorf("backend.url: required for kind %q", cfg.Backend.Kind)
		}
	case KindRedis:
		if cfg.Redis.URL == "" {
			return errors.New("redis.url: required for backend kind \"redis\"")
		}
	case KindPostgres:
		if cfg.Database.URL == "" {
			return errors.New("database.url: required for backend kind \"postgres\"")
		}
	default:
		return fmt.Errorf("backend.kind: unsupported %q", cfg.Backend.Kind)
	}

	switch cfg.Settings.Source {
	case SourceNone, SourceStatic:
	case SourceHTTP:
		if cfg.Settings.URL == "" {
			return errors.New("settings.url: required for source \"http\"")
		}
	case SourceRedis:
		if cfg.Redis.URL == "" {
			return errors.New("redis.url: required for settings source \"redis\"")
		}
	case SourcePostgres:
		if cfg.Database.URL == "" {
			return errors.New("database.url: required for settings source \"postgres\"")
		}
	default:
		return fmt.Errorf("settings.source: unsupported %q", cfg.Settings.Source)
	}

	return nil
}
