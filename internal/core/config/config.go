package config

import (
	"time"

	redisclient "github.com/vietddude/beacon/internal/infra/redis"
	"github.com/vietddude/beacon/internal/infra/storage/postgres"
)

// Backend kinds.
const (
	KindHTTP     = "http"
	KindGRPC     = "grpc"
	KindRedis    = "redis"
	KindPostgres = "postgres"
)

// Settings sources.
const (
	SourceNone     = "none"
	SourceStatic   = "static"
	SourceHTTP     = "http"
	SourceRedis    = "redis"
	SourcePostgres = "postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig       `yaml:"server"`
	Logging  LoggingConfig      `yaml:"logging"`
	Monitor  MonitorConfig      `yaml:"monitor"`
	Backend  BackendConfig      `yaml:"backend"`
	Settings SettingsConfig     `yaml:"settings"`
	Redis    redisclient.Config `yaml:"redis"`
	Database postgres.Config    `yaml:"database"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// MonitorConfig holds probe and retry timing.
type MonitorConfig struct {
	ProbeInterval time.Duration `yaml:"probe_interval"`
	RetryInterval time.Duration `yaml:"retry_interval"`
	ProbeTimeout  time.Duration `yaml:"probe_timeout"`
}

// BackendConfig describes how to reach the monitored backend.
type BackendConfig struct {
	Kind    string `yaml:"kind"`    // http, grpc, redis, postgres
	URL     string `yaml:"url"`     // liveness URL or gRPC target; redis/postgres use their own sections
	Service string `yaml:"service"` // gRPC health service name
}

// SettingsConfig describes where project settings are loaded from.
type SettingsConfig struct {
	Source      string        `yaml:"source"` // none, static, http, redis, postgres
	URL         string        `yaml:"url"`
	Key         string        `yaml:"key"` // redis hash key
	ProjectName string        `yaml:"project_name"`
	Timeout     time.Duration `yaml:"timeout"`
}
