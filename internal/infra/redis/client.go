package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/vietddude/beacon/internal/core/domain"
)

const fieldProjectName = "project_name"

// Client wraps the Redis operations used for probing and settings.
type Client struct {
	rdb *redis.Client
}

// Config holds Redis connection configuration.
type Config struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
}

// NewClient creates a new Redis client. The connection is established lazily
// so a backend that is down at startup does not prevent construction.
func NewClient(cfg Config) (*Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	return &Client{rdb: redis.NewClient(opts)}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks that Redis answers.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// GetSettings reads project settings stored as a hash under key.
// A missing key yields empty settings.
func (c *Client) GetSettings(ctx context.Context, key string) (*domain.Settings, error) {
	fields, err := c.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall failed: %w", err)
	}
	return &domain.Settings{ProjectName: fields[fieldProjectName]}, nil
}

// SaveSettings writes project settings as a hash under key.
func (c *Client) SaveSettings(ctx context.Context, key string, s domain.Settings) error {
	if err := c.rdb.HSet(ctx, key, fieldProjectName, s.ProjectName).Err(); err != nil {
		return fmt.Errorf("hset failed: %w", err)
	}
	return nil
}
