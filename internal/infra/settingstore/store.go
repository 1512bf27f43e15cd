// Package settingstore fetches project settings from the configured source.
package settingstore

import (
	"context"
	"sync"

	"github.com/vietddude/beacon/internal/core/domain"
	redisclient "github.com/vietddude/beacon/internal/infra/redis"
	"github.com/vietddude/beacon/internal/infra/storage/postgres"
)

// Writer persists project settings.
type Writer interface {
	Save(ctx context.Context, s domain.Settings) error
}

// StaticStore serves settings held in memory.
type StaticStore struct {
	mu       sync.RWMutex
	settings domain.Settings
}

// NewStaticStore creates a store that always returns s.
func NewStaticStore(s domain.Settings) *StaticStore {
	return &StaticStore{settings: s}
}

// Fetch returns a copy of the stored settings.
func (s *StaticStore) Fetch(ctx context.Context) (*domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.settings
	return &out, nil
}

// Save replaces the stored settings.
func (s *StaticStore) Save(ctx context.Context, settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return nil
}

// RedisStore reads settings from a Redis hash.
type RedisStore struct {
	client *redisclient.Client
	key    string
}

// NewRedisStore creates a store backed by the hash at key.
func NewRedisStore(client *redisclient.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// Fetch reads the settings hash.
func (s *RedisStore) Fetch(ctx context.Context) (*domain.Settings, error) {
	return s.client.GetSettings(ctx, s.key)
}

// Save writes the settings hash.
func (s *RedisStore) Save(ctx context.Context, settings domain.Settings) error {
	return s.client.SaveSettings(ctx, s.key, settings)
}

// PostgresStore reads settings from the project_settings table.
type PostgresStore struct {
	repo *postgres.SettingsRepo
}

// NewPostgresStore creates a store backed by db.
func NewPostgresStore(db *postgres.DB) *PostgresStore {
	return &PostgresStore{repo: postgres.NewSettingsRepo(db)}
}

// Fetch reads the settings row.
func (s *PostgresStore) Fetch(ctx context.Context) (*domain.Settings, error) {
	return s.repo.Get(ctx)
}

// Save upserts the settings row.
func (s *PostgresStore) Save(ctx context.Context, settings domain.Settings) error {
	return s.repo.Save(ctx, settings)
}
