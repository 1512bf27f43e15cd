package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vietddude/beacon/internal/core/domain"
)

const (
	selectSettings = `SELECT project_name FROM project_settings WHERE id = 1`

	upsertSettings = `
INSERT INTO project_settings (id, project_name, updated_at)
VALUES (1, :project_name, now())
ON CONFLICT (id) DO UPDATE
SET project_name = EXCLUDED.project_name, updated_at = now()`
)

// SettingsRepo stores the single project settings row.
type SettingsRepo struct {
	db *DB
}

// NewSettingsRepo creates a new PostgreSQL settings repository.
func NewSettingsRepo(db *DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Get returns the stored settings, or empty settings if none were saved.
func (r *SettingsRepo) Get(ctx context.Context) (*domain.Settings, error) {
	var s domain.Settings
	err := r.db.GetContext(ctx, &s, selectSettings)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.Settings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project settings: %w", err)
	}
	return &s, nil
}

// Save stores the settings, replacing the previous row.
func (r *SettingsRepo) Save(ctx context.Context, s domain.Settings) error {
	if _, err := r.db.NamedExecContext(ctx, upsertSettings, s); err != nil {
		return fmt.Errorf("failed to save project settings: %w", err)
	}
	return nil
}
