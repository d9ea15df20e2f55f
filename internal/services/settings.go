package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/HerbHall/phonedex/internal/store"
)

// Setting represents one key-value preference of a user.
type Setting struct {
	UserID    string    `json:"user_id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SettingsRepository provides access to per-user settings.
type SettingsRepository interface {
	// Get returns a single setting of a user.
	Get(ctx context.Context, userID, key string) (*Setting, error)

	// GetAll returns all settings of a user, ordered by key.
	GetAll(ctx context.Context, userID string) ([]Setting, error)

	// Set creates or updates a setting.
	Set(ctx context.Context, userID, key, value string) error

	// SetMany writes several settings of a user in one transaction.
	SetMany(ctx context.Context, userID string, values map[string]string) error

	// Delete removes a setting.
	Delete(ctx context.Context, userID, key string) error
}

// Compile-time interface guard.
var _ SettingsRepository = (*SQLiteSettingsRepository)(nil)

// SQLiteSettingsRepository implements SettingsRepository using SQLite.
type SQLiteSettingsRepository struct {
	store store.Store
	db    *sql.DB
	now   func() time.Time
}

// NewSQLiteSettingsRepository creates a SettingsRepository and runs the
// user_settings migration.
func NewSQLiteSettingsRepository(ctx context.Context, s store.Store) (*SQLiteSettingsRepository, error) {
	if err := s.Migrate(ctx, "settings", settingsMigrations); err != nil {
		return nil, fmt.Errorf("settings migrations: %w", err)
	}
	return &SQLiteSettingsRepository{store: s, db: s.DB(), now: time.Now}, nil
}

// SetClock replaces the time source used for timestamps.
func (r *SQLiteSettingsRepository) SetClock(now func() time.Time) {
	r.now = now
}

func (r *SQLiteSettingsRepository) Get(ctx context.Context, userID, key string) (*Setting, error) {
	var s Setting
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, key, value, updated_at FROM user_settings WHERE user_id = ? AND key = ?`, userID, key,
	).Scan(&s.UserID, &s.Key, &s.Value, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get setting %q: %w", key, err)
	}
	return &s, nil
}

func (r *SQLiteSettingsRepository) GetAll(ctx context.Context, userID string) ([]Setting, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, key, value, updated_at FROM user_settings WHERE user_id = ? ORDER BY key`, userID)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.UserID, &s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan setting row: %w", err)
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

const upsertSetting = `
	INSERT INTO user_settings (user_id, key, value, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (user_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

func (r *SQLiteSettingsRepository) Set(ctx context.Context, userID, key, value string) error {
	if _, err := r.db.ExecContext(ctx, upsertSetting, userID, key, value, r.now().UTC()); err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

func (r *SQLiteSettingsRepository) SetMany(ctx context.Context, userID string, values map[string]string) error {
	now := r.now().UTC()
	return r.store.Tx(ctx, func(tx *sql.Tx) error {
		for key, value := range values {
			if _, err := tx.ExecContext(ctx, upsertSetting, userID, key, value, now); err != nil {
				return fmt.Errorf("set setting %q: %w", key, err)
			}
		}
		return nil
	})
}

func (r *SQLiteSettingsRepository) Delete(ctx context.Context, userID, key string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM user_settings WHERE user_id = ? AND key = ?`, userID, key)
	if err != nil {
		return fmt.Errorf("delete setting %q: %w", key, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// settingsMigrations defines the database schema for user_settings.
var settingsMigrations = []store.Migration{
	{
		Version:     1,
		Description: "create user_settings table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE user_settings (
					user_id    TEXT NOT NULL,
					key        TEXT NOT NULL,
					value      TEXT NOT NULL,
					updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
					PRIMARY KEY (user_id, key)
				)`)
			return err
		},
	},
}
