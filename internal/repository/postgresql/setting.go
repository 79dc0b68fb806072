package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/setting"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/database"
)

type settingRepository struct {
	db *database.DB
}

func NewSettingRepository(db *database.DB) setting.SettingRepository {
	return &settingRepository{db: db}
}

// Get implements setting.SettingRepository.
func (r *settingRepository) Get(ctx context.Context, key string) (setting.Setting, error) {
	q := GetQuerier(ctx, r.db)

	var s setting.Setting
	err := q.QueryRow(ctx, `SELECT key, value, updated_by, updated_at FROM settings WHERE key = $1`, key).
		Scan(&s.Key, &s.Value, &s.UpdatedBy, &s.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return setting.Setting{}, setting.ErrSettingNotFound
		}
		return setting.Setting{}, fmt.Errorf("failed to get setting: %w", err)
	}
	return s, nil
}

// Set implements setting.SettingRepository.
func (r *settingRepository) Set(ctx context.Context, s setting.Setting) (setting.Setting, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO settings (key, value, updated_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_by = EXCLUDED.updated_by, updated_at = NOW()
		RETURNING key, value, updated_by, updated_at
	`

	var saved setting.Setting
	err := q.QueryRow(ctx, query, s.Key, s.Value, s.UpdatedBy).
		Scan(&saved.Key, &saved.Value, &saved.UpdatedBy, &saved.UpdatedAt)
	if err != nil {
		return setting.Setting{}, fmt.Errorf("failed to set setting: %w", err)
	}
	return saved, nil
}
