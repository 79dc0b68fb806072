package memory

import (
	"context"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/setting"
)

type settingRepository struct {
	s *Store
}

func NewSettingRepository(s *Store) setting.SettingRepository {
	return &settingRepository{s: s}
}

func (r *settingRepository) Get(ctx context.Context, key string) (setting.Setting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("settings.Get"); err != nil {
		return setting.Setting{}, err
	}

	found, ok := r.s.data.settings[key]
	if !ok {
		return setting.Setting{}, setting.ErrSettingNotFound
	}
	return found, nil
}

func (r *settingRepository) Set(ctx context.Context, s setting.Setting) (setting.Setting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("settings.Set"); err != nil {
		return setting.Setting{}, err
	}

	s.UpdatedAt = r.s.now()
	r.s.data.settings[s.Key] = s
	return s, nil
}
