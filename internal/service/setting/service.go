package setting

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/permission"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/role"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/setting"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/validator"
	"github.com/cmlabs-hris/workforce-guard/internal/service/guard"
)

type SettingServiceImpl struct {
	setting.SettingRepository
	evaluator  permission.Evaluator
	defaultDay int
}

// NewSettingService returns the settings service. defaultDay is the
// configured registration deadline day used when nothing valid is stored.
func NewSettingService(repo setting.SettingRepository, evaluator permission.Evaluator, defaultDay int) setting.SettingService {
	return &SettingServiceImpl{
		SettingRepository: repo,
		evaluator:         evaluator,
		defaultDay:        guard.NormalizeDay(defaultDay),
	}
}

// RegistrationDeadlineDay implements setting.SettingService. Storage errors
// and unparsable values fall back to the configured default.
func (s *SettingServiceImpl) RegistrationDeadlineDay(ctx context.Context) int {
	stored, err := s.SettingRepository.Get(ctx, setting.KeyRegistrationDeadlineDay)
	if err != nil {
		if !errors.Is(err, setting.ErrSettingNotFound) {
			slog.Error("failed to read registration deadline day", "error", err)
		}
		return s.defaultDay
	}

	day, err := strconv.Atoi(stored.Value)
	if err != nil || day < 1 || day > 28 {
		slog.Warn("ignoring invalid registration deadline day", "value", stored.Value)
		return s.defaultDay
	}
	return day
}

// UpdateRegistrationDeadlineDay implements setting.SettingService.
func (s *SettingServiceImpl) UpdateRegistrationDeadlineDay(ctx context.Context, actorID string, day int) (setting.Setting, error) {
	ok, err := s.evaluator.HasPermission(ctx, actorID, role.CategorySystemSettings, role.ActionEditSettings)
	if err != nil {
		return setting.Setting{}, err
	}
	if !ok {
		return setting.Setting{}, setting.ErrEditSettingsRequired
	}

	if day < 1 || day > 28 {
		return setting.Setting{}, validator.ValidationErrors{{
			Field:   "day",
			Message: "day must be between 1 and 28",
		}}
	}

	return s.SettingRepository.Set(ctx, setting.Setting{
		Key:       setting.KeyRegistrationDeadlineDay,
		Value:     strconv.Itoa(day),
		UpdatedBy: &actorID,
	})
}
