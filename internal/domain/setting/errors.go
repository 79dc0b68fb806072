package setting

import "github.com/cmlabs-hris/workforce-guard/internal/pkg/apperror"

var (
	ErrSettingNotFound      = apperror.New(apperror.ErrNotFound, "setting not found")
	ErrEditSettingsRequired = apperror.New(apperror.ErrForbidden, "editSettings permission required")
)
