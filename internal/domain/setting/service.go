package setting

import "context"

type SettingService interface {
	// RegistrationDeadlineDay returns the stored day or the configured default.
	RegistrationDeadlineDay(ctx context.Context) int
	UpdateRegistrationDeadlineDay(ctx context.Context, actorID string, day int) (Setting, error)
}
