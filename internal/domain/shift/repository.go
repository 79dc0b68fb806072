package shift

import (
	"context"
	"time"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/permission"
)

type ShiftRepository interface {
	GetByID(ctx context.Context, id string) (Shift, error)
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (Shift, error)

	// Create fails with ErrShiftExists when (user_id, date) is taken.
	Create(ctx context.Context, s Shift) (Shift, error)

	// UpdateStatus moves the shift from `from` to `to`. ok is false when the
	// shift was no longer in `from`.
	UpdateStatus(ctx context.Context, id string, from, to Status, reviewerID string, at time.Time) (ok bool, err error)

	Delete(ctx context.Context, id string) error
	DeleteByUserAndDate(ctx context.Context, userID string, date time.Time) (int, error)
	DeleteByUser(ctx context.Context, userID string) (int, error)

	List(ctx context.Context, scope permission.Scope, filter ListShiftFilter) ([]Shift, error)
}

type RegistrationLockRepository interface {
	// Get returns ErrLockNotFound when no row exists.
	Get(ctx context.Context, userID string, year int, month time.Month) (RegistrationLock, error)
	Upsert(ctx context.Context, lock RegistrationLock) (RegistrationLock, error)
	DeleteByUser(ctx context.Context, userID string) (int, error)
}
