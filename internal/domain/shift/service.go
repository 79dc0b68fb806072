package shift

import (
	"context"
	"time"
)

type ShiftService interface {
	// RequestShift registers a PENDING shift while the month is open for registration.
	RequestShift(ctx context.Context, actorID string, req RequestShiftRequest) (Shift, error)

	// ForceRegister writes APPROVED shifts, replacing existing ones, in one transaction.
	ForceRegister(ctx context.Context, actorID string, req ForceRegisterRequest) ([]Shift, error)

	// TransitionShift applies approve or reject to a PENDING shift.
	TransitionShift(ctx context.Context, shiftID string, action TransitionAction, actorID string) (Shift, error)

	GetShift(ctx context.Context, actorID, shiftID string) (Shift, error)
	ListShifts(ctx context.Context, actorID string, filter ListShiftFilter) ([]Shift, error)
	DeleteShift(ctx context.Context, actorID, shiftID string) error
}

// RegistrationLockService governs the monthly registration deadline.
type RegistrationLockService interface {
	// IsLockedForRegistration evaluates the lock and persists an expired unlock.
	IsLockedForRegistration(ctx context.Context, userID string, year int, month time.Month, now time.Time) (bool, error)

	// Status is the reconciling read for actorID. Reading another user's lock
	// needs lockUnlock or a shiftManagement view tier over that user.
	Status(ctx context.Context, actorID, userID string, year int, month time.Month, now time.Time) (LockStatus, error)
	SetUnlock(ctx context.Context, userID string, year int, month time.Month, actorID string, now time.Time) (RegistrationLock, error)
	SetLock(ctx context.Context, userID string, year int, month time.Month, actorID string, now time.Time) (RegistrationLock, error)
}
