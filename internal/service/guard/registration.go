package guard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/permission"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/role"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/setting"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/shift"
)

// LockedForRegistration is the pure registration predicate. lock may be nil.
// It never mutates lock; see RegistrationGuard.IsLockedForRegistration for
// the reconciling read.
func LockedForRegistration(deadline time.Time, lock *shift.RegistrationLock, now time.Time, window time.Duration) bool {
	if !now.After(deadline) {
		return false
	}
	return !unlockActive(lock, now, window)
}

func unlockActive(lock *shift.RegistrationLock, now time.Time, window time.Duration) bool {
	if lock == nil || !lock.IsUnlocked || lock.UnlockedAt == nil {
		return false
	}
	return now.Before(lock.UnlockedAt.Add(window))
}

// unlockExpired reports whether a stored unlock has outlived its window and
// must be flipped back.
func unlockExpired(lock *shift.RegistrationLock, now time.Time, window time.Duration) bool {
	return lock != nil && lock.IsUnlocked && !unlockActive(lock, now, window)
}

type RegistrationGuard struct {
	shift.RegistrationLockRepository
	settings     setting.SettingService
	evaluator    permission.Evaluator
	unlockWindow time.Duration
}

func NewRegistrationGuard(
	lockRepo shift.RegistrationLockRepository,
	settings setting.SettingService,
	evaluator permission.Evaluator,
	unlockWindow time.Duration,
) shift.RegistrationLockService {
	if unlockWindow <= 0 {
		unlockWindow = DefaultUnlockWindow
	}
	return &RegistrationGuard{
		RegistrationLockRepository: lockRepo,
		settings:                   settings,
		evaluator:                  evaluator,
		unlockWindow:               unlockWindow,
	}
}

func (g *RegistrationGuard) deadline(ctx context.Context, year int, month time.Month, now time.Time) time.Time {
	return Deadline(year, month, NormalizeDay(g.settings.RegistrationDeadlineDay(ctx)), now.Location())
}

// evaluateAndReconcile loads the lock row, persists an expired unlock as
// locked, and evaluates the predicate.
func (g *RegistrationGuard) evaluateAndReconcile(ctx context.Context, userID string, year int, month time.Month, now time.Time) (shift.LockStatus, error) {
	status := shift.LockStatus{
		UserID:   userID,
		Year:     year,
		Month:    int(month),
		Deadline: g.deadline(ctx, year, month, now),
	}

	var lock *shift.RegistrationLock
	found, err := g.RegistrationLockRepository.Get(ctx, userID, year, month)
	switch {
	case err == nil:
		lock = &found
	case errors.Is(err, shift.ErrLockNotFound):
	default:
		return shift.LockStatus{}, fmt.Errorf("get registration lock: %w", err)
	}

	if unlockExpired(lock, now, g.unlockWindow) {
		lock.IsUnlocked = false
		if _, err := g.RegistrationLockRepository.Upsert(ctx, *lock); err != nil {
			return shift.LockStatus{}, fmt.Errorf("reconcile registration lock: %w", err)
		}
		slog.Info("registration unlock expired",
			"user_id", userID, "year", year, "month", int(month), "unlocked_at", lock.UnlockedAt)
	}

	status.Locked = LockedForRegistration(status.Deadline, lock, now, g.unlockWindow)
	if unlockActive(lock, now, g.unlockWindow) {
		until := lock.UnlockedAt.Add(g.unlockWindow)
		status.UnlockedAt = lock.UnlockedAt
		status.UnlockUntil = &until
	}
	return status, nil
}

// IsLockedForRegistration implements shift.RegistrationLockService.
func (g *RegistrationGuard) IsLockedForRegistration(ctx context.Context, userID string, year int, month time.Month, now time.Time) (bool, error) {
	status, err := g.evaluateAndReconcile(ctx, userID, year, month, now)
	if err != nil {
		return true, err
	}
	return status.Locked, nil
}

// Status implements shift.RegistrationLockService.
func (g *RegistrationGuard) Status(ctx context.Context, actorID, userID string, year int, month time.Month, now time.Time) (shift.LockStatus, error) {
	if err := g.requireStatusAccess(ctx, actorID, userID); err != nil {
		return shift.LockStatus{}, err
	}
	return g.evaluateAndReconcile(ctx, userID, year, month, now)
}

func (g *RegistrationGuard) requireStatusAccess(ctx context.Context, actorID, userID string) error {
	if actorID != "" && actorID == userID {
		return nil
	}

	ok, err := g.evaluator.HasPermission(ctx, actorID, role.CategoryShiftManagement, role.ActionLockUnlock)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	ok, err = g.evaluator.HasPermissionForUser(ctx, actorID, userID, role.CategoryShiftManagement, role.ActionView)
	if err != nil {
		return err
	}
	if !ok {
		return shift.ErrLockStatusNotAllowed
	}
	return nil
}

func (g *RegistrationGuard) requireLockUnlock(ctx context.Context, actorID string) error {
	ok, err := g.evaluator.HasPermission(ctx, actorID, role.CategoryShiftManagement, role.ActionLockUnlock)
	if err != nil {
		return err
	}
	if !ok {
		return shift.ErrLockUnlockRequired
	}
	return nil
}

// SetUnlock implements shift.RegistrationLockService. The unlock lasts for
// the unlock window from now.
func (g *RegistrationGuard) SetUnlock(ctx context.Context, userID string, year int, month time.Month, actorID string, now time.Time) (shift.RegistrationLock, error) {
	if err := g.requireLockUnlock(ctx, actorID); err != nil {
		return shift.RegistrationLock{}, err
	}

	lock, err := g.RegistrationLockRepository.Upsert(ctx, shift.RegistrationLock{
		UserID:     userID,
		Year:       year,
		Month:      month,
		IsUnlocked: true,
		UnlockedBy: &actorID,
		UnlockedAt: &now,
	})
	if err != nil {
		return shift.RegistrationLock{}, fmt.Errorf("unlock registration: %w", err)
	}
	slog.Info("registration unlocked", "user_id", userID, "year", year, "month", int(month), "actor_id", actorID)
	return lock, nil
}

// SetLock implements shift.RegistrationLockService.
func (g *RegistrationGuard) SetLock(ctx context.Context, userID string, year int, month time.Month, actorID string, now time.Time) (shift.RegistrationLock, error) {
	if err := g.requireLockUnlock(ctx, actorID); err != nil {
		return shift.RegistrationLock{}, err
	}

	lock := shift.RegistrationLock{UserID: userID, Year: year, Month: month}
	existing, err := g.RegistrationLockRepository.Get(ctx, userID, year, month)
	switch {
	case err == nil:
		lock = existing
	case errors.Is(err, shift.ErrLockNotFound):
	default:
		return shift.RegistrationLock{}, fmt.Errorf("get registration lock: %w", err)
	}
	lock.IsUnlocked = false

	saved, err := g.RegistrationLockRepository.Upsert(ctx, lock)
	if err != nil {
		return shift.RegistrationLock{}, fmt.Errorf("lock registration: %w", err)
	}
	slog.Info("registration locked", "user_id", userID, "year", year, "month", int(month), "actor_id", actorID)
	return saved, nil
}
