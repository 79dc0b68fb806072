package shift

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/permission"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/role"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/shift"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/user"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/clock"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/metrics"
)

type ShiftServiceImpl struct {
	shift.ShiftRepository
	userRepo   user.UserRepository
	locks      shift.RegistrationLockService
	evaluator  permission.Evaluator
	transactor database.Transactor
	clock      clock.Clock
	metrics    *metrics.Recorder
}

func NewShiftService(
	shiftRepo shift.ShiftRepository,
	userRepo user.UserRepository,
	locks shift.RegistrationLockService,
	evaluator permission.Evaluator,
	transactor database.Transactor,
	clk clock.Clock,
	recorder *metrics.Recorder,
) shift.ShiftService {
	return &ShiftServiceImpl{
		ShiftRepository: shiftRepo,
		userRepo:        userRepo,
		locks:           locks,
		evaluator:       evaluator,
		transactor:      transactor,
		clock:           clk,
		metrics:         recorder,
	}
}

// RequestShift implements shift.ShiftService.
func (s *ShiftServiceImpl) RequestShift(ctx context.Context, actorID string, req shift.RequestShiftRequest) (shift.Shift, error) {
	if err := req.Validate(); err != nil {
		return shift.Shift{}, err
	}

	ok, err := s.evaluator.HasPermissionForUser(ctx, actorID, req.UserID, role.CategoryShiftManagement, role.ActionEdit)
	if err != nil {
		return shift.Shift{}, err
	}
	if !ok {
		return shift.Shift{}, shift.ErrNotAllowed
	}

	if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
		return shift.Shift{}, err
	}

	now := s.clock.Now()
	date := req.ParsedDate
	locked, err := s.locks.IsLockedForRegistration(ctx, req.UserID, date.Year(), date.Month(), now)
	if err != nil {
		return shift.Shift{}, err
	}
	if locked {
		s.metrics.GuardRejected(metrics.GuardRegistration)
		return shift.Shift{}, shift.ErrRegistrationLocked
	}

	return s.ShiftRepository.Create(ctx, shift.Shift{
		UserID:    req.UserID,
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    shift.StatusPending,
	})
}

// ForceRegister implements shift.ShiftService. It bypasses the registration
// lock and replaces any shift already on the same (user, date).
func (s *ShiftServiceImpl) ForceRegister(ctx context.Context, actorID string, req shift.ForceRegisterRequest) ([]shift.Shift, error) {
	ok, err := s.evaluator.HasPermission(ctx, actorID, role.CategoryShiftManagement, role.ActionForceRegister)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shift.ErrForceRegisterRequired
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	created := make([]shift.Shift, 0, len(req.Entries))
	replaced := 0

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, e := range req.Entries {
			if _, err := s.userRepo.GetByID(ctx, e.UserID); err != nil {
				return err
			}

			n, err := s.ShiftRepository.DeleteByUserAndDate(ctx, e.UserID, e.ParsedDate)
			if err != nil {
				return fmt.Errorf("clear existing shift: %w", err)
			}
			replaced += n

			reviewer := actorID
			reviewedAt := now
			sh, err := s.ShiftRepository.Create(ctx, shift.Shift{
				UserID:     e.UserID,
				Date:       e.ParsedDate,
				StartTime:  e.StartTime,
				EndTime:    e.EndTime,
				Status:     shift.StatusApproved,
				ReviewedBy: &reviewer,
				ReviewedAt: &reviewedAt,
			})
			if err != nil {
				return err
			}
			created = append(created, sh)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("shifts force registered", "actor_id", actorID, "created", len(created), "replaced", replaced)
	return created, nil
}

// TransitionShift implements shift.ShiftService.
func (s *ShiftServiceImpl) TransitionShift(ctx context.Context, shiftID string, action shift.TransitionAction, actorID string) (shift.Shift, error) {
	target, ok := action.Target()
	if !ok {
		return shift.Shift{}, shift.ErrUnknownTransition
	}

	current, err := s.ShiftRepository.GetByID(ctx, shiftID)
	if err != nil {
		return shift.Shift{}, err
	}

	allowed, err := s.evaluator.HasPermissionForUser(ctx, actorID, current.UserID, role.CategoryShiftManagement, role.ActionApprove)
	if err != nil {
		return shift.Shift{}, err
	}
	if !allowed {
		return shift.Shift{}, shift.ErrApprovePermission
	}

	if current.Status != shift.StatusPending {
		return shift.Shift{}, shift.ErrShiftNotPending
	}

	moved, err := s.ShiftRepository.UpdateStatus(ctx, shiftID, shift.StatusPending, target, actorID, s.clock.Now())
	if err != nil {
		return shift.Shift{}, err
	}
	if !moved {
		return shift.Shift{}, shift.ErrShiftNotPending
	}

	slog.Info("shift transitioned", "shift_id", shiftID, "status", target, "actor_id", actorID)
	return s.ShiftRepository.GetByID(ctx, shiftID)
}

// GetShift implements shift.ShiftService.
func (s *ShiftServiceImpl) GetShift(ctx context.Context, actorID, shiftID string) (shift.Shift, error) {
	sh, err := s.ShiftRepository.GetByID(ctx, shiftID)
	if err != nil {
		return shift.Shift{}, err
	}

	ok, err := s.evaluator.HasPermissionForUser(ctx, actorID, sh.UserID, role.CategoryShiftManagement, role.ActionView)
	if err != nil {
		return shift.Shift{}, err
	}
	if !ok {
		return shift.Shift{}, shift.ErrNotAllowed
	}
	return sh, nil
}

// ListShifts implements shift.ShiftService.
func (s *ShiftServiceImpl) ListShifts(ctx context.Context, actorID string, filter shift.ListShiftFilter) ([]shift.Shift, error) {
	scope, err := s.evaluator.ResolveScope(ctx, actorID, role.CategoryShiftManagement, role.ActionView)
	if err != nil {
		return nil, err
	}
	return s.ShiftRepository.List(ctx, scope, filter)
}

// DeleteShift implements shift.ShiftService.
func (s *ShiftServiceImpl) DeleteShift(ctx context.Context, actorID, shiftID string) error {
	sh, err := s.ShiftRepository.GetByID(ctx, shiftID)
	if err != nil {
		return err
	}

	ok, err := s.evaluator.HasPermissionForUser(ctx, actorID, sh.UserID, role.CategoryShiftManagement, role.ActionDelete)
	if err != nil {
		return err
	}
	if !ok {
		return shift.ErrNotAllowed
	}

	if err := s.ShiftRepository.Delete(ctx, shiftID); err != nil {
		return err
	}
	slog.Info("shift deleted", "shift_id", shiftID, "user_id", sh.UserID, "actor_id", actorID)
	return nil
}
