package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/permission"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/role"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/user"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/metrics"
	"github.com/cmlabs-hris/workforce-guard/internal/service/guard"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	correctionRepo attendance.CorrectionRepository
	userRepo       user.UserRepository
	evaluator      permission.Evaluator
	transactor     database.Transactor
	metrics        *metrics.Recorder
	undoWindow     time.Duration
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	correctionRepo attendance.CorrectionRepository,
	userRepo user.UserRepository,
	evaluator permission.Evaluator,
	transactor database.Transactor,
	recorder *metrics.Recorder,
	undoWindow time.Duration,
) attendance.AttendanceService {
	if undoWindow <= 0 {
		undoWindow = guard.DefaultUndoWindow
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		correctionRepo:       correctionRepo,
		userRepo:             userRepo,
		evaluator:            evaluator,
		transactor:           transactor,
		metrics:              recorder,
		undoWindow:           undoWindow,
	}
}

func (a *AttendanceServiceImpl) allows(ctx context.Context, actorID, subjectID string, action role.Action) (bool, error) {
	return a.evaluator.HasPermissionForUser(ctx, actorID, subjectID, role.CategoryAttendanceManagement, action)
}

// RecordAttendance implements attendance.AttendanceService. Recording for
// someone else, or at an explicit clock time, needs forceClockInOut.
func (a *AttendanceServiceImpl) RecordAttendance(ctx context.Context, actorID string, req attendance.RecordAttendanceRequest, now time.Time) (attendance.Attendance, error) {
	if err := req.Validate(); err != nil {
		return attendance.Attendance{}, err
	}

	if req.UserID != actorID || req.ParsedClockTime != nil {
		ok, err := a.allows(ctx, actorID, req.UserID, role.ActionForceClockInOut)
		if err != nil {
			return attendance.Attendance{}, err
		}
		if !ok {
			return attendance.Attendance{}, attendance.ErrForceClockRequired
		}
	}

	if _, err := a.userRepo.GetByID(ctx, req.UserID); err != nil {
		return attendance.Attendance{}, err
	}

	clockTime := now
	if req.ParsedClockTime != nil {
		clockTime = req.ParsedClockTime.In(now.Location())
	}

	return a.AttendanceRepository.Create(ctx, attendance.Attendance{
		UserID:    req.UserID,
		Type:      req.Type,
		Date:      attendance.Day(clockTime),
		ClockTime: clockTime,
	})
}

// RecordCorrection implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RecordCorrection(ctx context.Context, actorID string, req attendance.CorrectionRequest) (attendance.Correction, error) {
	if err := req.Validate(); err != nil {
		return attendance.Correction{}, err
	}

	current, err := a.AttendanceRepository.GetByID(ctx, req.AttendanceID)
	if err != nil {
		return attendance.Correction{}, err
	}

	ok, err := a.allows(ctx, actorID, current.UserID, role.ActionEditOthers)
	if err != nil {
		return attendance.Correction{}, err
	}
	if !ok {
		return attendance.Correction{}, attendance.ErrEditOthersRequired
	}

	newTime := req.ParsedNewTime.In(current.ClockTime.Location())
	if newTime.Equal(current.ClockTime) {
		return attendance.Correction{}, attendance.ErrUnchangedClockTime
	}

	var correction attendance.Correction
	err = a.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		correction, err = a.correctionRepo.Create(ctx, attendance.Correction{
			AttendanceID: current.ID,
			OldTime:      current.ClockTime,
			NewTime:      newTime,
			Reason:       req.Reason,
			Comment:      req.Comment,
			Status:       attendance.CorrectionApproved,
			ApprovedBy:   actorID,
		})
		if err != nil {
			return fmt.Errorf("record correction: %w", err)
		}
		return a.AttendanceRepository.UpdateClockTime(ctx, current.ID, newTime)
	})
	if err != nil {
		return attendance.Correction{}, err
	}

	slog.Info("attendance corrected",
		"attendance_id", current.ID, "old_time", current.ClockTime, "new_time", newTime, "actor_id", actorID)
	return correction, nil
}

// CanUndo implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CanUndo(record attendance.Attendance, actorID string, now time.Time) bool {
	return guard.CanUndo(record.UserID, record.ClockTime, actorID, now, a.undoWindow)
}

// DeleteAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, actorID, attendanceID string, now time.Time) error {
	record, err := a.AttendanceRepository.GetByID(ctx, attendanceID)
	if err != nil {
		return err
	}

	undo := a.CanUndo(record, actorID, now)
	if !undo {
		ok, err := a.allows(ctx, actorID, record.UserID, role.ActionEditOthers)
		if err != nil {
			return err
		}
		if !ok {
			if actorID == record.UserID {
				a.metrics.GuardRejected(metrics.GuardUndo)
				return attendance.ErrUndoWindowElapsed
			}
			return attendance.ErrEditOthersRequired
		}
	}

	var removed int
	err = a.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if removed, err = a.correctionRepo.DeleteByAttendance(ctx, attendanceID); err != nil {
			return fmt.Errorf("delete corrections: %w", err)
		}
		return a.AttendanceRepository.Delete(ctx, attendanceID)
	})
	if err != nil {
		return err
	}

	slog.Info("attendance deleted",
		"attendance_id", attendanceID, "undo", undo, "corrections", removed, "actor_id", actorID)
	return nil
}

// GetAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, actorID, attendanceID string) (attendance.Attendance, error) {
	record, err := a.AttendanceRepository.GetByID(ctx, attendanceID)
	if err != nil {
		return attendance.Attendance{}, err
	}

	ok, err := a.allows(ctx, actorID, record.UserID, role.ActionView)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if !ok {
		return attendance.Attendance{}, attendance.ErrUnauthorized
	}
	return record, nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, actorID string, filter attendance.ListAttendanceFilter) ([]attendance.Attendance, error) {
	scope, err := a.evaluator.ResolveScope(ctx, actorID, role.CategoryAttendanceManagement, role.ActionView)
	if err != nil {
		return nil, err
	}
	return a.AttendanceRepository.List(ctx, scope, filter)
}

// ListCorrections implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListCorrections(ctx context.Context, actorID, attendanceID string) ([]attendance.Correction, error) {
	if _, err := a.GetAttendance(ctx, actorID, attendanceID); err != nil {
		return nil, err
	}
	return a.correctionRepo.ListByAttendance(ctx, attendanceID)
}
