package attendance

import "github.com/cmlabs-hris/workforce-guard/internal/pkg/apperror"

// Attendance domain errors
var (
	ErrAttendanceNotFound = apperror.New(apperror.ErrNotFound, "attendance record not found")
	ErrAlreadyRecorded    = apperror.New(apperror.ErrConflict, "attendance of this type is already recorded for the day")
	ErrUndoWindowElapsed  = apperror.New(apperror.ErrOutOfWindow, "the undo window for this record has elapsed")
	ErrEditOthersRequired = apperror.New(apperror.ErrForbidden, "editOthers permission required")
	ErrForceClockRequired = apperror.New(apperror.ErrForbidden, "forceClockInOut permission required")
	ErrUnauthorized       = apperror.New(apperror.ErrForbidden, "unauthorized to access this attendance record")
	ErrUnchangedClockTime = apperror.New(apperror.ErrInvalidState, "new clock time equals the current one")
)
