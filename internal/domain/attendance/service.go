package attendance

import (
	"context"
	"time"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// RecordAttendance records a clock event for the actor or, with forceClockInOut, for another user.
	RecordAttendance(ctx context.Context, actorID string, req RecordAttendanceRequest, now time.Time) (Attendance, error)

	// RecordCorrection writes the audit row and then applies the new clock time.
	RecordCorrection(ctx context.Context, actorID string, req CorrectionRequest) (Correction, error)

	// DeleteAttendance is an owner undo inside the undo window, otherwise an
	// administrative delete requiring editOthers. Corrections are removed with it.
	DeleteAttendance(ctx context.Context, actorID, attendanceID string, now time.Time) error

	// CanUndo reports whether the actor may undo the record without elevated permission.
	CanUndo(a Attendance, actorID string, now time.Time) bool

	GetAttendance(ctx context.Context, actorID, attendanceID string) (Attendance, error)
	ListAttendance(ctx context.Context, actorID string, filter ListAttendanceFilter) ([]Attendance, error)
	ListCorrections(ctx context.Context, actorID, attendanceID string) ([]Correction, error)
}
