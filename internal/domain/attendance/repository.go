package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/permission"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	GetByID(ctx context.Context, id string) (Attendance, error)

	// Create fails with ErrAlreadyRecorded when (user_id, type, date) is taken.
	Create(ctx context.Context, a Attendance) (Attendance, error)

	// UpdateClockTime also moves the record to the calendar day of clockTime.
	UpdateClockTime(ctx context.Context, id string, clockTime time.Time) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) (int, error)

	List(ctx context.Context, scope permission.Scope, filter ListAttendanceFilter) ([]Attendance, error)
}

// CorrectionRepository stores the clock time audit ledger.
type CorrectionRepository interface {
	Create(ctx context.Context, c Correction) (Correction, error)
	ListByAttendance(ctx context.Context, attendanceID string) ([]Correction, error)
	DeleteByAttendance(ctx context.Context, attendanceID string) (int, error)

	// DeleteByUser removes corrections of every attendance owned by userID.
	DeleteByUser(ctx context.Context, userID string) (int, error)
}
