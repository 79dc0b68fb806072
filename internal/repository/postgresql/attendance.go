package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/permission"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/user"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `id, user_id, type, date, clock_time, created_at, updated_at`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(&a.ID, &a.UserID, &a.Type, &a.Date, &a.ClockTime, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAttendance(q.QueryRow(ctx, `SELECT `+attendanceColumns+` FROM attendances WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return a, nil
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (user_id, type, date, clock_time)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query, a.UserID, a.Type, a.Date, a.ClockTime))
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return attendance.Attendance{}, attendance.ErrAlreadyRecorded
		case isForeignKeyViolation(err):
			return attendance.Attendance{}, user.ErrUserNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return created, nil
}

// UpdateClockTime implements attendance.AttendanceRepository. The calendar
// date follows the new clock time.
func (r *attendanceRepository) UpdateClockTime(ctx context.Context, id string, clockTime time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE attendances SET clock_time = $2, date = $3, updated_at = NOW() WHERE id = $1`
	tag, err := q.Exec(ctx, query, id, clockTime, attendance.Day(clockTime))
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.ErrAlreadyRecorded
		}
		return fmt.Errorf("failed to update clock time: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// Delete implements attendance.AttendanceRepository.
func (r *attendanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// DeleteByUser implements attendance.AttendanceRepository.
func (r *attendanceRepository) DeleteByUser(ctx context.Context, userID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendances WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user attendances: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepository) List(ctx context.Context, scope permission.Scope, f attendance.ListAttendanceFilter) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	var w filter
	w.scope(scope, "user_id")
	if f.UserID != nil {
		w.add("user_id = $%d", *f.UserID)
	}
	if f.Type != nil {
		w.add("type = $%d", *f.Type)
	}
	w.dateRange("date", f.From, f.To)

	query := fmt.Sprintf(`SELECT %s FROM attendances %s ORDER BY clock_time, id`, attendanceColumns, w.where())
	rows, err := q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

type correctionRepository struct {
	db *database.DB
}

func NewCorrectionRepository(db *database.DB) attendance.CorrectionRepository {
	return &correctionRepository{db: db}
}

const correctionColumns = `id, attendance_id, old_time, new_time, reason, comment, status, approved_by, created_at`

func scanCorrection(row pgx.Row) (attendance.Correction, error) {
	var c attendance.Correction
	err := row.Scan(
		&c.ID, &c.AttendanceID, &c.OldTime, &c.NewTime, &c.Reason, &c.Comment,
		&c.Status, &c.ApprovedBy, &c.CreatedAt,
	)
	return c, err
}

// Create implements attendance.CorrectionRepository.
func (r *correctionRepository) Create(ctx context.Context, c attendance.Correction) (attendance.Correction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO corrections (attendance_id, old_time, new_time, reason, comment, status, approved_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + correctionColumns

	created, err := scanCorrection(q.QueryRow(ctx, query,
		c.AttendanceID, c.OldTime, c.NewTime, c.Reason, c.Comment, c.Status, c.ApprovedBy,
	))
	if err != nil {
		if isForeignKeyViolation(err) {
			return attendance.Correction{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Correction{}, fmt.Errorf("failed to create correction: %w", err)
	}
	return created, nil
}

// ListByAttendance implements attendance.CorrectionRepository.
func (r *correctionRepository) ListByAttendance(ctx context.Context, attendanceID string) ([]attendance.Correction, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + correctionColumns + ` FROM corrections WHERE attendance_id = $1 ORDER BY created_at, id`
	rows, err := q.Query(ctx, query, attendanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list corrections: %w", err)
	}
	defer rows.Close()

	corrections := make([]attendance.Correction, 0)
	for rows.Next() {
		c, err := scanCorrection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan correction: %w", err)
		}
		corrections = append(corrections, c)
	}
	return corrections, rows.Err()
}

// DeleteByAttendance implements attendance.CorrectionRepository.
func (r *correctionRepository) DeleteByAttendance(ctx context.Context, attendanceID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM corrections WHERE attendance_id = $1`, attendanceID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete corrections: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// DeleteByUser implements attendance.CorrectionRepository.
func (r *correctionRepository) DeleteByUser(ctx context.Context, userID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM corrections WHERE attendance_id IN (SELECT id FROM attendances WHERE user_id = $1)`
	tag, err := q.Exec(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user corrections: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
