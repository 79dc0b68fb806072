package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/permission"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/shift"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/user"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}

const shiftColumns = `id, user_id, date, start_time, end_time, status, reviewed_by, reviewed_at, created_at, updated_at`

func scanShift(row pgx.Row) (shift.Shift, error) {
	var s shift.Shift
	err := row.Scan(
		&s.ID, &s.UserID, &s.Date, &s.StartTime, &s.EndTime, &s.Status,
		&s.ReviewedBy, &s.ReviewedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanShift(q.QueryRow(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}
	return s, nil
}

// GetByUserAndDate implements shift.ShiftRepository.
func (r *shiftRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE user_id = $1 AND date = $2`
	s, err := scanShift(q.QueryRow(ctx, query, userID, date))
	if err != nil {
		if isNoRows(err) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift by user and date: %w", err)
	}
	return s, nil
}

// Create implements shift.ShiftRepository.
func (r *shiftRepository) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shifts (user_id, date, start_time, end_time, status, reviewed_by, reviewed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + shiftColumns

	created, err := scanShift(q.QueryRow(ctx, query,
		s.UserID, s.Date, s.StartTime, s.EndTime, s.Status, s.ReviewedBy, s.ReviewedAt,
	))
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return shift.Shift{}, shift.ErrShiftExists
		case isForeignKeyViolation(err):
			return shift.Shift{}, user.ErrUserNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to create shift: %w", err)
	}
	return created, nil
}

// UpdateStatus implements shift.ShiftRepository. The update only applies
// while the stored status still equals from.
func (r *shiftRepository) UpdateStatus(ctx context.Context, id string, from, to shift.Status, reviewerID string, at time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts
		SET status = $3, reviewed_by = $4, reviewed_at = $5, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`
	tag, err := q.Exec(ctx, query, id, from, to, reviewerID, at)
	if err != nil {
		return false, fmt.Errorf("failed to update shift status: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

// Delete implements shift.ShiftRepository.
func (r *shiftRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM shifts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

// DeleteByUserAndDate implements shift.ShiftRepository.
func (r *shiftRepository) DeleteByUserAndDate(ctx context.Context, userID string, date time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM shifts WHERE user_id = $1 AND date = $2`, userID, date)
	if err != nil {
		return 0, fmt.Errorf("failed to delete shift by date: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// DeleteByUser implements shift.ShiftRepository.
func (r *shiftRepository) DeleteByUser(ctx context.Context, userID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM shifts WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user shifts: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepository) List(ctx context.Context, scope permission.Scope, f shift.ListShiftFilter) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	var w filter
	w.scope(scope, "user_id")
	if f.UserID != nil {
		w.add("user_id = $%d", *f.UserID)
	}
	w.dateRange("date", f.From, f.To)
	if f.Status != nil {
		w.add("status = $%d", *f.Status)
	}

	query := fmt.Sprintf(`SELECT %s FROM shifts %s ORDER BY date, id`, shiftColumns, w.where())
	rows, err := q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	shifts := make([]shift.Shift, 0)
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

type registrationLockRepository struct {
	db *database.DB
}

func NewRegistrationLockRepository(db *database.DB) shift.RegistrationLockRepository {
	return &registrationLockRepository{db: db}
}

const lockColumns = `user_id, year, month, is_unlocked, unlocked_by, unlocked_at, updated_at`

func scanLock(row pgx.Row) (shift.RegistrationLock, error) {
	var l shift.RegistrationLock
	var month int
	err := row.Scan(&l.UserID, &l.Year, &month, &l.IsUnlocked, &l.UnlockedBy, &l.UnlockedAt, &l.UpdatedAt)
	l.Month = time.Month(month)
	return l, err
}

// Get implements shift.RegistrationLockRepository.
func (r *registrationLockRepository) Get(ctx context.Context, userID string, year int, month time.Month) (shift.RegistrationLock, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + lockColumns + ` FROM shift_registration_locks WHERE user_id = $1 AND year = $2 AND month = $3`
	l, err := scanLock(q.QueryRow(ctx, query, userID, year, int(month)))
	if err != nil {
		if isNoRows(err) {
			return shift.RegistrationLock{}, shift.ErrLockNotFound
		}
		return shift.RegistrationLock{}, fmt.Errorf("failed to get registration lock: %w", err)
	}
	return l, nil
}

// Upsert implements shift.RegistrationLockRepository.
func (r *registrationLockRepository) Upsert(ctx context.Context, l shift.RegistrationLock) (shift.RegistrationLock, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_registration_locks (user_id, year, month, is_unlocked, unlocked_by, unlocked_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, year, month) DO UPDATE
		SET is_unlocked = EXCLUDED.is_unlocked,
			unlocked_by = EXCLUDED.unlocked_by,
			unlocked_at = EXCLUDED.unlocked_at,
			updated_at = NOW()
		RETURNING ` + lockColumns

	saved, err := scanLock(q.QueryRow(ctx, query,
		l.UserID, l.Year, int(l.Month), l.IsUnlocked, l.UnlockedBy, l.UnlockedAt,
	))
	if err != nil {
		if isForeignKeyViolation(err) {
			return shift.RegistrationLock{}, user.ErrUserNotFound
		}
		return shift.RegistrationLock{}, fmt.Errorf("failed to upsert registration lock: %w", err)
	}
	return saved, nil
}

// DeleteByUser implements shift.RegistrationLockRepository.
func (r *registrationLockRepository) DeleteByUser(ctx context.Context, userID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM shift_registration_locks WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete registration locks: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
