package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/permission"
)

type attendanceRepository struct {
	s *Store
}

func NewAttendanceRepository(s *Store) attendance.AttendanceRepository {
	return &attendanceRepository{s: s}
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("attendances.GetByID"); err != nil {
		return attendance.Attendance{}, err
	}

	a, ok := r.s.data.attendances[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("attendances.Create"); err != nil {
		return attendance.Attendance{}, err
	}

	for _, existing := range r.s.data.attendances {
		if existing.UserID == a.UserID && existing.Type == a.Type && sameDay(existing.Date, a.Date) {
			return attendance.Attendance{}, attendance.ErrAlreadyRecorded
		}
	}

	if a.ID == "" {
		a.ID = newID()
	}
	now := r.s.now()
	a.CreatedAt = now
	a.UpdatedAt = now
	r.s.data.attendances[a.ID] = a
	return a, nil
}

func (r *attendanceRepository) UpdateClockTime(ctx context.Context, id string, clockTime time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("attendances.UpdateClockTime"); err != nil {
		return err
	}

	a, ok := r.s.data.attendances[id]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	day := attendance.Day(clockTime)
	for otherID, other := range r.s.data.attendances {
		if otherID != id && other.UserID == a.UserID && other.Type == a.Type && sameDay(other.Date, day) {
			return attendance.ErrAlreadyRecorded
		}
	}
	a.ClockTime = clockTime
	a.Date = day
	a.UpdatedAt = r.s.now()
	r.s.data.attendances[id] = a
	return nil
}

func (r *attendanceRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("attendances.Delete"); err != nil {
		return err
	}

	if _, ok := r.s.data.attendances[id]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	delete(r.s.data.attendances, id)
	return nil
}

func (r *attendanceRepository) DeleteByUser(ctx context.Context, userID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("attendances.DeleteByUser"); err != nil {
		return 0, err
	}

	n := 0
	for id, a := range r.s.data.attendances {
		if a.UserID == userID {
			delete(r.s.data.attendances, id)
			n++
		}
	}
	return n, nil
}

func (r *attendanceRepository) List(ctx context.Context, scope permission.Scope, filter attendance.ListAttendanceFilter) ([]attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("attendances.List"); err != nil {
		return nil, err
	}

	records := []attendance.Attendance{}
	for _, a := range r.s.data.attendances {
		if !r.s.includes(scope, a.UserID) {
			continue
		}
		if filter.UserID != nil && a.UserID != *filter.UserID {
			continue
		}
		if filter.Type != nil && a.Type != *filter.Type {
			continue
		}
		if !inRange(a.Date, filter.From, filter.To) {
			continue
		}
		records = append(records, a)
	}
	sortByDate(records, func(a attendance.Attendance) time.Time { return a.ClockTime }, func(a attendance.Attendance) string { return a.ID })
	return records, nil
}

type correctionRepository struct {
	s *Store
}

func NewCorrectionRepository(s *Store) attendance.CorrectionRepository {
	return &correctionRepository{s: s}
}

func (r *correctionRepository) Create(ctx context.Context, c attendance.Correction) (attendance.Correction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("corrections.Create"); err != nil {
		return attendance.Correction{}, err
	}

	if _, ok := r.s.data.attendances[c.AttendanceID]; !ok {
		return attendance.Correction{}, attendance.ErrAttendanceNotFound
	}
	if c.ID == "" {
		c.ID = newID()
	}
	c.CreatedAt = r.s.now()
	r.s.data.corrections[c.ID] = c
	return c, nil
}

func (r *correctionRepository) ListByAttendance(ctx context.Context, attendanceID string) ([]attendance.Correction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("corrections.ListByAttendance"); err != nil {
		return nil, err
	}

	corrections := []attendance.Correction{}
	for _, c := range r.s.data.corrections {
		if c.AttendanceID == attendanceID {
			corrections = append(corrections, c)
		}
	}
	sortByDate(corrections, func(c attendance.Correction) time.Time { return c.CreatedAt }, func(c attendance.Correction) string { return c.ID })
	return corrections, nil
}

func (r *correctionRepository) DeleteByAttendance(ctx context.Context, attendanceID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("corrections.DeleteByAttendance"); err != nil {
		return 0, err
	}

	n := 0
	for id, c := range r.s.data.corrections {
		if c.AttendanceID == attendanceID {
			delete(r.s.data.corrections, id)
			n++
		}
	}
	return n, nil
}

func (r *correctionRepository) DeleteByUser(ctx context.Context, userID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("corrections.DeleteByUser"); err != nil {
		return 0, err
	}

	n := 0
	for id, c := range r.s.data.corrections {
		if a, ok := r.s.data.attendances[c.AttendanceID]; ok && a.UserID == userID {
			delete(r.s.data.corrections, id)
			n++
		}
	}
	return n, nil
}
