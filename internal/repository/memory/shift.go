package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/permission"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/shift"
)

type shiftRepository struct {
	s *Store
}

func NewShiftRepository(s *Store) shift.ShiftRepository {
	return &shiftRepository{s: s}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("shifts.GetByID"); err != nil {
		return shift.Shift{}, err
	}

	s, ok := r.s.data.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return s, nil
}

func (r *shiftRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (shift.Shift, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("shifts.GetByUserAndDate"); err != nil {
		return shift.Shift{}, err
	}

	for _, s := range r.s.data.shifts {
		if s.UserID == userID && sameDay(s.Date, date) {
			return s, nil
		}
	}
	return shift.Shift{}, shift.ErrShiftNotFound
}

func (r *shiftRepository) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("shifts.Create"); err != nil {
		return shift.Shift{}, err
	}

	for _, existing := range r.s.data.shifts {
		if existing.UserID == s.UserID && sameDay(existing.Date, s.Date) {
			return shift.Shift{}, shift.ErrShiftExists
		}
	}

	if s.ID == "" {
		s.ID = newID()
	}
	now := r.s.now()
	s.CreatedAt = now
	s.UpdatedAt = now
	r.s.data.shifts[s.ID] = s
	return s, nil
}

func (r *shiftRepository) UpdateStatus(ctx context.Context, id string, from, to shift.Status, reviewerID string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("shifts.UpdateStatus"); err != nil {
		return false, err
	}

	s, ok := r.s.data.shifts[id]
	if !ok {
		return false, shift.ErrShiftNotFound
	}
	if s.Status != from {
		return false, nil
	}
	s.Status = to
	s.ReviewedBy = &reviewerID
	s.ReviewedAt = &at
	s.UpdatedAt = r.s.now()
	r.s.data.shifts[id] = s
	return true, nil
}

func (r *shiftRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("shifts.Delete"); err != nil {
		return err
	}

	if _, ok := r.s.data.shifts[id]; !ok {
		return shift.ErrShiftNotFound
	}
	delete(r.s.data.shifts, id)
	return nil
}

func (r *shiftRepository) DeleteByUserAndDate(ctx context.Context, userID string, date time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("shifts.DeleteByUserAndDate"); err != nil {
		return 0, err
	}

	n := 0
	for id, s := range r.s.data.shifts {
		if s.UserID == userID && sameDay(s.Date, date) {
			delete(r.s.data.shifts, id)
			n++
		}
	}
	return n, nil
}

func (r *shiftRepository) DeleteByUser(ctx context.Context, userID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("shifts.DeleteByUser"); err != nil {
		return 0, err
	}

	n := 0
	for id, s := range r.s.data.shifts {
		if s.UserID == userID {
			delete(r.s.data.shifts, id)
			n++
		}
	}
	return n, nil
}

func (r *shiftRepository) List(ctx context.Context, scope permission.Scope, filter shift.ListShiftFilter) ([]shift.Shift, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("shifts.List"); err != nil {
		return nil, err
	}

	shifts := []shift.Shift{}
	for _, s := range r.s.data.shifts {
		if !r.s.includes(scope, s.UserID) {
			continue
		}
		if filter.UserID != nil && s.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		if !inRange(s.Date, filter.From, filter.To) {
			continue
		}
		shifts = append(shifts, s)
	}
	sortByDate(shifts, func(s shift.Shift) time.Time { return s.Date }, func(s shift.Shift) string { return s.ID })
	return shifts, nil
}

type registrationLockRepository struct {
	s *Store
}

func NewRegistrationLockRepository(s *Store) shift.RegistrationLockRepository {
	return &registrationLockRepository{s: s}
}

func (r *registrationLockRepository) Get(ctx context.Context, userID string, year int, month time.Month) (shift.RegistrationLock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("locks.Get"); err != nil {
		return shift.RegistrationLock{}, err
	}

	l, ok := r.s.data.locks[lockKey{userID, year, month}]
	if !ok {
		return shift.RegistrationLock{}, shift.ErrLockNotFound
	}
	return l, nil
}

func (r *registrationLockRepository) Upsert(ctx context.Context, l shift.RegistrationLock) (shift.RegistrationLock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("locks.Upsert"); err != nil {
		return shift.RegistrationLock{}, err
	}

	l.UpdatedAt = r.s.now()
	r.s.data.locks[lockKey{l.UserID, l.Year, l.Month}] = l
	return l, nil
}

func (r *registrationLockRepository) DeleteByUser(ctx context.Context, userID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("locks.DeleteByUser"); err != nil {
		return 0, err
	}

	n := 0
	for k := range r.s.data.locks {
		if k.userID == userID {
			delete(r.s.data.locks, k)
			n++
		}
	}
	return n, nil
}
