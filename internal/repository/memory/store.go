// Package memory is an in-process implementation of every repository. It
// backs service tests and local runs without PostgreSQL.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/expense"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/permission"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/role"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/setting"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/shift"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/user"
	"github.com/google/uuid"
)

type lockKey struct {
	userID string
	year   int
	month  time.Month
}

type tables struct {
	roles       map[string]role.Role
	users       map[string]user.User
	shifts      map[string]shift.Shift
	locks       map[lockKey]shift.RegistrationLock
	attendances map[string]attendance.Attendance
	corrections map[string]attendance.Correction
	expenses    map[string]expense.Expense
	settings    map[string]setting.Setting
	sequences   map[string]int
}

func newTables() tables {
	return tables{
		roles:       make(map[string]role.Role),
		users:       make(map[string]user.User),
		shifts:      make(map[string]shift.Shift),
		locks:       make(map[lockKey]shift.RegistrationLock),
		attendances: make(map[string]attendance.Attendance),
		corrections: make(map[string]attendance.Correction),
		expenses:    make(map[string]expense.Expense),
		settings:    make(map[string]setting.Setting),
		sequences:   make(map[string]int),
	}
}

func (t tables) clone() tables {
	c := newTables()
	for k, v := range t.roles {
		v.Permissions = v.Permissions.Clone()
		v.PageAccess = clonePages(v.PageAccess)
		c.roles[k] = v
	}
	for k, v := range t.users {
		v.ManagerIDs = append([]string(nil), v.ManagerIDs...)
		c.users[k] = v
	}
	for k, v := range t.shifts {
		c.shifts[k] = v
	}
	for k, v := range t.locks {
		c.locks[k] = v
	}
	for k, v := range t.attendances {
		c.attendances[k] = v
	}
	for k, v := range t.corrections {
		c.corrections[k] = v
	}
	for k, v := range t.expenses {
		c.expenses[k] = v
	}
	for k, v := range t.settings {
		c.settings[k] = v
	}
	for k, v := range t.sequences {
		c.sequences[k] = v
	}
	return c
}

func clonePages(p role.PageAccess) role.PageAccess {
	if p == nil {
		return nil
	}
	c := make(role.PageAccess, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// Store holds every table. Mutations made inside WithinTransaction are rolled
// back when fn fails; transactions are serialized.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	data tables
	now  func() time.Time

	failOn map[string]error
}

func NewStore() *Store {
	return &Store{
		data:   newTables(),
		now:    time.Now,
		failOn: make(map[string]error),
	}
}

// SetNow overrides the timestamp source for created_at / updated_at.
func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// FailOn makes the named operation, e.g. "expenses.DeleteByUser", return err.
// A nil err clears the injection.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failOn, op)
		return
	}
	s.failOn[op] = err
}

// fail returns the failure injected for op. Callers hold s.mu.
func (s *Store) fail(op string) error {
	return s.failOn[op]
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

type txMarker struct{}

// WithinTransaction implements database.Transactor.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txMarker{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txMarker{}, true)); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// Counts reports the number of rows per table, for assertions.
type Counts struct {
	Roles       int
	Users       int
	Shifts      int
	Locks       int
	Attendances int
	Corrections int
	Expenses    int
}

func (s *Store) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Counts{
		Roles:       len(s.data.roles),
		Users:       len(s.data.users),
		Shifts:      len(s.data.shifts),
		Locks:       len(s.data.locks),
		Attendances: len(s.data.attendances),
		Corrections: len(s.data.corrections),
		Expenses:    len(s.data.expenses),
	}
}

// includes applies scope to the owner of a row. Callers hold s.mu.
func (s *Store) includes(scope permission.Scope, ownerID string) bool {
	if scope.Kind == permission.ScopeCompany {
		u, ok := s.data.users[ownerID]
		return ok && scope.Includes(u)
	}
	return scope.IncludesID(ownerID)
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

func sortByDate[T any](rows []T, date func(T) time.Time, id func(T) string) {
	sort.Slice(rows, func(i, j int) bool {
		di, dj := date(rows[i]), date(rows[j])
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return id(rows[i]) < id(rows[j])
	})
}
