package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/role"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/user"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/apperror"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/cache"
	"github.com/cmlabs-hris/workforce-guard/internal/repository/memory"
	permissionsvc "github.com/cmlabs-hris/workforce-guard/internal/service/permission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ctx   context.Context
	store *memory.Store
	svc   attendance.AttendanceService
	now   time.Time
	admin user.User
	staff user.User
	other user.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx:   context.Background(),
		store: memory.NewStore(),
		now:   time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC),
	}
	roles := memory.NewRoleRepository(f.store)
	users := memory.NewUserRepository(f.store)

	adminRole, err := roles.Create(f.ctx, role.Role{
		Name: "ATTENDANCE_ADMIN",
		Permissions: role.Permissions{}.Grant(role.CategoryAttendanceManagement,
			role.ActionViewAll, role.ActionForceClockInOut, role.ActionEditOthers),
	})
	require.NoError(t, err)
	staffRole, err := roles.Create(f.ctx, role.Role{Name: "STAFF", Permissions: role.Permissions{}})
	require.NoError(t, err)

	f.admin, err = users.Create(f.ctx, user.User{Name: "admin", RoleID: adminRole.ID})
	require.NoError(t, err)
	f.staff, err = users.Create(f.ctx, user.User{Name: "staff", RoleID: staffRole.ID})
	require.NoError(t, err)
	f.other, err = users.Create(f.ctx, user.User{Name: "other", RoleID: staffRole.ID})
	require.NoError(t, err)

	eval := permissionsvc.NewEvaluator(users, roles,
		cache.NewMemory[user.User](time.Minute, nil), cache.NewMemory[role.Role](time.Minute, nil), nil)
	f.svc = NewAttendanceService(
		memory.NewAttendanceRepository(f.store),
		memory.NewCorrectionRepository(f.store),
		users, eval, f.store, nil, 5*time.Minute,
	)
	return f
}

func (f *fixture) clockIn(t *testing.T, userID string) attendance.Attendance {
	t.Helper()
	a, err := f.svc.RecordAttendance(f.ctx, userID, attendance.RecordAttendanceRequest{
		UserID: userID, Type: attendance.TypeClockIn,
	}, f.now)
	require.NoError(t, err)
	return a
}

func TestRecordAttendance_Self(t *testing.T) {
	f := newFixture(t)

	a := f.clockIn(t, f.staff.ID)
	assert.Equal(t, f.now, a.ClockTime)
	assert.Equal(t, attendance.Day(f.now), a.Date)

	_, err := f.svc.RecordAttendance(f.ctx, f.staff.ID, attendance.RecordAttendanceRequest{
		UserID: f.staff.ID, Type: attendance.TypeClockIn,
	}, f.now.Add(time.Hour))
	assert.ErrorIs(t, err, attendance.ErrAlreadyRecorded)
}

func TestRecordAttendance_ForceClock(t *testing.T) {
	f := newFixture(t)
	explicit := "2025-06-10T08:30:00Z"

	_, err := f.svc.RecordAttendance(f.ctx, f.staff.ID, attendance.RecordAttendanceRequest{
		UserID: f.staff.ID, Type: attendance.TypeClockIn, ClockTime: &explicit,
	}, f.now)
	assert.ErrorIs(t, err, attendance.ErrForceClockRequired, "explicit time needs forceClockInOut")

	_, err = f.svc.RecordAttendance(f.ctx, f.other.ID, attendance.RecordAttendanceRequest{
		UserID: f.staff.ID, Type: attendance.TypeClockIn,
	}, f.now)
	assert.ErrorIs(t, err, attendance.ErrForceClockRequired, "recording for others needs forceClockInOut")

	a, err := f.svc.RecordAttendance(f.ctx, f.admin.ID, attendance.RecordAttendanceRequest{
		UserID: f.staff.ID, Type: attendance.TypeClockIn, ClockTime: &explicit,
	}, f.now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 10, 8, 30, 0, 0, time.UTC), a.ClockTime)
}

func TestDeleteAttendance_UndoWindow(t *testing.T) {
	f := newFixture(t)

	a := f.clockIn(t, f.staff.ID)
	require.NoError(t, f.svc.DeleteAttendance(f.ctx, f.staff.ID, a.ID, f.now.Add(4*time.Minute+59*time.Second)))
	assert.Zero(t, f.store.Counts().Attendances)

	a = f.clockIn(t, f.staff.ID)
	err := f.svc.DeleteAttendance(f.ctx, f.staff.ID, a.ID, f.now.Add(5*time.Minute+time.Second))
	assert.ErrorIs(t, err, attendance.ErrUndoWindowElapsed)
	assert.ErrorIs(t, err, apperror.ErrOutOfWindow)

	err = f.svc.DeleteAttendance(f.ctx, f.other.ID, a.ID, f.now)
	assert.ErrorIs(t, err, attendance.ErrEditOthersRequired, "undo is owner only")

	require.NoError(t, f.svc.DeleteAttendance(f.ctx, f.admin.ID, a.ID, f.now.Add(24*time.Hour)))
	assert.Zero(t, f.store.Counts().Attendances)
}

func TestCanUndo(t *testing.T) {
	f := newFixture(t)
	a := attendance.Attendance{UserID: f.staff.ID, ClockTime: f.now}

	assert.True(t, f.svc.CanUndo(a, f.staff.ID, f.now.Add(5*time.Minute)))
	assert.False(t, f.svc.CanUndo(a, f.staff.ID, f.now.Add(5*time.Minute+time.Nanosecond)))
	assert.False(t, f.svc.CanUndo(a, f.admin.ID, f.now))
}

func TestRecordCorrection(t *testing.T) {
	f := newFixture(t)
	a := f.clockIn(t, f.staff.ID)

	req := attendance.CorrectionRequest{AttendanceID: a.ID, NewTime: "2025-06-10T08:45:00Z", Reason: "forgot"}
	_, err := f.svc.RecordCorrection(f.ctx, f.staff.ID, req)
	assert.ErrorIs(t, err, attendance.ErrEditOthersRequired, "owners cannot correct themselves")

	same := attendance.CorrectionRequest{AttendanceID: a.ID, NewTime: "2025-06-10T09:00:00Z", Reason: "noop"}
	_, err = f.svc.RecordCorrection(f.ctx, f.admin.ID, same)
	assert.ErrorIs(t, err, attendance.ErrUnchangedClockTime)

	c, err := f.svc.RecordCorrection(f.ctx, f.admin.ID, req)
	require.NoError(t, err)
	assert.Equal(t, attendance.CorrectionApproved, c.Status)
	assert.Equal(t, f.admin.ID, c.ApprovedBy)
	assert.Equal(t, f.now, c.OldTime)

	updated, err := f.svc.GetAttendance(f.ctx, f.staff.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 10, 8, 45, 0, 0, time.UTC), updated.ClockTime)

	history, err := f.svc.ListCorrections(f.ctx, f.staff.ID, a.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestRecordCorrection_RollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	a := f.clockIn(t, f.staff.ID)
	f.store.FailOn("attendances.UpdateClockTime", assert.AnError)

	_, err := f.svc.RecordCorrection(f.ctx, f.admin.ID, attendance.CorrectionRequest{
		AttendanceID: a.ID, NewTime: "2025-06-10T08:45:00Z", Reason: "forgot",
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Zero(t, f.store.Counts().Corrections)
}

func TestDeleteAttendance_RemovesCorrections(t *testing.T) {
	f := newFixture(t)
	a := f.clockIn(t, f.staff.ID)
	_, err := f.svc.RecordCorrection(f.ctx, f.admin.ID, attendance.CorrectionRequest{
		AttendanceID: a.ID, NewTime: "2025-06-10T08:45:00Z", Reason: "forgot",
	})
	require.NoError(t, err)
	require.Equal(t, 1, f.store.Counts().Corrections)

	require.NoError(t, f.svc.DeleteAttendance(f.ctx, f.admin.ID, a.ID, f.now))
	counts := f.store.Counts()
	assert.Zero(t, counts.Attendances)
	assert.Zero(t, counts.Corrections)
}

func TestGetAndListAttendance(t *testing.T) {
	f := newFixture(t)
	mine := f.clockIn(t, f.staff.ID)
	f.clockIn(t, f.other.ID)

	_, err := f.svc.GetAttendance(f.ctx, f.other.ID, mine.ID)
	assert.ErrorIs(t, err, attendance.ErrUnauthorized)

	own, err := f.svc.ListAttendance(f.ctx, f.staff.ID, attendance.ListAttendanceFilter{})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, mine.ID, own[0].ID)

	all, err := f.svc.ListAttendance(f.ctx, f.admin.ID, attendance.ListAttendanceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
