package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/expense"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/permission"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/role"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/shift"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/user"
	"github.com/cmlabs-hris/workforce-guard/internal/fixtures"
	"github.com/cmlabs-hris/workforce-guard/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) (*TestDatabaseSetup, context.Context) {
	t.Helper()
	ctx := context.Background()

	setup, ok, err := NewTestDatabase(ctx)
	if !ok {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, err)
	require.NoError(t, setup.TruncateAllTables(ctx))
	t.Cleanup(setup.Close)
	return setup, ctx
}

func seedUser(t *testing.T, ctx context.Context, users user.UserRepository, roleID string, companyID *string, managers ...string) user.User {
	t.Helper()
	displayID, err := users.NextDisplayID(ctx, companyID)
	require.NoError(t, err)
	u, err := users.Create(ctx, user.User{
		DisplayID: displayID, Name: "member", RoleID: roleID, CompanyID: companyID, ManagerIDs: managers,
	})
	require.NoError(t, err)
	return u
}

func TestRoleRepository(t *testing.T) {
	setup, ctx := setupDB(t)
	roles := postgresql.NewRoleRepository(setup.DB)

	seeded, err := fixtures.SeedSystemRoles(ctx, roles)
	require.NoError(t, err)
	again, err := fixtures.SeedSystemRoles(ctx, roles)
	require.NoError(t, err)
	assert.Equal(t, seeded[0].ID, again[0].ID, "seeding is idempotent")

	admin, err := roles.GetByName(ctx, role.NameSuperAdmin)
	require.NoError(t, err)
	assert.True(t, admin.IsSystem)
	assert.True(t, admin.Allows(role.CategorySystemSettings, role.ActionManageRoles))

	_, err = roles.Create(ctx, role.Role{Name: role.NameStaff, DisplayName: "dup"})
	assert.ErrorIs(t, err, role.ErrDuplicateName)

	_, err = roles.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, role.ErrRoleNotFound)
}

func TestUserRepository_ManagersAndDisplayID(t *testing.T) {
	setup, ctx := setupDB(t)
	roles := postgresql.NewRoleRepository(setup.DB)
	users := postgresql.NewUserRepository(setup.DB)

	staff, err := roles.Create(ctx, role.Role{Name: "STAFF", DisplayName: "Staff"})
	require.NoError(t, err)

	partner := "p1"
	manager := seedUser(t, ctx, users, staff.ID, nil)
	member := seedUser(t, ctx, users, staff.ID, nil, manager.ID)
	external := seedUser(t, ctx, users, staff.ID, &partner)

	assert.Equal(t, "HQ0001", manager.DisplayID)
	assert.Equal(t, "HQ0002", member.DisplayID)
	assert.Equal(t, "PC-P1-0001", external.DisplayID)

	got, err := users.GetByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{manager.ID}, got.ManagerIDs)

	managed, err := users.ListManagedIDs(ctx, manager.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{member.ID}, managed)

	err = users.SetManagers(ctx, member.ID, []string{"00000000-0000-0000-0000-000000000000"})
	assert.ErrorIs(t, err, user.ErrManagerNotFound)

	count, err := roles.CountUsers(ctx, staff.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	require.NoError(t, users.Delete(ctx, manager.ID))
	got, err = users.GetByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Empty(t, got.ManagerIDs, "manager links cascade")
}

func TestShiftRepository_ScopeAndStatus(t *testing.T) {
	setup, ctx := setupDB(t)
	roles := postgresql.NewRoleRepository(setup.DB)
	users := postgresql.NewUserRepository(setup.DB)
	shifts := postgresql.NewShiftRepository(setup.DB)

	staff, err := roles.Create(ctx, role.Role{Name: "STAFF", DisplayName: "Staff"})
	require.NoError(t, err)
	partner := "p1"
	home := seedUser(t, ctx, users, staff.ID, nil)
	external := seedUser(t, ctx, users, staff.ID, &partner)

	day := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	s, err := shifts.Create(ctx, shift.Shift{UserID: home.ID, Date: day, StartTime: "09:00", EndTime: "18:00", Status: shift.StatusPending})
	require.NoError(t, err)
	_, err = shifts.Create(ctx, shift.Shift{UserID: external.ID, Date: day, StartTime: "09:00", EndTime: "18:00", Status: shift.StatusPending})
	require.NoError(t, err)

	_, err = shifts.Create(ctx, shift.Shift{UserID: home.ID, Date: day, StartTime: "10:00", EndTime: "11:00", Status: shift.StatusPending})
	assert.ErrorIs(t, err, shift.ErrShiftExists)

	list, err := shifts.List(ctx, permission.CompanyScope(nil), shift.ListShiftFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, home.ID, list[0].UserID)

	list, err = shifts.List(ctx, permission.CompanyScope(&partner), shift.ListShiftFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, external.ID, list[0].UserID)

	list, err = shifts.List(ctx, permission.UsersScope(), shift.ListShiftFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	ok, err := shifts.UpdateStatus(ctx, s.ID, shift.StatusPending, shift.StatusApproved, home.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = shifts.UpdateStatus(ctx, s.ID, shift.StatusPending, shift.StatusRejected, home.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, ok, "conditional update loses once the status moved")
}

func TestCascadeRollsBackInTransaction(t *testing.T) {
	setup, ctx := setupDB(t)
	roles := postgresql.NewRoleRepository(setup.DB)
	users := postgresql.NewUserRepository(setup.DB)
	attendances := postgresql.NewAttendanceRepository(setup.DB)
	corrections := postgresql.NewCorrectionRepository(setup.DB)
	expenses := postgresql.NewExpenseRepository(setup.DB)
	transactor := postgresql.NewTransactor(setup.DB)

	staff, err := roles.Create(ctx, role.Role{Name: "STAFF", DisplayName: "Staff"})
	require.NoError(t, err)
	u := seedUser(t, ctx, users, staff.ID, nil)

	clock := time.Date(2025, 6, 20, 9, 0, 0, 0, time.UTC)
	a, err := attendances.Create(ctx, attendance.Attendance{UserID: u.ID, Type: attendance.TypeClockIn, Date: attendance.Day(clock), ClockTime: clock})
	require.NoError(t, err)
	_, err = corrections.Create(ctx, attendance.Correction{
		AttendanceID: a.ID, OldTime: clock, NewTime: clock.Add(-time.Minute),
		Reason: "badge", Status: attendance.CorrectionApproved, ApprovedBy: u.ID,
	})
	require.NoError(t, err)
	_, err = expenses.Create(ctx, expense.Expense{UserID: u.ID, Date: attendance.Day(clock), Type: expense.TypeMeal, Amount: 500, Status: expense.StatusPending})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := corrections.DeleteByUser(ctx, u.ID); err != nil {
			return err
		}
		if _, err := attendances.DeleteByUser(ctx, u.ID); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = attendances.GetByID(ctx, a.ID)
	require.NoError(t, err, "rolled back")
	history, err := corrections.ListByAttendance(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
