package role

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/role"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/user"
	"github.com/cmlabs-hris/workforce-guard/internal/fixtures"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/apperror"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/cache"
	"github.com/cmlabs-hris/workforce-guard/internal/repository/memory"
	permissionsvc "github.com/cmlabs-hris/workforce-guard/internal/service/permission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ctx    context.Context
	roles  role.RoleRepository
	users  user.UserRepository
	svc    role.RoleService
	system map[string]role.Role
	admin  user.User
	staff  user.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		ctx:    context.Background(),
		roles:  memory.NewRoleRepository(store),
		users:  memory.NewUserRepository(store),
		system: make(map[string]role.Role),
	}

	seeded, err := fixtures.SeedSystemRoles(f.ctx, f.roles)
	require.NoError(t, err)
	for _, r := range seeded {
		f.system[r.Name] = r
	}

	f.admin, err = f.users.Create(f.ctx, user.User{Name: "admin", RoleID: f.system[role.NameSuperAdmin].ID})
	require.NoError(t, err)
	f.staff, err = f.users.Create(f.ctx, user.User{Name: "staff", RoleID: f.system[role.NameStaff].ID})
	require.NoError(t, err)

	eval := permissionsvc.NewEvaluator(f.users, f.roles,
		cache.NewMemory[user.User](time.Minute, nil), cache.NewMemory[role.Role](time.Minute, nil), nil)
	f.svc = NewRoleService(f.roles, f.users, eval)
	return f
}

func shiftLead() role.UpsertRoleRequest {
	return role.UpsertRoleRequest{
		Name:        "SHIFT_LEAD",
		DisplayName: "Shift Lead",
		Permissions: role.Permissions{}.Grant(role.CategoryShiftManagement, role.ActionApprove),
		PageAccess:  role.PageAccess{role.PageShifts: true},
	}
}

func TestCreateRole(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateRole(f.ctx, f.staff.ID, shiftLead())
	assert.ErrorIs(t, err, role.ErrManageRolesRequired)

	created, err := f.svc.CreateRole(f.ctx, f.admin.ID, shiftLead())
	require.NoError(t, err)
	assert.False(t, created.IsSystem)
	assert.True(t, created.Allows(role.CategoryShiftManagement, role.ActionApprove))

	_, err = f.svc.CreateRole(f.ctx, f.admin.ID, shiftLead())
	assert.ErrorIs(t, err, role.ErrDuplicateName)

	bad := shiftLead()
	bad.Name = "HR"
	bad.Permissions = role.Permissions{"payroll": {"approve": true}}
	_, err = f.svc.CreateRole(f.ctx, f.admin.ID, bad)
	require.Error(t, err)
	assert.Nil(t, apperror.Kind(err))
}

func TestUpsertRole_PreservesSystemFlag(t *testing.T) {
	f := newFixture(t)

	req := role.UpsertRoleRequest{
		Name:        role.NameStaff,
		DisplayName: "Crew",
		Permissions: role.Permissions{}.Grant(role.CategoryExpenseManagement, role.ActionViewAssigned),
		PageAccess:  role.PageAccess{role.PageExpenses: true},
	}
	updated, err := f.svc.UpsertRole(f.ctx, f.admin.ID, req)
	require.NoError(t, err)
	assert.Equal(t, f.system[role.NameStaff].ID, updated.ID)
	assert.True(t, updated.IsSystem)
	assert.Equal(t, "Crew", updated.DisplayName)

	created, err := f.svc.UpsertRole(f.ctx, f.admin.ID, shiftLead())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
}

func TestDeleteRole_SystemRoleProtected(t *testing.T) {
	f := newFixture(t)
	unused := f.system[role.NameManager]

	count, err := f.roles.CountUsers(f.ctx, unused.ID)
	require.NoError(t, err)
	require.Zero(t, count)

	err = f.svc.DeleteRole(f.ctx, f.admin.ID, unused.ID)
	assert.ErrorIs(t, err, role.ErrSystemRoleProtected)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestDeleteRole_InUse(t *testing.T) {
	f := newFixture(t)
	lead, err := f.svc.CreateRole(f.ctx, f.admin.ID, shiftLead())
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err := f.users.Create(f.ctx, user.User{Name: "lead", RoleID: lead.ID})
		require.NoError(t, err)
	}

	err = f.svc.DeleteRole(f.ctx, f.admin.ID, lead.ID)
	var inUse *role.InUseError
	require.True(t, errors.As(err, &inUse))
	assert.Equal(t, 2, inUse.UserCount)
	assert.ErrorIs(t, err, role.ErrRoleInUse)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestDeleteRole(t *testing.T) {
	f := newFixture(t)
	lead, err := f.svc.CreateRole(f.ctx, f.admin.ID, shiftLead())
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.DeleteRole(f.ctx, f.staff.ID, lead.ID), role.ErrManageRolesRequired)
	require.NoError(t, f.svc.DeleteRole(f.ctx, f.admin.ID, lead.ID))

	_, err = f.svc.GetRole(f.ctx, lead.ID)
	assert.ErrorIs(t, err, role.ErrRoleNotFound)
	assert.ErrorIs(t, f.svc.DeleteRole(f.ctx, f.admin.ID, lead.ID), role.ErrRoleNotFound)
}

func TestPageAccess(t *testing.T) {
	f := newFixture(t)

	pages, err := f.svc.PageAccess(f.ctx, f.staff.ID)
	require.NoError(t, err)
	assert.True(t, pages.CanAccess(role.PageShifts))
	assert.False(t, pages.CanAccess(role.PageRoles))

	dangling, err := f.users.Create(f.ctx, user.User{Name: "ghost", RoleID: "missing"})
	require.NoError(t, err)
	pages, err = f.svc.PageAccess(f.ctx, dangling.ID)
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestListRoles(t *testing.T) {
	f := newFixture(t)

	roles, err := f.svc.ListRoles(f.ctx)
	require.NoError(t, err)
	assert.Len(t, roles, len(fixtures.SystemRoles()))
}
