package permission

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/permission"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/role"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/user"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/cache"
	"github.com/cmlabs-hris/workforce-guard/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ctx   context.Context
	store *memory.Store
	roles role.RoleRepository
	users user.UserRepository
	now   time.Time
	eval  permission.Evaluator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx:   context.Background(),
		store: memory.NewStore(),
		now:   time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	f.roles = memory.NewRoleRepository(f.store)
	f.users = memory.NewUserRepository(f.store)
	clock := func() time.Time { return f.now }
	f.eval = NewEvaluator(
		f.users,
		f.roles,
		cache.NewMemory[user.User](5*time.Minute, clock),
		cache.NewMemory[role.Role](5*time.Minute, clock),
		nil,
	)
	return f
}

func (f *fixture) role(t *testing.T, name string, p role.Permissions) role.Role {
	t.Helper()
	r, err := f.roles.Create(f.ctx, role.Role{Name: name, DisplayName: name, Permissions: p})
	require.NoError(t, err)
	return r
}

func (f *fixture) user(t *testing.T, roleID string, companyID *string, managers ...string) user.User {
	t.Helper()
	u, err := f.users.Create(f.ctx, user.User{Name: "u", RoleID: roleID, CompanyID: companyID, ManagerIDs: managers})
	require.NoError(t, err)
	return u
}

func TestHasPermission_FailsClosed(t *testing.T) {
	f := newFixture(t)
	r := f.role(t, "SHIFT_LEAD", role.Permissions{}.Grant(role.CategoryShiftManagement, role.ActionApprove))
	actor := f.user(t, r.ID, nil)

	ok, err := f.eval.HasPermission(f.ctx, actor.ID, role.CategoryShiftManagement, role.ActionApprove)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.eval.HasPermission(f.ctx, actor.ID, "payroll", role.ActionApprove)
	require.NoError(t, err)
	assert.False(t, ok, "unknown category")

	ok, err = f.eval.HasPermission(f.ctx, actor.ID, role.CategoryShiftManagement, "approveEverything")
	require.NoError(t, err)
	assert.False(t, ok, "unknown action")

	ok, err = f.eval.HasPermission(f.ctx, "missing-user", role.CategoryShiftManagement, role.ActionApprove)
	require.NoError(t, err)
	assert.False(t, ok, "unknown actor")

	dangling := f.user(t, "missing-role", nil)
	ok, err = f.eval.HasPermission(f.ctx, dangling.ID, role.CategoryShiftManagement, role.ActionApprove)
	require.NoError(t, err)
	assert.False(t, ok, "dangling role")
}

func TestDecide_AllTierWinsOverAssigned(t *testing.T) {
	f := newFixture(t)
	r := f.role(t, "BOTH", role.Permissions{}.Grant(role.CategoryShiftManagement, role.ActionViewAll, role.ActionViewAssigned))
	actor := f.user(t, r.ID, nil)
	partner := "partner-1"
	stranger := f.user(t, r.ID, &partner)

	managed, err := f.eval.IsManagerOf(f.ctx, actor.ID, stranger.ID)
	require.NoError(t, err)
	require.False(t, managed, "assigned scope alone would deny")

	d, err := f.eval.Decide(f.ctx, actor.ID, stranger.ID, role.CategoryShiftManagement, role.ActionView)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, permission.TierAll, d.Tier)
}

func TestDecide_CompanyTier(t *testing.T) {
	f := newFixture(t)
	partner := "partner-1"
	r := f.role(t, "COMPANY_VIEWER", role.Permissions{}.Grant(role.CategoryExpenseManagement, role.ActionViewCompany))
	homeActor := f.user(t, r.ID, nil)
	homePeer := f.user(t, r.ID, nil)
	partnerUser := f.user(t, r.ID, &partner)
	partnerPeer := f.user(t, r.ID, &partner)

	d, err := f.eval.Decide(f.ctx, homeActor.ID, homePeer.ID, role.CategoryExpenseManagement, role.ActionView)
	require.NoError(t, err)
	assert.Equal(t, permission.Granted(permission.TierCompany), d, "home company users share a company")

	d, err = f.eval.Decide(f.ctx, homeActor.ID, partnerUser.ID, role.CategoryExpenseManagement, role.ActionView)
	require.NoError(t, err)
	assert.False(t, d.Allowed, "home and partner company are distinct")

	d, err = f.eval.Decide(f.ctx, partnerUser.ID, partnerPeer.ID, role.CategoryExpenseManagement, role.ActionView)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestDecide_AssignedTierIsDirectOnly(t *testing.T) {
	f := newFixture(t)
	r := f.role(t, "LEAD", role.Permissions{}.Grant(role.CategoryAttendanceManagement, role.ActionViewAssigned))
	grand := f.user(t, r.ID, nil)
	mid := f.user(t, r.ID, nil, grand.ID)
	leaf := f.user(t, r.ID, nil, mid.ID)

	d, err := f.eval.Decide(f.ctx, mid.ID, leaf.ID, role.CategoryAttendanceManagement, role.ActionView)
	require.NoError(t, err)
	assert.Equal(t, permission.Granted(permission.TierAssigned), d)

	d, err = f.eval.Decide(f.ctx, grand.ID, leaf.ID, role.CategoryAttendanceManagement, role.ActionView)
	require.NoError(t, err)
	assert.False(t, d.Allowed, "management is not transitive")
}

func TestDecide_SelfTier(t *testing.T) {
	f := newFixture(t)
	staff := f.role(t, "NOBODY", role.Permissions{})
	actor := f.user(t, staff.ID, nil)

	d, err := f.eval.Decide(f.ctx, actor.ID, actor.ID, role.CategoryShiftManagement, role.ActionEdit)
	require.NoError(t, err)
	assert.Equal(t, permission.Granted(permission.TierSelf), d)

	d, err = f.eval.Decide(f.ctx, actor.ID, actor.ID, role.CategoryUserManagement, role.ActionEdit)
	require.NoError(t, err)
	assert.False(t, d.Allowed, "user management has no self tier")

	d, err = f.eval.Decide(f.ctx, actor.ID, actor.ID, role.CategoryShiftManagement, role.ActionApprove)
	require.NoError(t, err)
	assert.False(t, d.Allowed, "capabilities never self-grant")
}

func TestDecide_CapabilityIsBareAction(t *testing.T) {
	f := newFixture(t)
	r := f.role(t, "APPROVER", role.Permissions{}.Grant(role.CategoryShiftManagement, role.ActionApprove))
	actor := f.user(t, r.ID, nil)
	partner := "p"
	subject := f.user(t, r.ID, &partner)

	ok, err := f.eval.HasPermissionForUser(f.ctx, actor.ID, subject.ID, role.CategoryShiftManagement, role.ActionApprove)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.eval.HasPermissionForUser(f.ctx, actor.ID, subject.ID, role.CategoryShiftManagement, role.ActionDelete)
	require.NoError(t, err)
	assert.False(t, ok)
}

// Exhaustive check that a grant is returned exactly when one tier holds.
func TestHasPermissionForUser_NoOtherPath(t *testing.T) {
	type grants struct{ all, company, assigned bool }
	type relation struct{ self, sameCompany, manages bool }

	var grantCases []grants
	for i := 0; i < 8; i++ {
		grantCases = append(grantCases, grants{i&1 != 0, i&2 != 0, i&4 != 0})
	}
	relationCases := []relation{
		{self: true, sameCompany: true},
		{sameCompany: true, manages: true},
		{sameCompany: true},
		{manages: true},
		{},
	}
	categories := []role.Category{role.CategoryShiftManagement, role.CategoryUserManagement}

	for _, c := range categories {
		for gi, g := range grantCases {
			for _, rel := range relationCases {
				f := newFixture(t)
				p := role.Permissions{}
				if g.all {
					p = p.Grant(c, role.ActionViewAll)
				}
				if g.company {
					p = p.Grant(c, role.ActionViewCompany)
				}
				if g.assigned {
					p = p.Grant(c, role.ActionViewAssigned)
				}
				r := f.role(t, "ROLE_"+string(rune('A'+gi)), p)
				actor := f.user(t, r.ID, nil)

				subjectID := actor.ID
				if !rel.self {
					var company *string
					if !rel.sameCompany {
						other := "partner"
						company = &other
					}
					var managers []string
					if rel.manages {
						managers = []string{actor.ID}
					}
					subjectID = f.user(t, r.ID, company, managers...).ID
				}

				got, err := f.eval.HasPermissionForUser(f.ctx, actor.ID, subjectID, c, role.ActionView)
				require.NoError(t, err)

				want := g.all ||
					(g.company && rel.sameCompany) ||
					(g.assigned && rel.manages) ||
					(rel.self && role.IsSelfScoped(c))
				assert.Equal(t, want, got, "category=%s grants=%+v relation=%+v", c, g, rel)
			}
		}
	}
}

func TestGetAccessibleUserIDs_GatedByAssignedPermission(t *testing.T) {
	f := newFixture(t)
	without := f.role(t, "NO_ASSIGNED", role.Permissions{}.Grant(role.CategoryShiftManagement, role.ActionViewCompany))
	with := f.role(t, "ASSIGNED", role.Permissions{}.Grant(role.CategoryShiftManagement, role.ActionViewAssigned))

	plain := f.user(t, without.ID, nil)
	lead := f.user(t, with.ID, nil)
	a := f.user(t, without.ID, nil, plain.ID, lead.ID)
	b := f.user(t, without.ID, nil, plain.ID, lead.ID)

	ids, err := f.eval.GetAccessibleUserIDs(f.ctx, plain.ID, role.CategoryShiftManagement, role.ActionView)
	require.NoError(t, err)
	assert.Empty(t, ids, "manager links without the Assigned grant give nothing")

	ids, err = f.eval.GetAccessibleUserIDs(f.ctx, lead.ID, role.CategoryShiftManagement, role.ActionView)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ids)
}

func TestResolveScope_FourWayFallback(t *testing.T) {
	f := newFixture(t)
	partner := "partner-1"
	all := f.role(t, "ALL", role.Permissions{}.Grant(role.CategoryExpenseManagement, role.ActionViewAll, role.ActionViewCompany))
	company := f.role(t, "COMPANY", role.Permissions{}.Grant(role.CategoryExpenseManagement, role.ActionViewCompany, role.ActionViewAssigned))
	assigned := f.role(t, "ASSIGNED", role.Permissions{}.Grant(role.CategoryExpenseManagement, role.ActionViewAssigned))
	none := f.role(t, "NONE", role.Permissions{})

	allActor := f.user(t, all.ID, nil)
	companyActor := f.user(t, company.ID, &partner)
	lead := f.user(t, assigned.ID, nil)
	idleLead := f.user(t, assigned.ID, nil)
	staff := f.user(t, none.ID, nil, lead.ID)

	s, err := f.eval.ResolveScope(f.ctx, allActor.ID, role.CategoryExpenseManagement, role.ActionView)
	require.NoError(t, err)
	assert.Equal(t, permission.AllScope(), s)

	s, err = f.eval.ResolveScope(f.ctx, companyActor.ID, role.CategoryExpenseManagement, role.ActionView)
	require.NoError(t, err)
	assert.Equal(t, permission.ScopeCompany, s.Kind)
	require.NotNil(t, s.CompanyID)
	assert.Equal(t, partner, *s.CompanyID)

	s, err = f.eval.ResolveScope(f.ctx, lead.ID, role.CategoryExpenseManagement, role.ActionView)
	require.NoError(t, err)
	assert.Equal(t, permission.ScopeUsers, s.Kind)
	assert.ElementsMatch(t, []string{lead.ID, staff.ID}, s.UserIDs)

	s, err = f.eval.ResolveScope(f.ctx, idleLead.ID, role.CategoryExpenseManagement, role.ActionView)
	require.NoError(t, err)
	assert.Equal(t, permission.UsersScope(idleLead.ID), s, "assigned grant with nobody assigned falls back to self")

	s, err = f.eval.ResolveScope(f.ctx, staff.ID, role.CategoryExpenseManagement, role.ActionView)
	require.NoError(t, err)
	assert.Equal(t, permission.UsersScope(staff.ID), s)

	s, err = f.eval.ResolveScope(f.ctx, "ghost", role.CategoryExpenseManagement, role.ActionView)
	require.NoError(t, err)
	assert.Equal(t, permission.UsersScope("ghost"), s)
}

func TestSameCompany(t *testing.T) {
	f := newFixture(t)
	p1, p2 := "p1", "p2"
	r := f.role(t, "R", role.Permissions{})
	home1 := f.user(t, r.ID, nil)
	home2 := f.user(t, r.ID, nil)
	a := f.user(t, r.ID, &p1)
	b := f.user(t, r.ID, &p2)

	tests := []struct {
		name string
		x, y string
		want bool
	}{
		{"both home", home1.ID, home2.ID, true},
		{"home and partner", home1.ID, a.ID, false},
		{"different partners", a.ID, b.ID, false},
		{"same partner", a.ID, a.ID, true},
		{"unknown user", home1.ID, "ghost", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.eval.SameCompany(f.ctx, tt.x, tt.y)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCache_StaleUntilTTLOrInvalidate(t *testing.T) {
	f := newFixture(t)
	viewer := f.role(t, "VIEWER", role.Permissions{}.Grant(role.CategoryShiftManagement, role.ActionViewAll))
	approver := f.role(t, "APPROVER", role.Permissions{}.Grant(role.CategoryShiftManagement, role.ActionApprove))
	actor := f.user(t, viewer.ID, nil)

	ok, err := f.eval.HasPermission(f.ctx, actor.ID, role.CategoryShiftManagement, role.ActionViewAll)
	require.NoError(t, err)
	require.True(t, ok)

	// Role edit is only seen after TTL expiry.
	viewer.Permissions = role.Permissions{}
	_, err = f.roles.Update(f.ctx, viewer)
	require.NoError(t, err)

	f.now = f.now.Add(4 * time.Minute)
	ok, err = f.eval.HasPermission(f.ctx, actor.ID, role.CategoryShiftManagement, role.ActionViewAll)
	require.NoError(t, err)
	assert.True(t, ok, "served from cache within TTL")

	f.now = f.now.Add(2 * time.Minute)
	ok, err = f.eval.HasPermission(f.ctx, actor.ID, role.CategoryShiftManagement, role.ActionViewAll)
	require.NoError(t, err)
	assert.False(t, ok, "reloaded after TTL")

	// Reassignment is seen immediately after Invalidate.
	require.NoError(t, f.users.UpdateRole(f.ctx, actor.ID, approver.ID))
	ok, err = f.eval.HasPermission(f.ctx, actor.ID, role.CategoryShiftManagement, role.ActionApprove)
	require.NoError(t, err)
	assert.False(t, ok, "old role still cached for the user")

	f.eval.Invalidate(f.ctx, actor.ID)
	ok, err = f.eval.HasPermission(f.ctx, actor.ID, role.CategoryShiftManagement, role.ActionApprove)
	require.NoError(t, err)
	assert.True(t, ok)
}
