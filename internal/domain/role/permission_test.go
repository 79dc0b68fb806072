package role

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissions_AllowsFailsClosed(t *testing.T) {
	p := Permissions{}.Grant(CategoryShiftManagement, ActionApprove)

	assert.True(t, p.Allows(CategoryShiftManagement, ActionApprove))
	assert.False(t, p.Allows(CategoryShiftManagement, ActionDelete))
	assert.False(t, p.Allows(CategoryShiftManagement, Action("approveEverything")))
	assert.False(t, p.Allows(Category("payroll"), ActionApprove))
	// a stem is never grantable on its own
	p[CategoryShiftManagement][ActionView] = true
	assert.False(t, p.Allows(CategoryShiftManagement, ActionView))
}

func TestPermissions_GrantDoesNotMutateReceiver(t *testing.T) {
	base := Permissions{}.Grant(CategoryExpenseManagement, ActionViewAll)
	extended := base.Grant(CategoryExpenseManagement, ActionApprove)

	assert.False(t, base.Allows(CategoryExpenseManagement, ActionApprove))
	assert.True(t, extended.Allows(CategoryExpenseManagement, ActionApprove))
}

func TestTiersFor(t *testing.T) {
	tiers, ok := TiersFor(CategoryAttendanceManagement, ActionView)
	require.True(t, ok)
	assert.Equal(t, ActionViewAll, tiers.All)
	assert.Equal(t, ActionViewCompany, tiers.Company)
	assert.Equal(t, ActionViewAssigned, tiers.Assigned)

	_, ok = TiersFor(CategoryAttendanceManagement, ActionEdit)
	assert.False(t, ok, "attendance defines no edit tiers")

	_, ok = TiersFor(CategoryShiftManagement, ActionApprove)
	assert.False(t, ok, "approve is a capability")
}

func TestIsSelfScoped(t *testing.T) {
	assert.True(t, IsSelfScoped(CategoryAttendanceManagement))
	assert.True(t, IsSelfScoped(CategoryExpenseManagement))
	assert.False(t, IsSelfScoped(CategorySystemSettings))
	assert.False(t, IsSelfScoped(CategoryUserManagement))
}

func TestPermissions_UnmarshalRejectsUnknownKeys(t *testing.T) {
	var p Permissions
	err := json.Unmarshal([]byte(`{"shiftManagement":{"approve":true}}`), &p)
	require.NoError(t, err)
	assert.True(t, p.Allows(CategoryShiftManagement, ActionApprove))

	err = json.Unmarshal([]byte(`{"shiftManagement":{"aprove":true}}`), &p)
	assert.True(t, errors.Is(err, ErrUnknownAction))

	err = json.Unmarshal([]byte(`{"payroll":{"viewAll":true}}`), &p)
	assert.True(t, errors.Is(err, ErrUnknownCategory))
}

func TestPageAccess(t *testing.T) {
	var pa PageAccess
	require.NoError(t, json.Unmarshal([]byte(`{"shifts":true,"roles":false}`), &pa))
	assert.True(t, pa.CanAccess(PageShifts))
	assert.False(t, pa.CanAccess(PageRoles))
	assert.False(t, pa.CanAccess(PageKey("billing")))

	err := json.Unmarshal([]byte(`{"billing":true}`), &pa)
	assert.True(t, errors.Is(err, ErrUnknownPage))
}

func TestInUseError(t *testing.T) {
	var err error = &InUseError{RoleID: "r1", UserCount: 3}

	assert.True(t, errors.Is(err, ErrRoleInUse))
	var inUse *InUseError
	require.True(t, errors.As(err, &inUse))
	assert.Equal(t, 3, inUse.UserCount)
}
