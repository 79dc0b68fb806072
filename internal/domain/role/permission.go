package role

import (
	"encoding/json"
	"fmt"
)

type Category string

const (
	CategoryUserManagement       Category = "userManagement"
	CategoryShiftManagement      Category = "shiftManagement"
	CategoryAttendanceManagement Category = "attendanceManagement"
	CategoryExpenseManagement    Category = "expenseManagement"
	CategorySystemSettings       Category = "systemSettings"
)

type Action string

// Tiered stems. A stem is never granted directly; only its tier actions are.
const (
	ActionView Action = "view"
	ActionEdit Action = "edit"
)

const (
	ActionViewAll      Action = "viewAll"
	ActionViewCompany  Action = "viewCompany"
	ActionViewAssigned Action = "viewAssigned"
	ActionEditAll      Action = "editAll"
	ActionEditCompany  Action = "editCompany"
	ActionEditAssigned Action = "editAssigned"

	ActionCreate          Action = "create"
	ActionApprove         Action = "approve"
	ActionDelete          Action = "delete"
	ActionForceRegister   Action = "forceRegister"
	ActionLockUnlock      Action = "lockUnlock"
	ActionForceClockInOut Action = "forceClockInOut"
	ActionEditOthers      Action = "editOthers"
	ActionLock            Action = "lock"
	ActionManageRoles     Action = "manageRoles"
	ActionEditSettings    Action = "editSettings"
)

// Tiers names the concrete actions behind a tiered stem. An empty field means
// the category does not define that tier.
type Tiers struct {
	All      Action
	Company  Action
	Assigned Action
}

type categoryDef struct {
	actions    []Action
	tiers      map[Action]Tiers
	selfScoped bool
}

var (
	viewTiers = Tiers{All: ActionViewAll, Company: ActionViewCompany, Assigned: ActionViewAssigned}
	editTiers = Tiers{All: ActionEditAll, Company: ActionEditCompany, Assigned: ActionEditAssigned}
)

var catalog = map[Category]categoryDef{
	CategoryUserManagement: {
		actions: []Action{
			ActionViewAll, ActionViewCompany, ActionViewAssigned,
			ActionEditAll, ActionEditCompany, ActionEditAssigned,
			ActionCreate, ActionDelete,
		},
		tiers: map[Action]Tiers{ActionView: viewTiers, ActionEdit: editTiers},
	},
	CategoryShiftManagement: {
		actions: []Action{
			ActionViewAll, ActionViewCompany, ActionViewAssigned,
			ActionEditAll, ActionEditCompany, ActionEditAssigned,
			ActionApprove, ActionDelete, ActionForceRegister, ActionLockUnlock,
		},
		tiers:      map[Action]Tiers{ActionView: viewTiers, ActionEdit: editTiers},
		selfScoped: true,
	},
	CategoryAttendanceManagement: {
		actions: []Action{
			ActionViewAll, ActionViewCompany, ActionViewAssigned,
			ActionForceClockInOut, ActionEditOthers, ActionDelete,
		},
		tiers:      map[Action]Tiers{ActionView: viewTiers},
		selfScoped: true,
	},
	CategoryExpenseManagement: {
		actions: []Action{
			ActionViewAll, ActionViewCompany, ActionViewAssigned,
			ActionApprove, ActionEditOthers, ActionDelete, ActionLock,
		},
		tiers:      map[Action]Tiers{ActionView: viewTiers},
		selfScoped: true,
	},
	CategorySystemSettings: {
		actions: []Action{ActionManageRoles, ActionEditSettings},
	},
}

// Categories lists every category in the catalog.
func Categories() []Category {
	return []Category{
		CategoryUserManagement,
		CategoryShiftManagement,
		CategoryAttendanceManagement,
		CategoryExpenseManagement,
		CategorySystemSettings,
	}
}

// Actions lists the grantable actions of c, or nil for an unknown category.
func Actions(c Category) []Action {
	return catalog[c].actions
}

// IsGrantable reports whether a is a grantable action of c.
func IsGrantable(c Category, a Action) bool {
	def, ok := catalog[c]
	if !ok {
		return false
	}
	for _, known := range def.actions {
		if known == a {
			return true
		}
	}
	return false
}

// TiersFor returns the tier actions behind stem in c. ok is false when stem is
// a tier-less capability (or unknown).
func TiersFor(c Category, stem Action) (Tiers, bool) {
	t, ok := catalog[c].tiers[stem]
	return t, ok
}

// IsSelfScoped reports whether a subject acting on their own records is
// covered by the Self tier in c.
func IsSelfScoped(c Category) bool {
	return catalog[c].selfScoped
}

// Permissions is the permission matrix of a role. Only catalog keys can be
// stored; Allows fails closed for anything else.
type Permissions map[Category]map[Action]bool

// Allows reports whether the matrix grants a in c.
func (p Permissions) Allows(c Category, a Action) bool {
	if !IsGrantable(c, a) {
		return false
	}
	return p[c][a]
}

// Grant returns a copy of p with the given actions of c enabled.
func (p Permissions) Grant(c Category, actions ...Action) Permissions {
	out := p.Clone()
	if out[c] == nil {
		out[c] = make(map[Action]bool)
	}
	for _, a := range actions {
		out[c][a] = true
	}
	return out
}

func (p Permissions) Clone() Permissions {
	out := make(Permissions, len(p))
	for c, actions := range p {
		inner := make(map[Action]bool, len(actions))
		for a, v := range actions {
			inner[a] = v
		}
		out[c] = inner
	}
	return out
}

// Validate rejects categories or actions outside the catalog.
func (p Permissions) Validate() error {
	for c, actions := range p {
		if _, ok := catalog[c]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownCategory, c)
		}
		for a := range actions {
			if !IsGrantable(c, a) {
				return fmt.Errorf("%w: %s.%s", ErrUnknownAction, c, a)
			}
		}
	}
	return nil
}

func (p *Permissions) UnmarshalJSON(data []byte) error {
	var raw map[Category]map[Action]bool
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed := Permissions(raw)
	if err := parsed.Validate(); err != nil {
		return err
	}
	*p = parsed
	return nil
}
