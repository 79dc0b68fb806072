package role

import (
	"encoding/json"
	"fmt"
)

type PageKey string

const (
	PageDashboard  PageKey = "dashboard"
	PageUsers      PageKey = "users"
	PageShifts     PageKey = "shifts"
	PageAttendance PageKey = "attendance"
	PageExpenses   PageKey = "expenses"
	PageSettings   PageKey = "settings"
	PageRoles      PageKey = "roles"
)

var pageKeys = map[PageKey]struct{}{
	PageDashboard:  {},
	PageUsers:      {},
	PageShifts:     {},
	PageAttendance: {},
	PageExpenses:   {},
	PageSettings:   {},
	PageRoles:      {},
}

// PageAccess maps UI pages to whether a role may open them.
type PageAccess map[PageKey]bool

// CanAccess fails closed for unknown pages.
func (p PageAccess) CanAccess(page PageKey) bool {
	if _, ok := pageKeys[page]; !ok {
		return false
	}
	return p[page]
}

func (p PageAccess) Validate() error {
	for k := range p {
		if _, ok := pageKeys[k]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownPage, k)
		}
	}
	return nil
}

func (p *PageAccess) UnmarshalJSON(data []byte) error {
	var raw map[PageKey]bool
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed := PageAccess(raw)
	if err := parsed.Validate(); err != nil {
		return err
	}
	*p = parsed
	return nil
}
