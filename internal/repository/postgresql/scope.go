package postgresql

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/permission"
)

// filter accumulates WHERE conditions and their positional arguments.
type filter struct {
	conds []string
	args  []any
}

func (f *filter) add(cond string, arg any) {
	f.args = append(f.args, arg)
	f.conds = append(f.conds, fmt.Sprintf(cond, len(f.args)))
}

// scope restricts ownerCol, a users.id reference, to the subjects of s.
func (f *filter) scope(s permission.Scope, ownerCol string) {
	switch s.Kind {
	case permission.ScopeAll:
	case permission.ScopeCompany:
		f.add(ownerCol+" IN (SELECT id FROM users WHERE company_id IS NOT DISTINCT FROM $%d)", s.CompanyID)
	case permission.ScopeUsers:
		ids := s.UserIDs
		if ids == nil {
			ids = []string{}
		}
		f.add(ownerCol+" = ANY($%d::uuid[])", ids)
	default:
		f.conds = append(f.conds, "FALSE")
	}
}

func (f *filter) dateRange(col string, from, to *time.Time) {
	if from != nil {
		f.add(col+" >= $%d", *from)
	}
	if to != nil {
		f.add(col+" <= $%d", *to)
	}
}

func (f *filter) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(f.conds, " AND ")
}
