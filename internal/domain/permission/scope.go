package permission

import "github.com/cmlabs-hris/workforce-guard/internal/domain/user"

type ScopeKind string

const (
	ScopeAll     ScopeKind = "all"
	ScopeCompany ScopeKind = "company"
	ScopeUsers   ScopeKind = "users"
)

// Scope is the subject filter a bulk read must apply.
//
//	ScopeAll      no filter
//	ScopeCompany  subjects whose company equals CompanyID (nil is the home company)
//	ScopeUsers    subjects listed in UserIDs, which always contains the actor
type Scope struct {
	Kind      ScopeKind
	CompanyID *string
	UserIDs   []string
}

func AllScope() Scope {
	return Scope{Kind: ScopeAll}
}

func CompanyScope(companyID *string) Scope {
	return Scope{Kind: ScopeCompany, CompanyID: companyID}
}

func UsersScope(ids ...string) Scope {
	return Scope{Kind: ScopeUsers, UserIDs: ids}
}

// Includes reports whether subject passes the filter.
func (s Scope) Includes(subject user.User) bool {
	switch s.Kind {
	case ScopeAll:
		return true
	case ScopeCompany:
		return user.SameCompanyID(s.CompanyID, subject.CompanyID)
	case ScopeUsers:
		for _, id := range s.UserIDs {
			if id == subject.ID {
				return true
			}
		}
	}
	return false
}

// IncludesID is Includes for callers that only hold an id. Company scopes
// cannot be decided from an id alone and report false.
func (s Scope) IncludesID(id string) bool {
	switch s.Kind {
	case ScopeAll:
		return true
	case ScopeUsers:
		for _, u := range s.UserIDs {
			if u == id {
				return true
			}
		}
	}
	return false
}
