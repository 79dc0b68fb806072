package user

import (
	"strings"
	"time"
)

// User is an actor or subject of the engine. CompanyID is nil for home company
// users; partner company users carry the partner's id.
type User struct {
	ID         string    `json:"id"`
	DisplayID  string    `json:"display_id"`
	Name       string    `json:"name"`
	RoleID     string    `json:"role_id"`
	CompanyID  *string   `json:"company_id,omitempty"`
	ManagerIDs []string  `json:"manager_ids"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsManagedBy reports whether managerID is listed directly as one of u's managers.
// Management is not transitive.
func (u User) IsManagedBy(managerID string) bool {
	for _, id := range u.ManagerIDs {
		if id == managerID {
			return true
		}
	}
	return false
}

// IsHomeCompany reports whether u belongs to the home company.
func (u User) IsHomeCompany() bool {
	return u.CompanyID == nil
}

// SameCompany treats two home company users as the same company.
func SameCompany(a, b User) bool {
	return SameCompanyID(a.CompanyID, b.CompanyID)
}

func SameCompanyID(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

const (
	HomeCompanyPrefix    = "HQ"
	PartnerCompanyPrefix = "PC"
)

// SequenceKey is the display id sequence key of companyID. It is normalised
// like DisplayIDPrefix so ids that render the same share one sequence.
func SequenceKey(companyID *string) string {
	if companyID == nil {
		return ""
	}
	return strings.ToUpper(*companyID)
}

// DisplayIDPrefix returns the human readable prefix for users of companyID.
// Partner prefixes carry the company id so sequences never collide.
func DisplayIDPrefix(companyID *string) string {
	if companyID == nil {
		return HomeCompanyPrefix
	}
	return PartnerCompanyPrefix + "-" + strings.ToUpper(*companyID) + "-"
}
