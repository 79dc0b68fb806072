package role

import "time"

// System role names seeded at startup.
const (
	NameSuperAdmin   = "SUPER_ADMIN"
	NameCompanyAdmin = "COMPANY_ADMIN"
	NameManager      = "MANAGER"
	NameStaff        = "STAFF"
)

type Role struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	DisplayName string      `json:"display_name"`
	IsSystem    bool        `json:"is_system"`
	Permissions Permissions `json:"permissions"`
	PageAccess  PageAccess  `json:"page_access"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Allows fails closed on a role without a permission matrix.
func (r Role) Allows(c Category, a Action) bool {
	if r.Permissions == nil {
		return false
	}
	return r.Permissions.Allows(c, a)
}
