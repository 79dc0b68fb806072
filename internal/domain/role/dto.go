package role

import (
	"regexp"

	"github.com/cmlabs-hris/workforce-guard/internal/pkg/validator"
)

var roleNameRegex = regexp.MustCompile(`^[A-Z][A-Z0-9_]{1,49}$`)

// UpsertRoleRequest creates a role or replaces the matrices of the role with the same name.
type UpsertRoleRequest struct {
	Name        string      `json:"name"`
	DisplayName string      `json:"display_name"`
	Permissions Permissions `json:"permissions"`
	PageAccess  PageAccess  `json:"page_access"`
}

func (r *UpsertRoleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	} else if !roleNameRegex.MatchString(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must be upper snake case, e.g. SHIFT_LEAD",
		})
	}

	if validator.IsEmpty(r.DisplayName) {
		errs = append(errs, validator.ValidationError{
			Field:   "display_name",
			Message: "display_name is required",
		})
	}

	if err := r.Permissions.Validate(); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "permissions",
			Message: err.Error(),
		})
	}

	if err := r.PageAccess.Validate(); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "page_access",
			Message: err.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
