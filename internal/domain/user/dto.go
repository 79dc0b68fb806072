package user

import (
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/validator"
)

// CreateUserRequest represents request to create a new user
type CreateUserRequest struct {
	Name       string   `json:"name"`
	RoleID     string   `json:"role_id"`
	CompanyID  *string  `json:"company_id,omitempty"`
	ManagerIDs []string `json:"manager_ids"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if validator.IsEmpty(r.RoleID) {
		errs = append(errs, validator.ValidationError{
			Field:   "role_id",
			Message: "role_id is required",
		})
	}

	if r.CompanyID != nil && validator.IsEmpty(*r.CompanyID) {
		errs = append(errs, validator.ValidationError{
			Field:   "company_id",
			Message: "company_id must not be empty",
		})
	}

	for _, id := range r.ManagerIDs {
		if validator.IsEmpty(id) {
			errs = append(errs, validator.ValidationError{
				Field:   "manager_ids",
				Message: "manager_ids must not contain empty ids",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// SetManagersRequest replaces the manager set of a user
type SetManagersRequest struct {
	UserID     string   `json:"user_id"`
	ManagerIDs []string `json:"manager_ids"`
}

func (r *SetManagersRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	for _, id := range r.ManagerIDs {
		if validator.IsEmpty(id) {
			errs = append(errs, validator.ValidationError{
				Field:   "manager_ids",
				Message: "manager_ids must not contain empty ids",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// AssignRoleRequest represents request to change a user's role
type AssignRoleRequest struct {
	UserID string `json:"user_id"`
	RoleID string `json:"role_id"`
}

func (r *AssignRoleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if validator.IsEmpty(r.RoleID) {
		errs = append(errs, validator.ValidationError{
			Field:   "role_id",
			Message: "role_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
