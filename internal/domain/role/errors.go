package role

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/workforce-guard/internal/pkg/apperror"
)

var (
	ErrRoleNotFound        = apperror.New(apperror.ErrNotFound, "role not found")
	ErrDuplicateName       = apperror.New(apperror.ErrConflict, "role name already exists")
	ErrSystemRoleProtected = apperror.New(apperror.ErrForbidden, "system roles cannot be deleted")
	ErrRoleInUse           = errors.New("role is in use")
	ErrManageRolesRequired = apperror.New(apperror.ErrForbidden, "manageRoles permission required")
	ErrUnknownCategory     = errors.New("unknown permission category")
	ErrUnknownAction       = errors.New("unknown permission action")
	ErrUnknownPage         = errors.New("unknown page key")
)

// InUseError reports how many users still reference a role.
type InUseError struct {
	RoleID    string
	UserCount int
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("role %s is assigned to %d user(s)", e.RoleID, e.UserCount)
}

func (e *InUseError) Unwrap() []error {
	return []error{ErrRoleInUse, apperror.ErrConflict}
}
