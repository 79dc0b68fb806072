package user

import "github.com/cmlabs-hris/workforce-guard/internal/pkg/apperror"

var (
	ErrUserNotFound            = apperror.New(apperror.ErrNotFound, "user not found")
	ErrManagerNotFound         = apperror.New(apperror.ErrNotFound, "manager not found")
	ErrSelfManagement          = apperror.New(apperror.ErrConflict, "a user cannot be their own manager")
	ErrManagementCycle         = apperror.New(apperror.ErrConflict, "manager assignment would create a cycle")
	ErrDisplayIDExists         = apperror.New(apperror.ErrConflict, "display id already assigned")
	ErrInsufficientPermissions = apperror.New(apperror.ErrForbidden, "insufficient permissions")
)
