package shift

import "github.com/cmlabs-hris/workforce-guard/internal/pkg/apperror"

var (
	ErrShiftNotFound         = apperror.New(apperror.ErrNotFound, "shift not found")
	ErrLockNotFound          = apperror.New(apperror.ErrNotFound, "registration lock not found")
	ErrShiftExists           = apperror.New(apperror.ErrConflict, "a shift is already registered for this date")
	ErrShiftNotPending       = apperror.New(apperror.ErrInvalidState, "shift is not pending")
	ErrUnknownTransition     = apperror.New(apperror.ErrInvalidState, "unknown shift transition")
	ErrRegistrationLocked    = apperror.New(apperror.ErrOutOfWindow, "shift registration is locked for this month")
	ErrApprovePermission     = apperror.New(apperror.ErrForbidden, "approve permission required")
	ErrForceRegisterRequired = apperror.New(apperror.ErrForbidden, "forceRegister permission required")
	ErrLockUnlockRequired    = apperror.New(apperror.ErrForbidden, "lockUnlock permission required")
	ErrNotAllowed            = apperror.New(apperror.ErrForbidden, "not allowed to manage shifts of this user")
	ErrLockStatusNotAllowed  = apperror.New(apperror.ErrForbidden, "not allowed to view the registration lock of this user")
)
