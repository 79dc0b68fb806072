package expense

import "github.com/cmlabs-hris/workforce-guard/internal/pkg/apperror"

var (
	ErrExpenseNotFound    = apperror.New(apperror.ErrNotFound, "expense not found")
	ErrEditDeadlinePassed = apperror.New(apperror.ErrOutOfWindow, "the edit deadline for this expense month has passed")
	ErrExpenseNotPending  = apperror.New(apperror.ErrInvalidState, "expense is not pending")
	ErrApprovePermission  = apperror.New(apperror.ErrForbidden, "approve permission required")
	ErrNotAllowed         = apperror.New(apperror.ErrForbidden, "not allowed to manage expenses of this user")
	ErrUnknownReview      = apperror.New(apperror.ErrInvalidState, "unknown expense review action")
)
