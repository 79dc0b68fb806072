package response

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/workforce-guard/internal/domain/role"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/apperror"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses by their apperror kind.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var inUse *role.InUseError
	if errors.As(err, &inUse) {
		Conflict(w, err.Error(), map[string]string{
			"role_id":    inUse.RoleID,
			"user_count": strconv.Itoa(inUse.UserCount),
		})
		return
	}

	switch apperror.Kind(err) {
	case apperror.ErrUnauthenticated:
		Unauthorized(w, err.Error())
	case apperror.ErrForbidden:
		Forbidden(w, err.Error())
	case apperror.ErrOutOfWindow:
		OutOfWindow(w, err.Error())
	case apperror.ErrInvalidState:
		InvalidState(w, err.Error())
	case apperror.ErrConflict:
		Conflict(w, err.Error(), nil)
	case apperror.ErrNotFound:
		NotFound(w, err.Error())
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
