package adaptor

import (
	"errors"
	"net/http"

	"tourism-booking/internal/apperr"
	"tourism-booking/pkg/utils"

	"go.uber.org/zap"
)

// writeServiceError maps a service error to the HTTP envelope. Only the
// sentinel classification leaves the process; wrapped detail stays in
// the logs.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, op string) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		utils.ResponseBadRequest(w, err.Error(), nil)
	case errors.Is(err, apperr.ErrNotFound):
		utils.ResponseNotFound(w, err.Error())
	case errors.Is(err, apperr.ErrUnavailable):
		utils.ResponseConflict(w, "Requested dates are not available")
	case errors.Is(err, apperr.ErrCannotCancel):
		utils.ResponseConflict(w, err.Error())
	case errors.Is(err, apperr.ErrUnauthorized):
		utils.ResponseForbidden(w, "Not allowed")
	case errors.Is(err, apperr.ErrTransientStore):
		log.Warn("Transient store error", zap.Error(err), zap.String("op", op))
		utils.ResponseServiceUnavailable(w, "Temporarily unavailable, please retry")
	default:
		log.Error("Unhandled service error", zap.Error(err), zap.String("op", op))
		utils.ResponseInternalError(w, "Something went wrong")
	}
}

func isAdmin(r *http.Request) bool {
	role, ok := utils.GetRoleFromContext(r.Context())
	return ok && role == "admin"
}
