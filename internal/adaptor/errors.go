package adaptor

import (
	"net/http"

	"court-booking/pkg/apperrors"
	"court-booking/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps service errors onto the response envelope. Typed
// errors carry their own user-facing message; everything else is opaque.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case apperrors.IsValidation(err):
		log.Warn(operation+" rejected invalid input", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case apperrors.IsNotFound(err):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case apperrors.IsConflict(err):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case apperrors.IsForbidden(err):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	case apperrors.IsInvalidTransition(err):
		log.Warn(operation+" failed - invalid transition", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	default:
		log.Error(operation+" failed", zap.Error(err))
		utils.ResponseInternalError(w, "something went wrong")
	}
}
