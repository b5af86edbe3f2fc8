package handlers

import (
	"errors"
	"net/http"

	"github.com/upb/claims-audit/services"
	"github.com/upb/claims-audit/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps domain errors to HTTP responses
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	message := services.GetErrorMessage(err)
	details := services.GetErrorDetails(err)

	var writeErr error
	switch {
	case services.IsNotFoundError(err):
		writeErr = utils.WriteNotFound(w, message)

	case services.IsValidationError(err):
		writeErr = utils.WriteUnprocessableEntity(w, message, details)

	case services.IsConflictError(err):
		writeErr = utils.WriteConflict(w, message, details)

	case services.IsInternalError(err):
		// the underlying storage message is part of the response for diagnostics
		logger.Error("internal server error", zap.Error(err))
		writeErr = utils.WriteInternalServerError(w, message)

	default:
		logger.Error("unhandled error type",
			zap.Error(err),
			zap.String("error_type", string(services.GetErrorType(err))))
		writeErr = utils.WriteInternalServerError(w, "An unexpected error occurred")
	}

	if writeErr != nil {
		logger.Error("failed to write error response", zap.Error(writeErr))
	}
}

// HandleValidationError writes a 422 for a request body that failed schema validation
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	HandleServiceError(w, newValidationError(err), logger)
}

// newValidationError lifts a body validation failure into a validation DomainError
// carrying the per-field messages as details
func newValidationError(err error) *services.DomainError {
	domainErr := services.NewDomainError(services.ErrorTypeValidation, err.Error(), err)

	var validationErr *utils.ValidationError
	if errors.As(err, &validationErr) {
		for field, message := range validationErr.Details() {
			domainErr.WithDetail(field, message)
		}
	}
	return domainErr
}
