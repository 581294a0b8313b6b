package response

import (
	"errors"
	"net/http"

	"github.com/svce-events/attendance-report/internal/domain/analytics"
	"github.com/svce-events/attendance-report/internal/domain/auth"
	"github.com/svce-events/attendance-report/internal/domain/report"
	"github.com/svce-events/attendance-report/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrMissingUserClaims):
		Unauthorized(w, "Token has no user")
	case errors.Is(err, auth.ErrForbiddenRole):
		Forbidden(w, "Your role cannot export reports")

	// Analytics domain errors
	case errors.Is(err, analytics.ErrDataUnavailable):
		NotFound(w, "Reports not found")

	// Report domain errors
	case errors.Is(err, report.ErrUnsupportedFormat):
		BadRequest(w, "Unsupported export format", nil)
	case errors.Is(err, report.ErrExportFailed):
		InternalServerError(w, "Failed to generate report")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
