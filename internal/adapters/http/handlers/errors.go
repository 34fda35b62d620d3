package handlers

import (
	"errors"

	"careledger/internal/core/domain"
	"careledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// mapDomainError translates domain errors to HTTP responses. Every
// denial states its reason category; store faults stay generic.
func mapDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrConsentRequired):
		return response.Forbidden(c, "Consent required before accessing data")
	case errors.Is(err, domain.ErrPermissionDenied):
		return response.Forbidden(c, "You don't have permission to perform this action")
	case errors.Is(err, domain.ErrValidation):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		return response.Unauthorized(c, "Invalid credentials")
	case errors.Is(err, domain.ErrPasswordMismatch):
		return response.BadRequest(c, "Passwords do not match")
	case errors.Is(err, domain.ErrDuplicateUsername):
		return response.Conflict(c, "Username already exists")
	case errors.Is(err, domain.ErrBootstrapDone):
		return response.Conflict(c, "Identity store is not empty; bootstrap is closed")
	case errors.Is(err, domain.ErrSubjectNotFound):
		return response.NotFound(c, "Patient not found. Create the patient record first or try a different name or id")
	case errors.Is(err, domain.ErrPatientNotFound):
		return response.NotFound(c, "Patient not found")
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, "Resource not found")
	default:
		return response.InternalServerError(c, "Internal server error")
	}
}
