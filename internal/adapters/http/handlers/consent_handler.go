package handlers

import (
	"careledger/internal/adapters/http/middleware"
	"careledger/internal/core/services"
	"careledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ConsentHandler handles per-session consent endpoints
type ConsentHandler struct {
	consentService *services.ConsentService
}

// NewConsentHandler creates a new consent handler
func NewConsentHandler(consentService *services.ConsentService) *ConsentHandler {
	return &ConsentHandler{consentService: consentService}
}

// Grant records consent for the current session. Idempotent.
// @Summary Grant consent
// @Description Record data-processing consent for the current session
// @Tags Consent
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /consent [post]
func (h *ConsentHandler) Grant(c *fiber.Ctx) error {
	access := middleware.GetAccess(c)
	h.consentService.Grant(access.UserID, access.SessionID)
	return response.Success(c, "Consent recorded", fiber.Map{
		"consented": true,
	})
}

// Status reports whether consent has been granted in this session
// @Summary Consent status
// @Tags Consent
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /consent [get]
func (h *ConsentHandler) Status(c *fiber.Ctx) error {
	access := middleware.GetAccess(c)
	return response.Success(c, "", fiber.Map{
		"consented": access.Consented,
	})
}
