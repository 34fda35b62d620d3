package handlers

import (
	"careledger/internal/adapters/http/middleware"
	"careledger/internal/core/services"
	"careledger/internal/pkg/pagination"

	"github.com/gofiber/fiber/v2"
)

// AuditHandler handles audit trail endpoints
type AuditHandler struct {
	auditService *services.AuditService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List returns one page of the audit trail, newest first
// @Summary List audit entries
// @Tags Audit
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} pagination.Response
// @Failure 403 {object} response.Response
// @Router /audit [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	access := middleware.GetAccess(c)
	params := pagination.GetParams(c)

	entries, total, err := h.auditService.RecentPage(c.Context(), access, params.Offset, params.Limit)
	if err != nil {
		return mapDomainError(c, err)
	}

	return c.JSON(pagination.NewResponse(entries, params, total))
}
