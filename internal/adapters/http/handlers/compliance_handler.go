package handlers

import (
	"strconv"

	"careledger/internal/adapters/http/middleware"
	"careledger/internal/config"
	"careledger/internal/core/services"
	"careledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ComplianceHandler handles data-lifecycle and compliance endpoints
type ComplianceHandler struct {
	retentionService *services.RetentionService
	cfg              *config.Config
}

// NewComplianceHandler creates a new compliance handler
func NewComplianceHandler(retentionService *services.RetentionService, cfg *config.Config) *ComplianceHandler {
	return &ComplianceHandler{
		retentionService: retentionService,
		cfg:              cfg,
	}
}

// Report returns the compliance overview
// @Summary Compliance report
// @Tags Compliance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /compliance/report [get]
func (h *ComplianceHandler) Report(c *fiber.Ctx) error {
	access := middleware.GetAccess(c)

	report, err := h.retentionService.Compliance(c.Context(), access)
	if err != nil {
		return mapDomainError(c, err)
	}

	return response.Success(c, "", report)
}

// Retention returns the retention report for the configured or requested window
// @Summary Retention report
// @Tags Compliance
// @Produce json
// @Security BearerAuth
// @Param days query int false "Retention window in days"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /compliance/retention [get]
func (h *ComplianceHandler) Retention(c *fiber.Ctx) error {
	access := middleware.GetAccess(c)
	days := h.retentionDays(c)

	report, err := h.retentionService.Report(c.Context(), access, days)
	if err != nil {
		return mapDomainError(c, err)
	}

	return response.Success(c, "", report)
}

// PurgeExpired permanently deletes records past the retention window
// @Summary Purge expired records
// @Tags Compliance
// @Produce json
// @Security BearerAuth
// @Param days query int false "Retention window in days"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /compliance/retention [delete]
func (h *ComplianceHandler) PurgeExpired(c *fiber.Ctx) error {
	access := middleware.GetAccess(c)
	days := h.retentionDays(c)

	deleted, err := h.retentionService.PurgeExpired(c.Context(), access, days)
	if err != nil {
		return mapDomainError(c, err)
	}

	return response.Success(c, "Expired records deleted", fiber.Map{
		"deleted_count":  deleted,
		"retention_days": days,
	})
}

// Forget permanently removes one record on an erasure request
// @Summary Right to be forgotten
// @Tags Compliance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Patient ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /compliance/patients/{id} [delete]
func (h *ComplianceHandler) Forget(c *fiber.Ctx) error {
	access := middleware.GetAccess(c)

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid patient id")
	}

	if err := h.retentionService.Forget(c.Context(), access, uint(id)); err != nil {
		return mapDomainError(c, err)
	}

	return response.Success(c, "Patient record erased", fiber.Map{
		"patient_id": uint(id),
	})
}

// Export returns the portability document for one identity
// @Summary Export identity data
// @Tags Compliance
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /compliance/export/{userId} [get]
func (h *ComplianceHandler) Export(c *fiber.Ctx) error {
	access := middleware.GetAccess(c)

	id, err := strconv.ParseUint(c.Params("userId"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}

	doc, err := h.retentionService.ExportUserData(c.Context(), access, uint(id))
	if err != nil {
		return mapDomainError(c, err)
	}

	return response.Success(c, "", doc)
}

func (h *ComplianceHandler) retentionDays(c *fiber.Ctx) int {
	days := h.cfg.Retention.Days
	if q := c.Query("days"); q != "" {
		if v, err := strconv.Atoi(q); err == nil && v > 0 {
			days = v
		}
	}
	return days
}
