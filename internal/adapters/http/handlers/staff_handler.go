package handlers

import (
	"careledger/internal/adapters/http/middleware"
	"careledger/internal/core/services"
	"careledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// StaffHandler handles the staff directory endpoint
type StaffHandler struct {
	userService *services.UserService
}

// NewStaffHandler creates a new staff handler
func NewStaffHandler(userService *services.UserService) *StaffHandler {
	return &StaffHandler{userService: userService}
}

// List lists all staff identities
// @Summary List staff
// @Tags Staff
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /staff [get]
func (h *StaffHandler) List(c *fiber.Ctx) error {
	access := middleware.GetAccess(c)

	staff, err := h.userService.ListStaff(c.Context(), access)
	if err != nil {
		return mapDomainError(c, err)
	}

	return response.Success(c, "", fiber.Map{
		"staff": staff,
	})
}
