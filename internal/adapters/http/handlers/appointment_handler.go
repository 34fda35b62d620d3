package handlers

import (
	"strings"

	"careledger/internal/adapters/http/middleware"
	"careledger/internal/core/services"
	"careledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AppointmentHandler handles appointment endpoints
type AppointmentHandler struct {
	apptService *services.AppointmentService
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(apptService *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{apptService: apptService}
}

// CreateAppointmentRequest represents appointment creation request body
type CreateAppointmentRequest struct {
	Subject string `json:"subject"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Status  string `json:"status"`
}

// List lists appointments, newest first
// @Summary List appointments
// @Tags Appointments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /appointments [get]
func (h *AppointmentHandler) List(c *fiber.Ctx) error {
	access := middleware.GetAccess(c)

	views, err := h.apptService.ListAppointments(c.Context(), access)
	if err != nil {
		return mapDomainError(c, err)
	}

	return response.Success(c, "", fiber.Map{
		"appointments": views,
	})
}

// Create resolves the subject and creates an appointment. An ambiguous
// subject is tolerated: the first match is used and a warning returned.
// @Summary Create appointment
// @Tags Appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateAppointmentRequest true "Appointment data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /appointments [post]
func (h *AppointmentHandler) Create(c *fiber.Ctx) error {
	access := middleware.GetAccess(c)

	var req CreateAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	appt, warning, err := h.apptService.CreateAppointment(c.Context(), access, &services.CreateAppointmentInput{
		Subject: strings.TrimSpace(req.Subject),
		Date:    strings.TrimSpace(req.Date),
		Time:    strings.TrimSpace(req.Time),
		Status:  strings.TrimSpace(req.Status),
	})
	if err != nil {
		return mapDomainError(c, err)
	}

	data := fiber.Map{
		"appointment_id": appt.ID,
		"patient_name":   appt.PatientName,
		"status":         appt.Status,
	}
	if warning != "" {
		return response.SuccessWithWarning(c, "Appointment created", warning, data)
	}
	return response.Created(c, "Appointment created", data)
}
