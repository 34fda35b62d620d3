package handlers

import (
	"strconv"
	"strings"

	"careledger/internal/adapters/http/middleware"
	"careledger/internal/core/services"
	"careledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PatientHandler handles patient record endpoints
type PatientHandler struct {
	patientService    *services.PatientService
	anonymizerService *services.AnonymizerService
}

// NewPatientHandler creates a new patient handler
func NewPatientHandler(patientService *services.PatientService, anonymizerService *services.AnonymizerService) *PatientHandler {
	return &PatientHandler{
		patientService:    patientService,
		anonymizerService: anonymizerService,
	}
}

// AddPatientRequest represents patient creation request body
type AddPatientRequest struct {
	Name      string `json:"name"`
	Contact   string `json:"contact"`
	Diagnosis string `json:"diagnosis"`
}

// List returns the role-filtered projection of all patient records
// @Summary List patients
// @Description Role-filtered projections of all patient records, newest first
// @Tags Patients
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /patients [get]
func (h *PatientHandler) List(c *fiber.Ctx) error {
	access := middleware.GetAccess(c)

	views, err := h.patientService.ListPatients(c.Context(), access)
	if err != nil {
		return mapDomainError(c, err)
	}

	return response.Success(c, "", fiber.Map{
		"patients": views,
	})
}

// Get returns the role-filtered projection of one record
// @Summary Get patient
// @Tags Patients
// @Produce json
// @Security BearerAuth
// @Param id path int true "Patient ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /patients/{id} [get]
func (h *PatientHandler) Get(c *fiber.Ctx) error {
	access := middleware.GetAccess(c)

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid patient id")
	}

	view, err := h.patientService.GetPatient(c.Context(), access, uint(id))
	if err != nil {
		return mapDomainError(c, err)
	}

	return response.Success(c, "", view)
}

// Add creates a patient record
// @Summary Add patient
// @Tags Patients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AddPatientRequest true "Patient data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /patients [post]
func (h *PatientHandler) Add(c *fiber.Ctx) error {
	access := middleware.GetAccess(c)

	var req AddPatientRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	id, err := h.patientService.AddPatient(c.Context(), access, &services.AddPatientInput{
		Name:      strings.TrimSpace(req.Name),
		Contact:   strings.TrimSpace(req.Contact),
		Diagnosis: strings.TrimSpace(req.Diagnosis),
	})
	if err != nil {
		return mapDomainError(c, err)
	}

	return response.Created(c, "Patient record added", fiber.Map{
		"patient_id": id,
	})
}

// Anonymize derives and stores the anonymized fields for one record
// @Summary Anonymize patient
// @Tags Patients
// @Produce json
// @Security BearerAuth
// @Param id path int true "Patient ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /patients/{id}/anonymize [post]
func (h *PatientHandler) Anonymize(c *fiber.Ctx) error {
	access := middleware.GetAccess(c)

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid patient id")
	}

	if err := h.anonymizerService.AnonymizeRecord(c.Context(), access, uint(id)); err != nil {
		return mapDomainError(c, err)
	}

	return response.Success(c, "Patient anonymized", fiber.Map{
		"patient_id": uint(id),
	})
}

// AnonymizeAll re-derives the anonymized fields for every record
// @Summary Anonymize all patients
// @Tags Patients
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /patients/anonymize-all [post]
func (h *PatientHandler) AnonymizeAll(c *fiber.Ctx) error {
	access := middleware.GetAccess(c)

	count, err := h.anonymizerService.AnonymizeAll(c.Context(), access)
	if err != nil {
		return mapDomainError(c, err)
	}

	return response.Success(c, "All patients anonymized", fiber.Map{
		"anonymized_count": count,
	})
}

// ExportCSV streams all patient records as CSV
// @Summary Export patients CSV
// @Tags Patients
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {string} string
// @Failure 403 {object} response.Response
// @Router /patients/export.csv [get]
func (h *PatientHandler) ExportCSV(c *fiber.Ctx) error {
	access := middleware.GetAccess(c)

	data, err := h.patientService.ExportCSV(c.Context(), access)
	if err != nil {
		return mapDomainError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="patients.csv"`)
	return c.Send(data)
}
