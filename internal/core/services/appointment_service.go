package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"careledger/internal/adapters/persistence/models"
	"careledger/internal/adapters/persistence/repositories"
	"careledger/internal/core/domain"

	"gorm.io/gorm"
)

// AppointmentService handles scheduled events. Subjects are resolved to
// a canonical patient record before an appointment is stored.
type AppointmentService struct {
	apptRepo    repositories.AppointmentRepository
	patientRepo repositories.PatientRepository
	audit       *AuditService
	policy      *PolicyService
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(
	apptRepo repositories.AppointmentRepository,
	patientRepo repositories.PatientRepository,
	audit *AuditService,
	policy *PolicyService,
) *AppointmentService {
	return &AppointmentService{
		apptRepo:    apptRepo,
		patientRepo: patientRepo,
		audit:       audit,
		policy:      policy,
	}
}

// CreateAppointmentInput represents appointment creation input.
// Subject is a patient id or (partial) name.
type CreateAppointmentInput struct {
	Subject string `json:"subject"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Status  string `json:"status"`
}

// AppointmentView is the role-filtered appointment projection:
// administrators see the raw patient name, everyone else a pseudonym.
type AppointmentView struct {
	AppointmentID uint   `json:"appointment_id"`
	PatientName   string `json:"patient_name"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Status        string `json:"status"`
}

// ListAppointments lists all appointments, newest first
func (s *AppointmentService) ListAppointments(ctx context.Context, access domain.AccessContext) ([]*AppointmentView, error) {
	if !access.Consented {
		return nil, domain.ErrConsentRequired
	}

	appts, err := s.apptRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}

	views := make([]*AppointmentView, 0, len(appts))
	for _, a := range appts {
		name := a.PatientName
		if access.Role != domain.RoleAdmin {
			name = AnonymizeLabel(a.PatientName)
		}
		views = append(views, &AppointmentView{
			AppointmentID: a.ID,
			PatientName:   name,
			Date:          a.Date,
			Time:          a.Time,
			Status:        a.Status,
		})
	}

	_ = s.audit.Append(ctx, &access.UserID, access.Role, models.ActionDataAccess,
		fmt.Sprintf("accessed appointment list (%d entries)", len(appts)))

	return views, nil
}

// CreateAppointment resolves the subject and stores the appointment.
// The returned warning is non-empty when the subject matched more than
// one record and the first match was used.
func (s *AppointmentService) CreateAppointment(ctx context.Context, access domain.AccessContext, input *CreateAppointmentInput) (*models.Appointment, string, error) {
	if !access.Consented {
		return nil, "", domain.ErrConsentRequired
	}
	if !s.policy.CanCreateAppointment(access.Role) {
		return nil, "", domain.ErrPermissionDenied
	}

	if input.Subject == "" {
		return nil, "", fmt.Errorf("%w: patient name or id is required", domain.ErrValidation)
	}
	if input.Date == "" || input.Time == "" {
		return nil, "", fmt.Errorf("%w: date and time are required", domain.ErrValidation)
	}
	switch input.Status {
	case models.ApptStatusScheduled, models.ApptStatusCompleted, models.ApptStatusCancelled:
	case "":
		input.Status = models.ApptStatusScheduled
	default:
		return nil, "", fmt.Errorf("%w: invalid status %q", domain.ErrValidation, input.Status)
	}

	patient, warning, err := s.resolveSubject(ctx, input.Subject)
	if err != nil {
		return nil, "", err
	}

	appt := &models.Appointment{
		PatientName: patient.Name,
		Date:        input.Date,
		Time:        input.Time,
		Status:      input.Status,
		CreatedBy:   access.UserID,
	}
	if err := s.apptRepo.Create(ctx, appt); err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrStore, err)
	}

	_ = s.audit.Append(ctx, &access.UserID, access.Role, models.ActionCreateAppt,
		fmt.Sprintf("appointment_id=%d patient_id=%d", appt.ID, patient.ID))

	return appt, warning, nil
}

// resolveSubject maps free-text input to a canonical patient record:
// exact numeric id, then case-insensitive exact name, then substring.
// Several matches resolve to the first in store order with a warning.
func (s *AppointmentService) resolveSubject(ctx context.Context, subject string) (*models.Patient, string, error) {
	if id, convErr := strconv.ParseUint(subject, 10, 64); convErr == nil {
		patient, err := s.patientRepo.GetByID(ctx, uint(id))
		if err == nil {
			return patient, "", nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", fmt.Errorf("%w: %v", domain.ErrStore, err)
		}
	}

	matches, err := s.patientRepo.FindByNameExact(ctx, subject)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	if len(matches) == 0 {
		matches, err = s.patientRepo.FindByNameLike(ctx, subject)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", domain.ErrStore, err)
		}
	}
	if len(matches) == 0 {
		return nil, "", domain.ErrSubjectNotFound
	}

	if len(matches) > 1 {
		warning := fmt.Sprintf("multiple patients matched the name; using id %d / name %q", matches[0].ID, matches[0].Name)
		return matches[0], warning, nil
	}
	return matches[0], "", nil
}
