package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"
	"unicode"

	"careledger/internal/adapters/persistence/models"
	"careledger/internal/adapters/persistence/repositories"
	"careledger/internal/core/domain"

	"gorm.io/gorm"
)

// MinContactDigits is the minimum number of digits a contact must carry
const MinContactDigits = 11

// PatientService handles patient record access and creation. Every read
// goes through the policy projection and is written to the audit trail.
type PatientService struct {
	patientRepo repositories.PatientRepository
	audit       *AuditService
	policy      *PolicyService
}

// NewPatientService creates a new patient service
func NewPatientService(
	patientRepo repositories.PatientRepository,
	audit *AuditService,
	policy *PolicyService,
) *PatientService {
	return &PatientService{
		patientRepo: patientRepo,
		audit:       audit,
		policy:      policy,
	}
}

// AddPatientInput represents patient creation input
type AddPatientInput struct {
	Name      string `json:"name"`
	Contact   string `json:"contact"`
	Diagnosis string `json:"diagnosis"`
}

// ListPatients returns the role-filtered projection of every record,
// newest first, and logs one access entry per projected record.
func (s *PatientService) ListPatients(ctx context.Context, access domain.AccessContext) ([]*PatientView, error) {
	if !access.Consented {
		return nil, domain.ErrConsentRequired
	}

	patients, err := s.patientRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}

	views := make([]*PatientView, 0, len(patients))
	for _, p := range patients {
		views = append(views, s.policy.Project(access.Role, p.ToDomain()))
		// Access logging is mandatory; a degraded audit store must not
		// make records unreadable.
		_ = s.audit.Append(ctx, &access.UserID, access.Role, models.ActionViewPatient,
			fmt.Sprintf("accessed patient record patient_id=%d", p.ID))
	}

	return views, nil
}

// GetPatient returns the role-filtered projection of a single record
func (s *PatientService) GetPatient(ctx context.Context, access domain.AccessContext, patientID uint) (*PatientView, error) {
	if !access.Consented {
		return nil, domain.ErrConsentRequired
	}

	patient, err := s.patientRepo.GetByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPatientNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}

	view := s.policy.Project(access.Role, patient.ToDomain())

	_ = s.audit.Append(ctx, &access.UserID, access.Role, models.ActionViewPatient,
		fmt.Sprintf("accessed patient record patient_id=%d", patient.ID))

	return view, nil
}

// AddPatient validates and creates a patient record
func (s *PatientService) AddPatient(ctx context.Context, access domain.AccessContext, input *AddPatientInput) (uint, error) {
	if !access.Consented {
		return 0, domain.ErrConsentRequired
	}
	if !s.policy.CanCreatePatient(access.Role) {
		return 0, domain.ErrPermissionDenied
	}
	if err := validatePatientInput(input); err != nil {
		return 0, err
	}

	patient := &models.Patient{
		Name:      input.Name,
		Contact:   input.Contact,
		Diagnosis: input.Diagnosis,
	}
	if err := s.patientRepo.Create(ctx, patient); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}

	_ = s.audit.Append(ctx, &access.UserID, access.Role, models.ActionAddPatient,
		fmt.Sprintf("patient_id=%d", patient.ID))

	return patient.ID, nil
}

// ExportCSV writes all patient records to CSV with the fixed column
// contract. Raw fields are included, so this is restricted to roles that
// may see raw data.
func (s *PatientService) ExportCSV(ctx context.Context, access domain.AccessContext) ([]byte, error) {
	if !access.Consented {
		return nil, domain.ErrConsentRequired
	}
	if !s.policy.CanExportRaw(access.Role) {
		return nil, domain.ErrPermissionDenied
	}

	patients, err := s.patientRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"patient_id", "name", "contact", "diagnosis", "anonymized_name", "anonymized_contact", "date_added"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, p := range patients {
		row := []string{
			strconv.FormatUint(uint64(p.ID), 10),
			p.Name,
			p.Contact,
			p.Diagnosis,
			strOrEmpty(p.AnonymizedName),
			strOrEmpty(p.AnonymizedContact),
			p.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	_ = s.audit.Append(ctx, &access.UserID, access.Role, models.ActionDataAccess,
		fmt.Sprintf("exported %d patient records to csv", len(patients)))

	return buf.Bytes(), nil
}

// validatePatientInput enforces the creation rules: all fields required,
// name restricted to letters/spaces/hyphens, contact with enough digits.
func validatePatientInput(input *AddPatientInput) error {
	if input.Name == "" {
		return fmt.Errorf("%w: full name is required", domain.ErrValidation)
	}
	if input.Contact == "" {
		return fmt.Errorf("%w: contact number is required", domain.ErrValidation)
	}
	if input.Diagnosis == "" {
		return fmt.Errorf("%w: diagnosis is required", domain.ErrValidation)
	}

	for _, c := range input.Name {
		if !unicode.IsLetter(c) && !unicode.IsSpace(c) && c != '-' {
			return fmt.Errorf("%w: name may only contain letters, spaces, and hyphens", domain.ErrValidation)
		}
	}

	digits := 0
	for _, c := range input.Contact {
		if c >= '0' && c <= '9' {
			digits++
		}
	}
	if digits < MinContactDigits {
		return fmt.Errorf("%w: contact number must contain at least %d digits", domain.ErrValidation, MinContactDigits)
	}

	return nil
}

func strOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
