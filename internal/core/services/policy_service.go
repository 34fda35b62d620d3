package services

import (
	"time"

	"careledger/internal/core/domain"
)

// Placeholder values shown in place of missing anonymized fields
const (
	FallbackNotAnonymized = "(not anonymized)"
	FallbackMasked        = "(masked)"
)

// PatientView is the role-filtered projection of a patient record.
// Hidden fields are nil and omitted from JSON, so a projection can never
// leak a field the role is not allowed to see.
type PatientView struct {
	PatientID         uint    `json:"patient_id"`
	Name              *string `json:"name,omitempty"`
	Contact           *string `json:"contact,omitempty"`
	Diagnosis         *string `json:"diagnosis,omitempty"`
	AnonymizedName    *string `json:"anonymized_name,omitempty"`
	AnonymizedContact *string `json:"anonymized_contact,omitempty"`
	DateAdded         *string `json:"date_added,omitempty"`
}

// PolicyService is the central authorization decision point: it computes
// role-filtered projections and answers whether an action is permitted
// at all. It holds no state and touches no store.
type PolicyService struct{}

// NewPolicyService creates a new policy service
func NewPolicyService() *PolicyService {
	return &PolicyService{}
}

// Project returns the permitted view of a patient for the given role.
//
//	admin:       raw fields, derived fields, diagnosis
//	doctor:      derived fields (fallback "(not anonymized)"), diagnosis
//	receptionist: derived fields (fallback "(masked)"), no diagnosis
//	anything else: record id only
func (s *PolicyService) Project(role domain.Role, p *domain.Patient) *PatientView {
	view := &PatientView{PatientID: p.ID}

	switch role {
	case domain.RoleAdmin:
		view.Name = strPtr(p.Name)
		view.Contact = strPtr(p.Contact)
		view.Diagnosis = strPtr(p.Diagnosis)
		view.AnonymizedName = orFallback(p.AnonymizedName, FallbackNotAnonymized)
		view.AnonymizedContact = orFallback(p.AnonymizedContact, FallbackNotAnonymized)
		view.DateAdded = strPtr(p.CreatedAt.UTC().Format(time.RFC3339))

	case domain.RoleClinician:
		view.AnonymizedName = orFallback(p.AnonymizedName, FallbackNotAnonymized)
		view.AnonymizedContact = orFallback(p.AnonymizedContact, FallbackNotAnonymized)
		view.Diagnosis = strPtr(p.Diagnosis)

	case domain.RoleFrontDesk:
		view.AnonymizedName = orFallback(p.AnonymizedName, FallbackMasked)
		view.AnonymizedContact = orFallback(p.AnonymizedContact, FallbackMasked)

	default:
		// Unrecognized role: nothing beyond the record id.
	}

	return view
}

// CanCreatePatient reports whether the role may create patient records
func (s *PolicyService) CanCreatePatient(role domain.Role) bool {
	switch role {
	case domain.RoleAdmin, domain.RoleFrontDesk:
		return true
	}
	return false
}

// CanAnonymize reports whether the role may anonymize records
func (s *PolicyService) CanAnonymize(role domain.Role) bool {
	switch role {
	case domain.RoleAdmin, domain.RoleClinician:
		return true
	}
	return false
}

// CanCreateAppointment reports whether the role may create appointments
func (s *PolicyService) CanCreateAppointment(role domain.Role) bool {
	return role.IsRecognized()
}

// CanErase reports whether the role may permanently delete records
// (retention purge and erasure requests)
func (s *PolicyService) CanErase(role domain.Role) bool {
	return role == domain.RoleAdmin
}

// CanViewStaff reports whether the role may view the staff directory
func (s *PolicyService) CanViewStaff(role domain.Role) bool {
	return role == domain.RoleAdmin
}

// CanExportRaw reports whether the role may export raw record data
func (s *PolicyService) CanExportRaw(role domain.Role) bool {
	return role == domain.RoleAdmin
}

func strPtr(v string) *string {
	return &v
}

func orFallback(v *string, fallback string) *string {
	if v == nil || *v == "" {
		return &fallback
	}
	return v
}
