package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"careledger/internal/adapters/persistence/models"
	"careledger/internal/adapters/persistence/repositories"
	"careledger/internal/core/domain"

	"gorm.io/gorm"
)

const (
	// AnonPrefix prefixes every derived pseudonym label
	AnonPrefix = "ANON_"
	// MaskedContactFull is returned when the contact has fewer than 4 digits
	MaskedContactFull = "XXX-XXX-XXXX"
)

// MaskContact keeps the last 4 digits of the raw contact and replaces
// everything else with a fixed placeholder. Pure and deterministic.
func MaskContact(contact string) string {
	var digits []rune
	for _, c := range contact {
		if c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}
	if len(digits) >= 4 {
		return "XXX-XXX-" + string(digits[len(digits)-4:])
	}
	return MaskedContactFull
}

// AnonymizeName derives a deterministic one-way pseudonym from the
// record id and raw name. The same (id, name) pair always yields the
// same label, so repeated anonymization is idempotent and labels stay
// correlatable across views.
func AnonymizeName(name string, patientID uint) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%d:%s", patientID, name)))
	return AnonPrefix + hex.EncodeToString(h[:])[:8]
}

// AnonymizeLabel derives a pseudonym from free text alone, for values
// that have no record id (appointment subject names shown to non-admins).
func AnonymizeLabel(text string) string {
	if text == "" {
		return "(unknown)"
	}
	h := sha256.Sum256([]byte(text))
	return AnonPrefix + hex.EncodeToString(h[:])[:8]
}

// AnonymizerService populates the derived pseudonymized fields of
// patient records. Raw fields are never touched.
type AnonymizerService struct {
	patientRepo repositories.PatientRepository
	audit       *AuditService
	policy      *PolicyService
}

// NewAnonymizerService creates a new anonymizer service
func NewAnonymizerService(
	patientRepo repositories.PatientRepository,
	audit *AuditService,
	policy *PolicyService,
) *AnonymizerService {
	return &AnonymizerService{
		patientRepo: patientRepo,
		audit:       audit,
		policy:      policy,
	}
}

// AnonymizeRecord derives and stores both anonymized fields for one
// record. The read-modify-write runs under a row lock so concurrent
// anonymize/erase calls on the same id cannot interleave.
func (s *AnonymizerService) AnonymizeRecord(ctx context.Context, access domain.AccessContext, patientID uint) error {
	if !access.Consented {
		return domain.ErrConsentRequired
	}
	if !s.policy.CanAnonymize(access.Role) {
		return domain.ErrPermissionDenied
	}

	err := s.patientRepo.AnonymizeTx(ctx, patientID, func(p *models.Patient) (string, string, error) {
		return AnonymizeName(p.Name, p.ID), MaskContact(p.Contact), nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrPatientNotFound
		}
		return fmt.Errorf("%w: %v", domain.ErrStore, err)
	}

	// Audit failures must not undo a completed anonymization.
	_ = s.audit.Append(ctx, &access.UserID, access.Role, models.ActionAnonymize,
		fmt.Sprintf("anonymized patient_id=%d", patientID))

	return nil
}

// AnonymizeAll re-derives the anonymized fields for every record.
// Re-running over already-anonymized records is safe: the derivation is
// deterministic, so the stored values do not change.
func (s *AnonymizerService) AnonymizeAll(ctx context.Context, access domain.AccessContext) (int, error) {
	if !access.Consented {
		return 0, domain.ErrConsentRequired
	}
	if !s.policy.CanAnonymize(access.Role) {
		return 0, domain.ErrPermissionDenied
	}

	patients, err := s.patientRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}

	count := 0
	for _, p := range patients {
		anonName := AnonymizeName(p.Name, p.ID)
		anonContact := MaskContact(p.Contact)
		if err := s.patientRepo.UpdateAnonymized(ctx, p.ID, anonName, anonContact); err != nil {
			return count, fmt.Errorf("%w: %v", domain.ErrStore, err)
		}
		count++
	}

	// One summary entry for the bulk run.
	_ = s.audit.Append(ctx, &access.UserID, access.Role, models.ActionAnonymizeAll,
		fmt.Sprintf("anonymized %d patient records", count))

	return count, nil
}
