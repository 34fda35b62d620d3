package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"careledger/internal/adapters/persistence/models"
	"careledger/internal/adapters/persistence/repositories"
	"careledger/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PortabilityNotice is the fixed provenance string attached to every
// portability export
const PortabilityNotice = "This data export is provided in compliance with GDPR Article 20 (Data Portability)."

// RetentionService implements the data lifecycle: retention expiry,
// erasure requests, portability exports and the compliance overview.
type RetentionService struct {
	patientRepo repositories.PatientRepository
	userRepo    repositories.UserRepository
	auditRepo   repositories.AuditRepository
	audit       *AuditService
	policy      *PolicyService
}

// NewRetentionService creates a new retention service
func NewRetentionService(
	patientRepo repositories.PatientRepository,
	userRepo repositories.UserRepository,
	auditRepo repositories.AuditRepository,
	audit *AuditService,
	policy *PolicyService,
) *RetentionService {
	return &RetentionService{
		patientRepo: patientRepo,
		userRepo:    userRepo,
		auditRepo:   auditRepo,
		audit:       audit,
		policy:      policy,
	}
}

// RetentionReport summarizes records past the retention window
type RetentionReport struct {
	RetentionDays  int               `json:"retention_days"`
	CutoffDate     string            `json:"cutoff_date"`
	ExpiredCount   int               `json:"expired_count"`
	ExpiredRecords []*domain.Patient `json:"expired_records"`
}

// ExportDocument is the portability export for one identity
type ExportDocument struct {
	ExportID         string                `json:"export_id"`
	ExportDate       string                `json:"export_date"`
	User             *models.UserResponse  `json:"user"`
	PatientsInSystem []*domain.Patient     `json:"patients_in_system"`
	AccessLogs       []*domain.AuditEntry  `json:"access_logs"`
	Notice           string                `json:"data_portability_notice"`
}

// ComplianceReport aggregates the read-side compliance picture. Status
// is a simple heuristic, not a legal determination.
type ComplianceReport struct {
	ReportDate         string           `json:"report_date"`
	TotalUsers         int64            `json:"total_users"`
	UsersByRole        map[string]int64 `json:"users_by_role"`
	TotalPatients      int64            `json:"total_patients"`
	AnonymizedPatients int64            `json:"anonymized_patients"`
	AnonymizationRate  string           `json:"anonymization_rate"`
	TotalAuditLogs     int64            `json:"total_audit_logs"`
	RecentLogs7Days    int64            `json:"recent_logs_7days"`
	Status             string           `json:"gdpr_status"`
}

// Compliance statuses
const (
	StatusCompliant   = "Compliant"
	StatusNeedsReview = "Needs Review"
)

// FindExpired returns records older than the retention window, oldest first
func (s *RetentionService) FindExpired(ctx context.Context, access domain.AccessContext, retentionDays int) ([]*domain.Patient, error) {
	if !access.Consented {
		return nil, domain.ErrConsentRequired
	}
	if !s.policy.CanErase(access.Role) {
		return nil, domain.ErrPermissionDenied
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	rows, err := s.patientRepo.FindCreatedBefore(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}

	expired := make([]*domain.Patient, 0, len(rows))
	for _, row := range rows {
		expired = append(expired, row.ToDomain())
	}
	return expired, nil
}

// Report builds the retention report for the given window
func (s *RetentionService) Report(ctx context.Context, access domain.AccessContext, retentionDays int) (*RetentionReport, error) {
	expired, err := s.FindExpired(ctx, access, retentionDays)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	return &RetentionReport{
		RetentionDays:  retentionDays,
		CutoffDate:     cutoff.Format(time.RFC3339),
		ExpiredCount:   len(expired),
		ExpiredRecords: expired,
	}, nil
}

// PurgeExpired permanently deletes all records past the retention window
// and returns the number deleted. Administrators only.
func (s *RetentionService) PurgeExpired(ctx context.Context, access domain.AccessContext, retentionDays int) (int64, error) {
	if !access.Consented {
		return 0, domain.ErrConsentRequired
	}
	if !s.policy.CanErase(access.Role) {
		return 0, domain.ErrPermissionDenied
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	deleted, err := s.patientRepo.DeleteCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}

	// One summary entry for the whole purge.
	_ = s.audit.Append(ctx, &access.UserID, access.Role, models.ActionDeleteExpired,
		fmt.Sprintf("deleted %d expired patient records (retention_days=%d)", deleted, retentionDays))

	return deleted, nil
}

// Forget permanently removes a single record on an erasure request.
// Administrators only.
func (s *RetentionService) Forget(ctx context.Context, access domain.AccessContext, patientID uint) error {
	if !access.Consented {
		return domain.ErrConsentRequired
	}
	if !s.policy.CanErase(access.Role) {
		return domain.ErrPermissionDenied
	}

	if err := s.patientRepo.DeleteByID(ctx, patientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrPatientNotFound
		}
		return fmt.Errorf("%w: %v", domain.ErrStore, err)
	}

	_ = s.audit.Append(ctx, &access.UserID, access.Role, models.ActionForget,
		fmt.Sprintf("deleted patient_id=%d per erasure request", patientID))

	return nil
}

// ExportUserData assembles a portability document for one identity:
// their identity info, the records currently in the store, and their own
// slice of the audit trail. Callers may export their own data;
// administrators may export anyone's.
func (s *RetentionService) ExportUserData(ctx context.Context, access domain.AccessContext, userID uint) (*ExportDocument, error) {
	if !access.Consented {
		return nil, domain.ErrConsentRequired
	}
	if access.UserID != userID && access.Role != domain.RoleAdmin {
		return nil, domain.ErrPermissionDenied
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}

	patientRows, err := s.patientRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	patients := make([]*domain.Patient, 0, len(patientRows))
	for _, row := range patientRows {
		patients = append(patients, row.ToDomain())
	}

	logRows, err := s.auditRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	logs := make([]*domain.AuditEntry, 0, len(logRows))
	for _, row := range logRows {
		logs = append(logs, row.ToDomain())
	}

	_ = s.audit.Append(ctx, &access.UserID, access.Role, models.ActionExportData,
		fmt.Sprintf("exported data for user_id=%d", userID))

	return &ExportDocument{
		ExportID:         uuid.New().String(),
		ExportDate:       time.Now().UTC().Format(time.RFC3339),
		User:             user.ToResponse(),
		PatientsInSystem: patients,
		AccessLogs:       logs,
		Notice:           PortabilityNotice,
	}, nil
}

// Compliance builds the compliance overview. Administrators only.
func (s *RetentionService) Compliance(ctx context.Context, access domain.AccessContext) (*ComplianceReport, error) {
	if !access.Consented {
		return nil, domain.ErrConsentRequired
	}
	if access.Role != domain.RoleAdmin {
		return nil, domain.ErrPermissionDenied
	}

	totalUsers, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	usersByRole, err := s.userRepo.CountByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	totalPatients, err := s.patientRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	anonymized, err := s.patientRepo.CountAnonymized(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	totalLogs, err := s.auditRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	recentLogs, err := s.auditRepo.CountSince(ctx, time.Now().UTC().AddDate(0, 0, -7))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}

	rate := "0%"
	if totalPatients > 0 {
		rate = fmt.Sprintf("%.1f%%", float64(anonymized)/float64(totalPatients)*100)
	}

	status := StatusNeedsReview
	if anonymized > 0 && totalLogs > 0 {
		status = StatusCompliant
	}

	return &ComplianceReport{
		ReportDate:         time.Now().UTC().Format(time.RFC3339),
		TotalUsers:         totalUsers,
		UsersByRole:        usersByRole,
		TotalPatients:      totalPatients,
		AnonymizedPatients: anonymized,
		AnonymizationRate:  rate,
		TotalAuditLogs:     totalLogs,
		RecentLogs7Days:    recentLogs,
		Status:             status,
	}, nil
}
