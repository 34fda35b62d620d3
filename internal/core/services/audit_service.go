package services

import (
	"context"
	"log"
	"time"

	"careledger/internal/adapters/persistence/models"
	"careledger/internal/adapters/persistence/repositories"
	"careledger/internal/core/domain"
)

// AuditService appends to and reads the immutable audit trail.
//
// Append returns its error so that primary operations can choose to
// proceed when the audit subsystem is degraded. Callers on primary
// paths discard the result on purpose; the failure is still logged here
// so operators can monitor audit gaps out-of-band.
type AuditService struct {
	auditRepo repositories.AuditRepository
}

// NewAuditService creates a new audit service
func NewAuditService(auditRepo repositories.AuditRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

// Append writes one audit entry. The entry is immutable once stored.
func (s *AuditService) Append(ctx context.Context, actorID *uint, role domain.Role, action, details string) error {
	entry := &models.AuditLog{
		UserID:    actorID,
		Role:      string(role),
		Action:    action,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}

	if err := s.auditRepo.Append(ctx, entry); err != nil {
		log.Printf("⚠️ Audit append failed (action=%s): %v", action, err)
		return err
	}
	return nil
}

// Recent returns the newest entries, bounded by limit. Administrators only.
func (s *AuditService) Recent(ctx context.Context, access domain.AccessContext, limit int) ([]*domain.AuditEntry, error) {
	if !access.Consented {
		return nil, domain.ErrConsentRequired
	}
	if access.Role != domain.RoleAdmin {
		return nil, domain.ErrPermissionDenied
	}

	if limit < 1 {
		limit = 50
	}

	rows, err := s.auditRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.AuditEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.ToDomain())
	}
	return entries, nil
}

// RecentPage returns one page of the trail, newest first, with the total
// entry count. Administrators only.
func (s *AuditService) RecentPage(ctx context.Context, access domain.AccessContext, offset, limit int) ([]*domain.AuditEntry, int64, error) {
	if !access.Consented {
		return nil, 0, domain.ErrConsentRequired
	}
	if access.Role != domain.RoleAdmin {
		return nil, 0, domain.ErrPermissionDenied
	}

	rows, total, err := s.auditRepo.ListPage(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	entries := make([]*domain.AuditEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.ToDomain())
	}
	return entries, total, nil
}
