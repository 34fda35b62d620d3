package repositories

import (
	"context"
	"time"

	"careledger/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// auditRepository implements AuditRepository interface
type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

// Append inserts one audit entry
func (r *auditRepository) Append(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListRecent lists the newest entries, bounded by limit
func (r *auditRepository) ListRecent(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	var entries []*models.AuditLog
	err := r.db.WithContext(ctx).
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// ListPage lists entries newest first with pagination
func (r *auditRepository) ListPage(ctx context.Context, offset, limit int) ([]*models.AuditLog, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.AuditLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []*models.AuditLog
	err := r.db.WithContext(ctx).
		Order("timestamp DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error
	return entries, total, err
}

// ListByUser lists all entries for one actor, newest first
func (r *auditRepository) ListByUser(ctx context.Context, userID uint) ([]*models.AuditLog, error) {
	var entries []*models.AuditLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC, id DESC").
		Find(&entries).Error
	return entries, err
}

// Count counts all entries
func (r *auditRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AuditLog{}).Count(&count).Error
	return count, err
}

// CountSince counts entries newer than the given time
func (r *auditRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AuditLog{}).
		Where("timestamp > ?", since).
		Count(&count).Error
	return count, err
}
