package repositories

import (
	"context"
	"time"

	"careledger/internal/adapters/persistence/models"
)

// UserRepository defines identity repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context) (map[string]int64, error)
	List(ctx context.Context) ([]*models.User, error)
}

// PatientRepository defines patient record repository interface.
// AnonymizeTx runs fn against the given record under a row lock so a
// concurrent anonymize/erase on the same id cannot produce a lost update.
type PatientRepository interface {
	Create(ctx context.Context, patient *models.Patient) error
	GetByID(ctx context.Context, id uint) (*models.Patient, error)
	List(ctx context.Context) ([]*models.Patient, error)
	FindByNameExact(ctx context.Context, name string) ([]*models.Patient, error)
	FindByNameLike(ctx context.Context, name string) ([]*models.Patient, error)
	UpdateAnonymized(ctx context.Context, id uint, anonName, anonContact string) error
	AnonymizeTx(ctx context.Context, id uint, fn func(p *models.Patient) (name, contact string, err error)) error
	FindCreatedBefore(ctx context.Context, cutoff time.Time) ([]*models.Patient, error)
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteByID(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	CountAnonymized(ctx context.Context) (int64, error)
}

// AppointmentRepository defines appointment repository interface
type AppointmentRepository interface {
	Create(ctx context.Context, appt *models.Appointment) error
	List(ctx context.Context) ([]*models.Appointment, error)
}

// AuditRepository defines audit trail repository interface.
// Append-only: no update or delete methods exist.
type AuditRepository interface {
	Append(ctx context.Context, entry *models.AuditLog) error
	ListRecent(ctx context.Context, limit int) ([]*models.AuditLog, error)
	ListPage(ctx context.Context, offset, limit int) ([]*models.AuditLog, int64, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.AuditLog, error)
	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}
