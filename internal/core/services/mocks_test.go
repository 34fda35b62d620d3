package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"careledger/internal/adapters/persistence/models"
	"careledger/internal/adapters/persistence/repositories"
)

// Compile-time checks that the mocks implement the repository interfaces
var (
	_ repositories.UserRepository        = (*MockUserRepository)(nil)
	_ repositories.PatientRepository     = (*MockPatientRepository)(nil)
	_ repositories.AppointmentRepository = (*MockAppointmentRepository)(nil)
	_ repositories.AuditRepository       = (*MockAuditRepository)(nil)
)

// --- MockUserRepository ---

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	CreateFunc        func(ctx context.Context, user *models.User) error
	GetByIDFunc       func(ctx context.Context, id uint) (*models.User, error)
	GetByUsernameFunc func(ctx context.Context, username string) (*models.User, error)
	CountFunc         func(ctx context.Context) (int64, error)
	CountByRoleFunc   func(ctx context.Context) (map[string]int64, error)
	ListFunc          func(ctx context.Context) ([]*models.User, error)

	CreateCallCount int
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.CreateCallCount++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, errors.New("GetByIDFunc not implemented in mock")
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, errors.New("GetByUsernameFunc not implemented in mock")
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func (m *MockUserRepository) CountByRole(ctx context.Context) (map[string]int64, error) {
	if m.CountByRoleFunc != nil {
		return m.CountByRoleFunc(ctx)
	}
	return map[string]int64{}, nil
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

// --- MockPatientRepository ---

// MockPatientRepository is a mock implementation of PatientRepository
type MockPatientRepository struct {
	CreateFunc              func(ctx context.Context, patient *models.Patient) error
	GetByIDFunc             func(ctx context.Context, id uint) (*models.Patient, error)
	ListFunc                func(ctx context.Context) ([]*models.Patient, error)
	FindByNameExactFunc     func(ctx context.Context, name string) ([]*models.Patient, error)
	FindByNameLikeFunc      func(ctx context.Context, name string) ([]*models.Patient, error)
	UpdateAnonymizedFunc    func(ctx context.Context, id uint, anonName, anonContact string) error
	AnonymizeTxFunc         func(ctx context.Context, id uint, fn func(p *models.Patient) (string, string, error)) error
	FindCreatedBeforeFunc   func(ctx context.Context, cutoff time.Time) ([]*models.Patient, error)
	DeleteCreatedBeforeFunc func(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteByIDFunc          func(ctx context.Context, id uint) error
	CountFunc               func(ctx context.Context) (int64, error)
	CountAnonymizedFunc     func(ctx context.Context) (int64, error)

	CreateCallCount           int
	ListCallCount             int
	UpdateAnonymizedCallCount int
	AnonymizeTxCallCount      int
}

func (m *MockPatientRepository) Create(ctx context.Context, patient *models.Patient) error {
	m.CreateCallCount++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, patient)
	}
	return nil
}

func (m *MockPatientRepository) GetByID(ctx context.Context, id uint) (*models.Patient, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, errors.New("GetByIDFunc not implemented in mock")
}

func (m *MockPatientRepository) List(ctx context.Context) ([]*models.Patient, error) {
	m.ListCallCount++
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockPatientRepository) FindByNameExact(ctx context.Context, name string) ([]*models.Patient, error) {
	if m.FindByNameExactFunc != nil {
		return m.FindByNameExactFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockPatientRepository) FindByNameLike(ctx context.Context, name string) ([]*models.Patient, error) {
	if m.FindByNameLikeFunc != nil {
		return m.FindByNameLikeFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockPatientRepository) UpdateAnonymized(ctx context.Context, id uint, anonName, anonContact string) error {
	m.UpdateAnonymizedCallCount++
	if m.UpdateAnonymizedFunc != nil {
		return m.UpdateAnonymizedFunc(ctx, id, anonName, anonContact)
	}
	return nil
}

func (m *MockPatientRepository) AnonymizeTx(ctx context.Context, id uint, fn func(p *models.Patient) (string, string, error)) error {
	m.AnonymizeTxCallCount++
	if m.AnonymizeTxFunc != nil {
		return m.AnonymizeTxFunc(ctx, id, fn)
	}
	return errors.New("AnonymizeTxFunc not implemented in mock")
}

func (m *MockPatientRepository) FindCreatedBefore(ctx context.Context, cutoff time.Time) ([]*models.Patient, error) {
	if m.FindCreatedBeforeFunc != nil {
		return m.FindCreatedBeforeFunc(ctx, cutoff)
	}
	return nil, nil
}

func (m *MockPatientRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.DeleteCreatedBeforeFunc != nil {
		return m.DeleteCreatedBeforeFunc(ctx, cutoff)
	}
	return 0, nil
}

func (m *MockPatientRepository) DeleteByID(ctx context.Context, id uint) error {
	if m.DeleteByIDFunc != nil {
		return m.DeleteByIDFunc(ctx, id)
	}
	return nil
}

func (m *MockPatientRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func (m *MockPatientRepository) CountAnonymized(ctx context.Context) (int64, error) {
	if m.CountAnonymizedFunc != nil {
		return m.CountAnonymizedFunc(ctx)
	}
	return 0, nil
}

// --- MockAppointmentRepository ---

// MockAppointmentRepository is a mock implementation of AppointmentRepository
type MockAppointmentRepository struct {
	CreateFunc func(ctx context.Context, appt *models.Appointment) error
	ListFunc   func(ctx context.Context) ([]*models.Appointment, error)

	CreateCallCount int
}

func (m *MockAppointmentRepository) Create(ctx context.Context, appt *models.Appointment) error {
	m.CreateCallCount++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, appt)
	}
	return nil
}

func (m *MockAppointmentRepository) List(ctx context.Context) ([]*models.Appointment, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

// --- MockAuditRepository ---

// MockAuditRepository records appended entries so tests can assert on
// the produced trail
type MockAuditRepository struct {
	AppendFunc     func(ctx context.Context, entry *models.AuditLog) error
	ListRecentFunc func(ctx context.Context, limit int) ([]*models.AuditLog, error)
	ListPageFunc   func(ctx context.Context, offset, limit int) ([]*models.AuditLog, int64, error)
	ListByUserFunc func(ctx context.Context, userID uint) ([]*models.AuditLog, error)
	CountFunc      func(ctx context.Context) (int64, error)
	CountSinceFunc func(ctx context.Context, since time.Time) (int64, error)

	mu      sync.Mutex
	Entries []*models.AuditLog
}

func (m *MockAuditRepository) Append(ctx context.Context, entry *models.AuditLog) error {
	if m.AppendFunc != nil {
		if err := m.AppendFunc(ctx, entry); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, entry)
	return nil
}

// Appended returns a copy of the recorded entries
func (m *MockAuditRepository) Appended() []*models.AuditLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.AuditLog, len(m.Entries))
	copy(out, m.Entries)
	return out
}

func (m *MockAuditRepository) ListRecent(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockAuditRepository) ListPage(ctx context.Context, offset, limit int) ([]*models.AuditLog, int64, error) {
	if m.ListPageFunc != nil {
		return m.ListPageFunc(ctx, offset, limit)
	}
	return nil, 0, nil
}

func (m *MockAuditRepository) ListByUser(ctx context.Context, userID uint) ([]*models.AuditLog, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockAuditRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func (m *MockAuditRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	if m.CountSinceFunc != nil {
		return m.CountSinceFunc(ctx, since)
	}
	return 0, nil
}
