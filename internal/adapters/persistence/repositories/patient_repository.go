package repositories

import (
	"context"
	"time"

	"careledger/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// patientRepository implements PatientRepository interface
type patientRepository struct {
	db *gorm.DB
}

// NewPatientRepository creates a new patient repository
func NewPatientRepository(db *gorm.DB) PatientRepository {
	return &patientRepository{db: db}
}

// Create creates a new patient record
func (r *patientRepository) Create(ctx context.Context, patient *models.Patient) error {
	return r.db.WithContext(ctx).Create(patient).Error
}

// GetByID gets a patient by ID
func (r *patientRepository) GetByID(ctx context.Context, id uint) (*models.Patient, error) {
	var patient models.Patient
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&patient).Error
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

// List lists all patients, newest first
func (r *patientRepository) List(ctx context.Context) ([]*models.Patient, error) {
	var patients []*models.Patient
	err := r.db.WithContext(ctx).Order("id DESC").Find(&patients).Error
	return patients, err
}

// FindByNameExact finds patients by case-insensitive exact name match,
// in natural store order
func (r *patientRepository) FindByNameExact(ctx context.Context, name string) ([]*models.Patient, error) {
	var patients []*models.Patient
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		Order("id").
		Find(&patients).Error
	return patients, err
}

// FindByNameLike finds patients by case-insensitive substring name match,
// in natural store order
func (r *patientRepository) FindByNameLike(ctx context.Context, name string) ([]*models.Patient, error) {
	var patients []*models.Patient
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE LOWER(?)", "%"+name+"%").
		Order("id").
		Find(&patients).Error
	return patients, err
}

// UpdateAnonymized writes both derived columns in one statement so a
// record can never end up partially anonymized
func (r *patientRepository) UpdateAnonymized(ctx context.Context, id uint, anonName, anonContact string) error {
	return r.db.WithContext(ctx).Model(&models.Patient{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"anonymized_name":    anonName,
			"anonymized_contact": anonContact,
		}).Error
}

// AnonymizeTx locks the row for the duration of the read-modify-write.
// fn derives the anonymized fields from the current raw fields; both are
// written inside the same transaction.
func (r *patientRepository) AnonymizeTx(ctx context.Context, id uint, fn func(p *models.Patient) (name, contact string, err error)) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var patient models.Patient
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&patient).Error; err != nil {
			return err
		}

		anonName, anonContact, err := fn(&patient)
		if err != nil {
			return err
		}

		return tx.Model(&models.Patient{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"anonymized_name":    anonName,
				"anonymized_contact": anonContact,
			}).Error
	})
}

// FindCreatedBefore finds patients created before the cutoff, oldest first
func (r *patientRepository) FindCreatedBefore(ctx context.Context, cutoff time.Time) ([]*models.Patient, error) {
	var patients []*models.Patient
	err := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Order("created_at ASC").
		Find(&patients).Error
	return patients, err
}

// DeleteCreatedBefore permanently deletes patients created before the
// cutoff and returns the number of rows removed
func (r *patientRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.Patient{})
	return result.RowsAffected, result.Error
}

// DeleteByID permanently deletes a single patient record
func (r *patientRepository) DeleteByID(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Patient{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Count counts all patients
func (r *patientRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Patient{}).Count(&count).Error
	return count, err
}

// CountAnonymized counts patients with derived fields populated
func (r *patientRepository) CountAnonymized(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Patient{}).
		Where("anonymized_name IS NOT NULL").
		Count(&count).Error
	return count, err
}
