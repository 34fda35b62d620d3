package models

import (
	"time"

	"careledger/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Identity & Session
// ============================================================

// User represents users table
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:20;not null" json:"role"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"user_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func (u *User) ToDomain() *domain.User {
	return &domain.User{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         domain.Role(u.Role),
		CreatedAt:    u.CreatedAt,
	}
}

// ============================================================
// Patient Records
// ============================================================

// Patient represents patients table. Raw identifying fields are kept
// when a record is anonymized; the anonymized_* columns are derived and
// written together in a single statement (never one without the other).
type Patient struct {
	ID                uint      `gorm:"primaryKey" json:"patient_id"`
	Name              string    `gorm:"size:100;not null" json:"name"`
	Contact           string    `gorm:"size:50;not null" json:"contact"`
	Diagnosis         string    `gorm:"type:text;not null" json:"diagnosis"`
	AnonymizedName    *string   `gorm:"size:50" json:"anonymized_name"`
	AnonymizedContact *string   `gorm:"size:50" json:"anonymized_contact"`
	CreatedAt         time.Time `gorm:"autoCreateTime;index" json:"date_added"`
}

func (Patient) TableName() string {
	return "patients"
}

func (p *Patient) ToDomain() *domain.Patient {
	return &domain.Patient{
		ID:                p.ID,
		Name:              p.Name,
		Contact:           p.Contact,
		Diagnosis:         p.Diagnosis,
		AnonymizedName:    p.AnonymizedName,
		AnonymizedContact: p.AnonymizedContact,
		CreatedAt:         p.CreatedAt,
	}
}

// IsAnonymized reports whether the derived fields have been populated
func (p *Patient) IsAnonymized() bool {
	return p.AnonymizedName != nil && p.AnonymizedContact != nil
}

// ============================================================
// Appointments
// ============================================================

// Appointment statuses
const (
	ApptStatusScheduled = "Scheduled"
	ApptStatusCompleted = "Completed"
	ApptStatusCancelled = "Cancelled"
)

// Appointment represents appointments table. PatientName holds the
// canonical patient name when subject resolution succeeded.
type Appointment struct {
	ID          uint      `gorm:"primaryKey" json:"appointment_id"`
	PatientName string    `gorm:"size:100;not null" json:"patient_name"`
	Date        string    `gorm:"size:20;not null" json:"date"`
	Time        string    `gorm:"size:20;not null" json:"time"`
	Status      string    `gorm:"size:20;not null;default:'Scheduled'" json:"status"`
	CreatedBy   uint      `gorm:"index" json:"created_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	Creator *User `gorm:"foreignKey:CreatedBy" json:"-"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// ============================================================
// Audit Trail
// ============================================================

// Audit action tags
const (
	ActionLogin          = "login"
	ActionCreateIdentity = "create_identity"
	ActionAddPatient     = "add_patient"
	ActionViewPatient    = "view_patient"
	ActionDataAccess     = "data_access"
	ActionAnonymize      = "anonymize_patient"
	ActionAnonymizeAll   = "anonymize_all"
	ActionDeleteExpired  = "delete_expired"
	ActionForget         = "right_to_be_forgotten"
	ActionCreateAppt     = "create_appointment"
	ActionExportData     = "export_user_data"
	ActionRetentionScan  = "retention_scan"
)

// AuditLog represents logs table. Rows are append-only: nothing in the
// application updates or deletes them.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"log_id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	Role      string    `gorm:"size:20" json:"role"`
	Action    string    `gorm:"size:50;not null;index" json:"action"`
	Details   string    `gorm:"type:text" json:"details"`
	Timestamp time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}

func (AuditLog) TableName() string {
	return "logs"
}

func (l *AuditLog) ToDomain() *domain.AuditEntry {
	return &domain.AuditEntry{
		ID:        l.ID,
		ActorID:   l.UserID,
		Role:      domain.Role(l.Role),
		Action:    l.Action,
		Details:   l.Details,
		Timestamp: l.Timestamp,
	}
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Patient{},
		&Appointment{},
		&AuditLog{},
	)
}
