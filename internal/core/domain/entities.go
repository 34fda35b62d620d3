package domain

import "time"

// Role represents a staff role in the system.
// The set is closed: policy decisions switch exhaustively over these
// values and treat anything else as an unrecognized role with no access.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleClinician Role = "doctor"
	RoleFrontDesk Role = "receptionist"
)

// IsRecognized reports whether the role is one of the closed set.
func (r Role) IsRecognized() bool {
	switch r {
	case RoleAdmin, RoleClinician, RoleFrontDesk:
		return true
	}
	return false
}

// AccessContext carries the authenticated caller through every service
// call: identity, role and the per-session consent flag. It is built
// once per request by the auth middleware and threaded explicitly;
// services never read ambient session state.
type AccessContext struct {
	UserID    uint
	Username  string
	Role      Role
	SessionID string
	Consented bool
}

// User represents an identity in the domain layer
type User struct {
	ID           uint
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Patient represents a protected record with raw and derived fields.
// AnonymizedName and AnonymizedContact are either both nil or both set;
// anonymization never removes the raw fields.
type Patient struct {
	ID                uint
	Name              string
	Contact           string
	Diagnosis         string
	AnonymizedName    *string
	AnonymizedContact *string
	CreatedAt         time.Time
}

// Appointment represents a scheduled event tied to a patient by name
type Appointment struct {
	ID          uint
	PatientName string
	Date        string
	Time        string
	Status      string
	CreatedBy   uint
	CreatedAt   time.Time
}

// AuditEntry is one immutable line of the audit trail. ActorID is
// nullable so a logging path can never be blocked on a missing actor.
type AuditEntry struct {
	ID        uint
	ActorID   *uint
	Role      Role
	Action    string
	Details   string
	Timestamp time.Time
}
