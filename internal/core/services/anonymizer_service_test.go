package services

import (
	"context"
	"strings"
	"testing"

	"careledger/internal/adapters/persistence/models"
	"careledger/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMaskContact(t *testing.T) {
	tests := []struct {
		name     string
		contact  string
		expected string
	}{
		{
			name:     "keeps last four digits",
			contact:  "0300-1234567",
			expected: "XXX-XXX-4567",
		},
		{
			name:     "digits only",
			contact:  "03001234567",
			expected: "XXX-XXX-4567",
		},
		{
			name:     "exactly four digits",
			contact:  "4567",
			expected: "XXX-XXX-4567",
		},
		{
			name:     "fewer than four digits",
			contact:  "123",
			expected: "XXX-XXX-XXXX",
		},
		{
			name:     "no digits at all",
			contact:  "n/a",
			expected: "XXX-XXX-XXXX",
		},
		{
			name:     "empty contact",
			contact:  "",
			expected: "XXX-XXX-XXXX",
		},
		{
			name:     "digits mixed with text",
			contact:  "ext. 12 line 3456",
			expected: "XXX-XXX-3456",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskContact(tt.contact))
		})
	}
}

func TestAnonymizeName(t *testing.T) {
	t.Run("deterministic for same id and name", func(t *testing.T) {
		first := AnonymizeName("Jane Doe", 7)
		second := AnonymizeName("Jane Doe", 7)

		assert.Equal(t, first, second)
	})

	t.Run("format is prefix plus 8 hex chars", func(t *testing.T) {
		label := AnonymizeName("Jane Doe", 7)

		require.True(t, strings.HasPrefix(label, AnonPrefix))
		suffix := strings.TrimPrefix(label, AnonPrefix)
		assert.Len(t, suffix, 8)
		for _, c := range suffix {
			assert.Contains(t, "0123456789abcdef", string(c))
		}
	})

	t.Run("different ids give different labels for same name", func(t *testing.T) {
		assert.NotEqual(t, AnonymizeName("Jane Doe", 7), AnonymizeName("Jane Doe", 8))
	})

	t.Run("different names give different labels for same id", func(t *testing.T) {
		assert.NotEqual(t, AnonymizeName("Jane Doe", 7), AnonymizeName("John Doe", 7))
	})
}

func TestAnonymizeLabel(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, AnonymizeLabel("Jane Doe"), AnonymizeLabel("Jane Doe"))
	})

	t.Run("empty text yields placeholder", func(t *testing.T) {
		assert.Equal(t, "(unknown)", AnonymizeLabel(""))
	})
}

func TestAnonymizerService_AnonymizeRecord(t *testing.T) {
	adminAccess := domain.AccessContext{
		UserID:    1,
		Username:  "admin",
		Role:      domain.RoleAdmin,
		SessionID: "sess-1",
		Consented: true,
	}

	t.Run("derives and stores both fields", func(t *testing.T) {
		stored := &models.Patient{
			ID:      7,
			Name:    "Jane Doe",
			Contact: "0300-1234567",
		}

		mockPatientRepo := &MockPatientRepository{
			AnonymizeTxFunc: func(ctx context.Context, id uint, fn func(p *models.Patient) (string, string, error)) error {
				anonName, anonContact, err := fn(stored)
				if err != nil {
					return err
				}
				stored.AnonymizedName = &anonName
				stored.AnonymizedContact = &anonContact
				return nil
			},
		}
		mockAuditRepo := &MockAuditRepository{}
		service := NewAnonymizerService(mockPatientRepo, NewAuditService(mockAuditRepo), NewPolicyService())

		err := service.AnonymizeRecord(context.Background(), adminAccess, 7)

		require.NoError(t, err)
		require.NotNil(t, stored.AnonymizedName)
		require.NotNil(t, stored.AnonymizedContact)
		assert.Equal(t, AnonymizeName("Jane Doe", 7), *stored.AnonymizedName)
		assert.Equal(t, "XXX-XXX-4567", *stored.AnonymizedContact)

		entries := mockAuditRepo.Appended()
		require.Len(t, entries, 1)
		assert.Equal(t, models.ActionAnonymize, entries[0].Action)
	})

	t.Run("repeated anonymization is idempotent", func(t *testing.T) {
		stored := &models.Patient{
			ID:      7,
			Name:    "Jane Doe",
			Contact: "0300-1234567",
		}

		mockPatientRepo := &MockPatientRepository{
			AnonymizeTxFunc: func(ctx context.Context, id uint, fn func(p *models.Patient) (string, string, error)) error {
				anonName, anonContact, err := fn(stored)
				if err != nil {
					return err
				}
				stored.AnonymizedName = &anonName
				stored.AnonymizedContact = &anonContact
				return nil
			},
		}
		service := NewAnonymizerService(mockPatientRepo, NewAuditService(&MockAuditRepository{}), NewPolicyService())

		require.NoError(t, service.AnonymizeRecord(context.Background(), adminAccess, 7))
		firstName := *stored.AnonymizedName
		firstContact := *stored.AnonymizedContact

		require.NoError(t, service.AnonymizeRecord(context.Background(), adminAccess, 7))

		assert.Equal(t, firstName, *stored.AnonymizedName)
		assert.Equal(t, firstContact, *stored.AnonymizedContact)
	})

	t.Run("consent required before any store access", func(t *testing.T) {
		mockPatientRepo := &MockPatientRepository{}
		mockAuditRepo := &MockAuditRepository{}
		service := NewAnonymizerService(mockPatientRepo, NewAuditService(mockAuditRepo), NewPolicyService())

		noConsent := adminAccess
		noConsent.Consented = false

		err := service.AnonymizeRecord(context.Background(), noConsent, 7)

		assert.ErrorIs(t, err, domain.ErrConsentRequired)
		assert.Equal(t, 0, mockPatientRepo.AnonymizeTxCallCount)
		assert.Empty(t, mockAuditRepo.Appended())
	})

	t.Run("front desk role is denied", func(t *testing.T) {
		mockPatientRepo := &MockPatientRepository{}
		service := NewAnonymizerService(mockPatientRepo, NewAuditService(&MockAuditRepository{}), NewPolicyService())

		frontDesk := domain.AccessContext{UserID: 3, Role: domain.RoleFrontDesk, SessionID: "sess-3", Consented: true}

		err := service.AnonymizeRecord(context.Background(), frontDesk, 7)

		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
		assert.Equal(t, 0, mockPatientRepo.AnonymizeTxCallCount)
	})

	t.Run("clinician is allowed", func(t *testing.T) {
		stored := &models.Patient{ID: 7, Name: "Jane Doe", Contact: "0300-1234567"}
		mockPatientRepo := &MockPatientRepository{
			AnonymizeTxFunc: func(ctx context.Context, id uint, fn func(p *models.Patient) (string, string, error)) error {
				_, _, err := fn(stored)
				return err
			},
		}
		service := NewAnonymizerService(mockPatientRepo, NewAuditService(&MockAuditRepository{}), NewPolicyService())

		clinician := domain.AccessContext{UserID: 2, Role: domain.RoleClinician, SessionID: "sess-2", Consented: true}

		assert.NoError(t, service.AnonymizeRecord(context.Background(), clinician, 7))
	})

	t.Run("unknown record maps to not found", func(t *testing.T) {
		mockPatientRepo := &MockPatientRepository{
			AnonymizeTxFunc: func(ctx context.Context, id uint, fn func(p *models.Patient) (string, string, error)) error {
				return gorm.ErrRecordNotFound
			},
		}
		service := NewAnonymizerService(mockPatientRepo, NewAuditService(&MockAuditRepository{}), NewPolicyService())

		err := service.AnonymizeRecord(context.Background(), adminAccess, 999)

		assert.ErrorIs(t, err, domain.ErrPatientNotFound)
	})
}

func TestAnonymizerService_AnonymizeAll(t *testing.T) {
	adminAccess := domain.AccessContext{
		UserID:    1,
		Role:      domain.RoleAdmin,
		SessionID: "sess-1",
		Consented: true,
	}

	t.Run("re-derives every record and writes one summary entry", func(t *testing.T) {
		anon := AnonymizeName("Already Done", 1)
		masked := MaskContact("0300-1111111")
		mockPatientRepo := &MockPatientRepository{
			ListFunc: func(ctx context.Context) ([]*models.Patient, error) {
				return []*models.Patient{
					{ID: 1, Name: "Already Done", Contact: "0300-1111111", AnonymizedName: &anon, AnonymizedContact: &masked},
					{ID: 2, Name: "Fresh Record", Contact: "0300-2222222"},
				}, nil
			},
		}
		mockAuditRepo := &MockAuditRepository{}
		service := NewAnonymizerService(mockPatientRepo, NewAuditService(mockAuditRepo), NewPolicyService())

		count, err := service.AnonymizeAll(context.Background(), adminAccess)

		require.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.Equal(t, 2, mockPatientRepo.UpdateAnonymizedCallCount)

		entries := mockAuditRepo.Appended()
		require.Len(t, entries, 1)
		assert.Equal(t, models.ActionAnonymizeAll, entries[0].Action)
	})

	t.Run("consent required", func(t *testing.T) {
		mockPatientRepo := &MockPatientRepository{}
		service := NewAnonymizerService(mockPatientRepo, NewAuditService(&MockAuditRepository{}), NewPolicyService())

		noConsent := adminAccess
		noConsent.Consented = false

		_, err := service.AnonymizeAll(context.Background(), noConsent)

		assert.ErrorIs(t, err, domain.ErrConsentRequired)
		assert.Equal(t, 0, mockPatientRepo.ListCallCount)
	})
}
