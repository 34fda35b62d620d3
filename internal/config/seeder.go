package config

import (
	"log"

	"careledger/internal/adapters/persistence/models"
	"careledger/internal/core/domain"
	"careledger/internal/pkg/password"

	"gorm.io/gorm"
)

// SeedDemoIdentities creates one identity per role when the identity
// store is empty. Dev-mode convenience only; production bootstraps its
// first administrator through the API.
func SeedDemoIdentities(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seeds := []struct {
		username string
		secret   string
		role     domain.Role
	}{
		{"admin", "admin123!", domain.RoleAdmin},
		{"drbob", "doctor123!", domain.RoleClinician},
		{"alice_recep", "frontdesk123!", domain.RoleFrontDesk},
	}

	for _, s := range seeds {
		hash, err := password.Hash(s.secret)
		if err != nil {
			return err
		}
		user := &models.User{
			Username:     s.username,
			PasswordHash: hash,
			Role:         string(s.role),
		}
		if err := db.Create(user).Error; err != nil {
			return err
		}
	}

	log.Printf("✅ Seeded %d demo identities", len(seeds))
	return nil
}
