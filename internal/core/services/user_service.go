package services

import (
	"context"
	"fmt"

	"careledger/internal/adapters/persistence/models"
	"careledger/internal/adapters/persistence/repositories"
	"careledger/internal/core/domain"
)

// UserService handles the staff directory
type UserService struct {
	userRepo repositories.UserRepository
	audit    *AuditService
	policy   *PolicyService
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, audit *AuditService, policy *PolicyService) *UserService {
	return &UserService{
		userRepo: userRepo,
		audit:    audit,
		policy:   policy,
	}
}

// ListStaff lists all identities, ordered by role then username
func (s *UserService) ListStaff(ctx context.Context, access domain.AccessContext) ([]*models.UserResponse, error) {
	if !access.Consented {
		return nil, domain.ErrConsentRequired
	}
	if !s.policy.CanViewStaff(access.Role) {
		return nil, domain.ErrPermissionDenied
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}

	staff := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		staff = append(staff, u.ToResponse())
	}

	_ = s.audit.Append(ctx, &access.UserID, access.Role, models.ActionDataAccess,
		fmt.Sprintf("accessed staff directory (%d entries)", len(staff)))

	return staff, nil
}
