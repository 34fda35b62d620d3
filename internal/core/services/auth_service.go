package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"careledger/internal/adapters/persistence/models"
	"careledger/internal/adapters/persistence/repositories"
	"careledger/internal/config"
	"careledger/internal/core/domain"
	"careledger/internal/pkg/jwt"
	"careledger/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthService handles credential verification, session issuance and
// first-run bootstrap
type AuthService struct {
	userRepo repositories.UserRepository
	audit    *AuditService
	cfg      *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, audit *AuditService, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		audit:    audit,
		cfg:      cfg,
	}
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// BootstrapInput represents first-identity bootstrap input
type BootstrapInput struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Role            string `json:"role"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User        *models.UserResponse `json:"user"`
	AccessToken string               `json:"access_token"`
	SessionID   string               `json:"session_id"`
}

// Login verifies a credential and issues a session token. The error is
// the same whether the username or the secret was wrong.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}

	if !password.Verify(input.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	sessionID := uuid.New().String()
	token, err := jwt.GenerateSessionToken(
		user.ID,
		user.Username,
		user.Role,
		sessionID,
		s.cfg.JWT.Secret,
		s.cfg.JWT.SessionTokenMin,
	)
	if err != nil {
		return nil, err
	}

	// Audit failures must not turn a successful login into an error.
	_ = s.audit.Append(ctx, &user.ID, domain.Role(user.Role), models.ActionLogin,
		fmt.Sprintf("user %s logged in", user.Username))

	log.Printf("✅ User logged in: %s", user.Username)

	return &AuthResponse{
		User:        user.ToResponse(),
		AccessToken: token,
		SessionID:   sessionID,
	}, nil
}

// Bootstrap creates the very first identity. It is the only path where a
// caller picks their own role without prior authorization, and it is
// closed as soon as any identity exists. The unique username index is
// the backstop when two callers race on an empty store.
func (s *AuthService) Bootstrap(ctx context.Context, input *BootstrapInput) (*AuthResponse, error) {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	if count > 0 {
		return nil, domain.ErrBootstrapDone
	}

	if input.Username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrValidation)
	}
	if !password.ValidatePassword(input.Password) {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}
	if input.Password != input.ConfirmPassword {
		return nil, domain.ErrPasswordMismatch
	}
	role := domain.Role(input.Role)
	if !role.IsRecognized() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, input.Role)
	}

	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     input.Username,
		PasswordHash: hash,
		Role:         string(role),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}

	_ = s.audit.Append(ctx, &user.ID, role, models.ActionCreateIdentity,
		fmt.Sprintf("bootstrapped user %s role=%s", user.Username, user.Role))

	log.Printf("✅ Bootstrapped first identity: %s (role=%s)", user.Username, user.Role)

	sessionID := uuid.New().String()
	token, err := jwt.GenerateSessionToken(
		user.ID,
		user.Username,
		user.Role,
		sessionID,
		s.cfg.JWT.Secret,
		s.cfg.JWT.SessionTokenMin,
	)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:        user.ToResponse(),
		AccessToken: token,
		SessionID:   sessionID,
	}, nil
}

// ValidateSessionToken validates a session token
func (s *AuthService) ValidateSessionToken(token string) (*jwt.Claims, error) {
	return jwt.ValidateSessionToken(token, s.cfg.JWT.Secret)
}

// GetUserByID gets a user by ID
func (s *AuthService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
