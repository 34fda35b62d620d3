package services

import (
	"context"
	"testing"

	"careledger/internal/adapters/persistence/models"
	"careledger/internal/config"
	"careledger/internal/core/domain"
	"careledger/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:          "test_secret_key",
			SessionTokenMin: 60,
		},
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, err := password.Hash("correct-password")
	require.NoError(t, err)

	storedUser := &models.User{
		ID:           1,
		Username:     "admin",
		PasswordHash: hash,
		Role:         string(domain.RoleAdmin),
	}

	t.Run("valid credentials issue a session", func(t *testing.T) {
		mockUserRepo := &MockUserRepository{
			GetByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
				return storedUser, nil
			},
		}
		mockAuditRepo := &MockAuditRepository{}
		service := NewAuthService(mockUserRepo, NewAuditService(mockAuditRepo), testConfig())

		resp, err := service.Login(context.Background(), &LoginInput{Username: "admin", Password: "correct-password"})

		require.NoError(t, err)
		assert.Equal(t, "admin", resp.User.Username)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.SessionID)

		entries := mockAuditRepo.Appended()
		require.Len(t, entries, 1)
		assert.Equal(t, models.ActionLogin, entries[0].Action)
	})

	t.Run("unknown username and wrong password yield the same error", func(t *testing.T) {
		mockUserRepo := &MockUserRepository{
			GetByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
				if username == "admin" {
					return storedUser, nil
				}
				return nil, gorm.ErrRecordNotFound
			},
		}
		service := NewAuthService(mockUserRepo, NewAuditService(&MockAuditRepository{}), testConfig())

		_, errUnknown := service.Login(context.Background(), &LoginInput{Username: "ghost", Password: "whatever"})
		_, errWrongPass := service.Login(context.Background(), &LoginInput{Username: "admin", Password: "wrong-password"})

		assert.ErrorIs(t, errUnknown, domain.ErrInvalidCredentials)
		assert.ErrorIs(t, errWrongPass, domain.ErrInvalidCredentials)
	})

	t.Run("session id differs per login", func(t *testing.T) {
		mockUserRepo := &MockUserRepository{
			GetByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
				return storedUser, nil
			},
		}
		service := NewAuthService(mockUserRepo, NewAuditService(&MockAuditRepository{}), testConfig())

		first, err := service.Login(context.Background(), &LoginInput{Username: "admin", Password: "correct-password"})
		require.NoError(t, err)
		second, err := service.Login(context.Background(), &LoginInput{Username: "admin", Password: "correct-password"})
		require.NoError(t, err)

		assert.NotEqual(t, first.SessionID, second.SessionID)
	})

	t.Run("session token round-trips through validation", func(t *testing.T) {
		mockUserRepo := &MockUserRepository{
			GetByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
				return storedUser, nil
			},
		}
		service := NewAuthService(mockUserRepo, NewAuditService(&MockAuditRepository{}), testConfig())

		resp, err := service.Login(context.Background(), &LoginInput{Username: "admin", Password: "correct-password"})
		require.NoError(t, err)

		claims, err := service.ValidateSessionToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, uint(1), claims.UserID)
		assert.Equal(t, "admin", claims.Username)
		assert.Equal(t, string(domain.RoleAdmin), claims.Role)
		assert.Equal(t, resp.SessionID, claims.SessionID)
	})
}

func TestAuthService_Bootstrap(t *testing.T) {
	validInput := func() *BootstrapInput {
		return &BootstrapInput{
			Username:        "first_admin",
			Password:        "strong-password",
			ConfirmPassword: "strong-password",
			Role:            string(domain.RoleAdmin),
		}
	}

	t.Run("creates the first identity and issues a session", func(t *testing.T) {
		mockUserRepo := &MockUserRepository{
			CountFunc: func(ctx context.Context) (int64, error) { return 0, nil },
			CreateFunc: func(ctx context.Context, user *models.User) error {
				user.ID = 1
				return nil
			},
		}
		mockAuditRepo := &MockAuditRepository{}
		service := NewAuthService(mockUserRepo, NewAuditService(mockAuditRepo), testConfig())

		resp, err := service.Bootstrap(context.Background(), validInput())

		require.NoError(t, err)
		assert.Equal(t, "first_admin", resp.User.Username)
		assert.Equal(t, string(domain.RoleAdmin), resp.User.Role)
		assert.NotEmpty(t, resp.AccessToken)

		entries := mockAuditRepo.Appended()
		require.Len(t, entries, 1)
		assert.Equal(t, models.ActionCreateIdentity, entries[0].Action)
	})

	t.Run("closed once any identity exists", func(t *testing.T) {
		mockUserRepo := &MockUserRepository{
			CountFunc: func(ctx context.Context) (int64, error) { return 1, nil },
		}
		service := NewAuthService(mockUserRepo, NewAuditService(&MockAuditRepository{}), testConfig())

		_, err := service.Bootstrap(context.Background(), validInput())

		assert.ErrorIs(t, err, domain.ErrBootstrapDone)
		assert.Equal(t, 0, mockUserRepo.CreateCallCount)
	})

	t.Run("password confirmation must match", func(t *testing.T) {
		mockUserRepo := &MockUserRepository{
			CountFunc: func(ctx context.Context) (int64, error) { return 0, nil },
		}
		service := NewAuthService(mockUserRepo, NewAuditService(&MockAuditRepository{}), testConfig())

		in := validInput()
		in.ConfirmPassword = "different-password"

		_, err := service.Bootstrap(context.Background(), in)

		assert.ErrorIs(t, err, domain.ErrPasswordMismatch)
	})

	t.Run("short password is rejected", func(t *testing.T) {
		mockUserRepo := &MockUserRepository{
			CountFunc: func(ctx context.Context) (int64, error) { return 0, nil },
		}
		service := NewAuthService(mockUserRepo, NewAuditService(&MockAuditRepository{}), testConfig())

		in := validInput()
		in.Password = "short"
		in.ConfirmPassword = "short"

		_, err := service.Bootstrap(context.Background(), in)

		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		mockUserRepo := &MockUserRepository{
			CountFunc: func(ctx context.Context) (int64, error) { return 0, nil },
		}
		service := NewAuthService(mockUserRepo, NewAuditService(&MockAuditRepository{}), testConfig())

		in := validInput()
		in.Role = "superuser"

		_, err := service.Bootstrap(context.Background(), in)

		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Equal(t, 0, mockUserRepo.CreateCallCount)
	})

	t.Run("losing a bootstrap race maps to duplicate username", func(t *testing.T) {
		mockUserRepo := &MockUserRepository{
			CountFunc: func(ctx context.Context) (int64, error) { return 0, nil },
			CreateFunc: func(ctx context.Context, user *models.User) error {
				return gorm.ErrDuplicatedKey
			},
		}
		service := NewAuthService(mockUserRepo, NewAuditService(&MockAuditRepository{}), testConfig())

		_, err := service.Bootstrap(context.Background(), validInput())

		assert.ErrorIs(t, err, domain.ErrDuplicateUsername)
	})

	t.Run("stored hash is never the plain password", func(t *testing.T) {
		var created *models.User
		mockUserRepo := &MockUserRepository{
			CountFunc: func(ctx context.Context) (int64, error) { return 0, nil },
			CreateFunc: func(ctx context.Context, user *models.User) error {
				created = user
				user.ID = 1
				return nil
			},
		}
		service := NewAuthService(mockUserRepo, NewAuditService(&MockAuditRepository{}), testConfig())

		_, err := service.Bootstrap(context.Background(), validInput())

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.NotEqual(t, "strong-password", created.PasswordHash)
		assert.True(t, password.Verify("strong-password", created.PasswordHash))
	})
}
