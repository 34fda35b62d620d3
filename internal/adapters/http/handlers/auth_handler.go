package handlers

import (
	"strings"
	"time"

	"careledger/internal/adapters/http/middleware"
	"careledger/internal/config"
	"careledger/internal/core/services"
	"careledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService    *services.AuthService
	consentService *services.ConsentService
	cfg            *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, consentService *services.ConsentService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		consentService: consentService,
		cfg:            cfg,
	}
}

// LoginRequest represents login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// BootstrapRequest represents first-identity bootstrap request body
type BootstrapRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Role            string `json:"role"`
}

// Bootstrap creates the first identity when the store is empty
// @Summary Bootstrap first identity
// @Description Create the initial administrator when no identities exist
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body BootstrapRequest true "Bootstrap data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/bootstrap [post]
func (h *AuthHandler) Bootstrap(c *fiber.Ctx) error {
	var req BootstrapRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.BootstrapInput{
		Username:        strings.TrimSpace(req.Username),
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            strings.TrimSpace(req.Role),
	}

	result, err := h.authService.Bootstrap(c.Context(), input)
	if err != nil {
		return mapDomainError(c, err)
	}

	h.setAuthCookie(c, result.AccessToken)

	return response.Created(c, "First identity created", fiber.Map{
		"access_token": result.AccessToken,
		"user":         result.User,
	})
}

// Login authenticates a user and issues a session token
// @Summary Login
// @Description Verify credentials and return a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return response.BadRequest(c, "Username and password are required")
	}

	result, err := h.authService.Login(c.Context(), &services.LoginInput{
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
	})
	if err != nil {
		return mapDomainError(c, err)
	}

	h.setAuthCookie(c, result.AccessToken)

	return response.Success(c, "Logged in", fiber.Map{
		"access_token": result.AccessToken,
		"user":         result.User,
	})
}

// Logout clears the session cookie and drops the session's consent flag
// @Summary Logout
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	access := middleware.GetAccess(c)
	if access.UserID != 0 {
		h.consentService.Forget(access.UserID, access.SessionID)
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})

	return response.Success(c, "Logged out", nil)
}

// setAuthCookie sets the session token cookie
func (h *AuthHandler) setAuthCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		Expires:  time.Now().Add(time.Duration(h.cfg.JWT.SessionTokenMin) * time.Minute),
		HTTPOnly: true,
		Secure:   h.cfg.IsProd(),
		SameSite: "Lax",
	})
}
