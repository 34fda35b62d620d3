package middleware

import (
	"strings"

	"careledger/internal/core/domain"
	"careledger/internal/core/services"
	"careledger/internal/pkg/jwt"
	"careledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AccessContextKey is the locals key carrying the caller's AccessContext
const AccessContextKey = "access"

// AuthMiddleware validates the session token and builds the caller's
// AccessContext, including the per-session consent flag. Everything
// downstream reads the context instead of ambient session state.
func AuthMiddleware(authService *services.AuthService, consentService *services.ConsentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try cookie first
		accessToken = c.Cookies("access_token")

		// 2. Fall back to Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := authService.ValidateSessionToken(accessToken)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Build the access context for this request
		access := domain.AccessContext{
			UserID:    claims.UserID,
			Username:  claims.Username,
			Role:      domain.Role(claims.Role),
			SessionID: claims.SessionID,
			Consented: consentService.HasConsented(claims.UserID, claims.SessionID),
		}
		c.Locals(AccessContextKey, access)

		return c.Next()
	}
}

// GetAccess reads the AccessContext set by AuthMiddleware
func GetAccess(c *fiber.Ctx) domain.AccessContext {
	if access, ok := c.Locals(AccessContextKey).(domain.AccessContext); ok {
		return access
	}
	return domain.AccessContext{}
}
