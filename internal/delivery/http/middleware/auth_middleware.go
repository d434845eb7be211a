package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
)

const CtxAdminIDKey = "admin_id"

// Authorizer resolves a bearer token to an admin id.
type Authorizer interface {
	Authorize(token string) (int64, error)
}

type AuthMiddleware struct {
	auth Authorizer
}

func NewAuthMiddleware(auth Authorizer) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get("Authorization"))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		adminID, err := m.auth.Authorize(token)
		if err != nil {
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}

		c.Locals(CtxAdminIDKey, adminID)
		return c.Next()
	}
}

func AdminID(c fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(CtxAdminIDKey).(int64)
	return id, ok && id != 0
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
