package middleware

import (
	"errors"
	"strings"

	"hirepulse/internal/pkg/webtoken"

	"github.com/gofiber/fiber/v3"
)

const (
	CtxUserIDKey    = "user_id"
	CtxUsernameKey  = "username"
	CtxFirstNameKey = "first_name"
)

// WebTokenMiddleware authenticates web-form requests with the short-lived
// token the bot embedded in the form link. The token arrives either as a
// Bearer header or a ?token= query parameter (the web form uses the latter).
type WebTokenMiddleware struct {
	tokens webtoken.Service
}

func NewWebTokenMiddleware(tokens webtoken.Service) *WebTokenMiddleware {
	return &WebTokenMiddleware{tokens: tokens}
}

func (m *WebTokenMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get("Authorization"))
		if !ok {
			token = strings.TrimSpace(c.Query("token"))
		}
		if token == "" {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		claims, err := m.tokens.Validate(token)
		if err != nil {
			if errors.Is(err, webtoken.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUsernameKey, claims.Username)
		c.Locals(CtxFirstNameKey, claims.FirstName)

		return c.Next()
	}
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
	if token == "" {
		return "", false
	}
	return token, true
}
