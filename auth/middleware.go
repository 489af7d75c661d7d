package auth

import (
	"chat-hub/errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UserIDKey is the fiber local holding the authenticated user id.
const UserIDKey = "user_id"

// Protect authenticates requests with a Bearer token.
// The websocket handshake cannot set headers from browsers, so a "token"
// query parameter is accepted as well.
func Protect(issuer *TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := strings.TrimSpace(strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer "))
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			return errors.ErrInvalidToken
		}
		claims, err := issuer.ValidateToken(token)
		if err != nil {
			return err
		}
		c.Locals(UserIDKey, claims.UserID)
		return c.Next()
	}
}

// UserID returns the id set by Protect, or an empty string.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}
