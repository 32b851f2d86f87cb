package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"foodgram/internal/models"
	"foodgram/internal/services"

	"github.com/gofiber/fiber/v2"
)

const (
	userKey  = "user"
	tokenKey = "token"
)

// tokenFromHeader accepts "Token <t>" and "Bearer <t>".
func tokenFromHeader(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return "", false
	}
	if !strings.EqualFold(scheme, "Token") && !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Authenticate resolves the Authorization header to a user when one is sent.
// Requests without the header continue anonymously; a malformed, expired or
// revoked token is rejected with 401.
func Authenticate(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Next()
		}

		tokenString, ok := tokenFromHeader(authHeader)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Authorization header format must be 'Token <token>'",
			})
		}

		user, err := authService.Authenticate(c.UserContext(), tokenString)
		if err != nil {
			if !errors.Is(err, services.ErrInvalidToken) {
				return err
			}
			slog.DebugContext(c.UserContext(), "token rejected", "error", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Invalid token.",
			})
		}

		c.Locals(userKey, user)
		c.Locals(tokenKey, tokenString)
		return c.Next()
	}
}

// AuthRequired rejects anonymous requests. It runs after Authenticate.
func AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Authentication credentials were not provided.",
			})
		}
		return c.Next()
	}
}

// AdminRequired lets only administrators through.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Authentication credentials were not provided.",
			})
		}
		if !user.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"detail": services.ErrForbidden.Error(),
			})
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

// ViewerID is the id of the authenticated user, 0 for anonymous requests.
func ViewerID(c *fiber.Ctx) uint {
	if user := CurrentUser(c); user != nil {
		return user.ID
	}
	return 0
}

// Token returns the raw token the request was authenticated with.
func Token(c *fiber.Ctx) string {
	token, _ := c.Locals(tokenKey).(string)
	return token
}
