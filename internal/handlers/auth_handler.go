package handlers

import (
	"foodgram/internal/dto"
	"foodgram/internal/middleware"
	"foodgram/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for token login and logout.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    newValidator(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, limit fiber.Handler) {
	authRoutes := router.Group("/auth/token", limit)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/logout", middleware.AuthRequired(), h.HandleLogout)
}

// HandleLogin exchanges email and password for an auth token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	token, err := h.authService.LoginUser(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.TokenResponse{AuthToken: token})
}

// HandleLogout revokes the token the request was made with.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.UserContext(), middleware.Token(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
