// Package routes mounts every handler on the fiber app.
package routes

import (
	"time"

	"foodgram/internal/handlers"
	"foodgram/internal/middleware"
	"foodgram/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Handlers groups the HTTP handlers served under /api.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Users       *handlers.UserHandler
	Tags        *handlers.TagHandler
	Ingredients *handlers.IngredientHandler
	Recipes     *handlers.RecipeHandler
	Health      *handlers.HealthHandler
}

func Setup(app *fiber.App, authService *services.AuthService, h Handlers) {
	app.Get("/health", h.Health.Check)

	api := app.Group("/api", middleware.Authenticate(authService))

	// login attempts: 20 req/min per IP
	loginLimit := limiter.New(limiter.Config{
		Max:               20,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	h.Auth.RegisterRoutes(api, loginLimit)
	h.Users.RegisterRoutes(api)
	h.Tags.RegisterRoutes(api)
	h.Ingredients.RegisterRoutes(api)
	h.Recipes.RegisterRoutes(api)
}
