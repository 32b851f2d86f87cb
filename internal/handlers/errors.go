package handlers

import (
	"errors"
	"log/slog"

	"foodgram/internal/filters"
	"foodgram/internal/services"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

// conflicts answer 409; removing a relation that does not exist answers 400.
var (
	conflictErrors = []error{
		services.ErrAlreadyFavorited,
		services.ErrAlreadyInCart,
		services.ErrAlreadySubscribed,
		services.ErrSelfSubscription,
		services.ErrRecipeExists,
	}
	missingRelationErrors = []error{
		services.ErrNotFavorited,
		services.ErrNotInCart,
		services.ErrNotSubscribed,
	}
)

func isAny(err error, targets []error) (error, bool) {
	for _, t := range targets {
		if errors.Is(err, t) {
			return t, true
		}
	}
	return nil, false
}

// respondError writes the status and body for err.
func respondError(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	var perr *filters.InvalidParamError
	var ferr *fiber.Error

	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  verr.Fields,
		})
	case errors.As(err, &perr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  map[string][]string{perr.Param: {perr.Error()}},
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Not found."})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"detail": "You can only change your own recipes."})
	case errors.Is(err, services.ErrInvalidToken):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Invalid token."})
	case errors.As(err, &ferr):
		if ferr.Code < fiber.StatusInternalServerError {
			return c.Status(ferr.Code).JSON(fiber.Map{"detail": ferr.Message})
		}
	}
	if target, ok := isAny(err, conflictErrors); ok {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"errors": target.Error()})
	}
	if target, ok := isAny(err, missingRelationErrors); ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": target.Error()})
	}

	slog.ErrorContext(c.UserContext(), "unhandled server error",
		"method", c.Method(), "path", c.Path(), "error", err)
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	} else {
		sentry.CaptureException(err)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Internal server error"})
}

// ErrorHandler is the fiber ErrorHandler; it renders errors that handlers and
// middleware return without writing a response.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return respondError(c, err)
}
