package handlers

import (
	"context"
	"time"

	"foodgram/internal/database"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	code, status, dbStatus := fiber.StatusOK, "ok", "ok"
	if err := database.Ping(ctx, h.db); err != nil {
		code, status, dbStatus = fiber.StatusServiceUnavailable, "degraded", "unhealthy: "+err.Error()
	}
	return c.Status(code).JSON(fiber.Map{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"db":        dbStatus,
	})
}
