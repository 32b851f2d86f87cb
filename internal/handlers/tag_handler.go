package handlers

import (
	"foodgram/internal/dto"
	"foodgram/internal/middleware"
	"foodgram/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// TagHandler handles HTTP requests for tags.
type TagHandler struct {
	service  *services.TagService
	validate *validator.Validate
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(service *services.TagService) *TagHandler {
	return &TagHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the tag routes with the Fiber app.
func (h *TagHandler) RegisterRoutes(router fiber.Router) {
	tagRoutes := router.Group("/tags")
	tagRoutes.Get("/", h.HandleGetTags)
	tagRoutes.Get("/:id", h.HandleGetTagByID)
	tagRoutes.Post("/", middleware.AdminRequired(), h.HandleCreateTag)
}

// HandleGetTags retrieves all tags.
func (h *TagHandler) HandleGetTags(c *fiber.Ctx) error {
	tags, err := h.service.GetAllTags(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tags)
}

// HandleGetTagByID retrieves a single tag by its ID.
func (h *TagHandler) HandleGetTagByID(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	tag, err := h.service.GetTagByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tag)
}

// HandleCreateTag creates a new tag.
func (h *TagHandler) HandleCreateTag(c *fiber.Ctx) error {
	var req dto.TagCreateRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}
	tag, err := h.service.CreateTag(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tag)
}
