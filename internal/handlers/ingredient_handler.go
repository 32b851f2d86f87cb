package handlers

import (
	"foodgram/internal/dto"
	"foodgram/internal/middleware"
	"foodgram/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// IngredientHandler handles HTTP requests for ingredients.
type IngredientHandler struct {
	service  *services.IngredientService
	validate *validator.Validate
}

func NewIngredientHandler(service *services.IngredientService) *IngredientHandler {
	return &IngredientHandler{service: service, validate: newValidator()}
}

func (h *IngredientHandler) RegisterRoutes(router fiber.Router) {
	ingredientRoutes := router.Group("/ingredients")
	ingredientRoutes.Get("/", h.HandleSearch)
	ingredientRoutes.Get("/:id", h.HandleGetByID)
	ingredientRoutes.Post("/", middleware.AdminRequired(), h.HandleCreate)
}

// HandleSearch lists ingredients, filtered by the name query parameter.
func (h *IngredientHandler) HandleSearch(c *fiber.Ctx) error {
	ingredients, err := h.service.Search(c.UserContext(), c.Query("name"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ingredients)
}

func (h *IngredientHandler) HandleGetByID(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ingredient, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ingredient)
}

func (h *IngredientHandler) HandleCreate(c *fiber.Ctx) error {
	var req dto.IngredientCreateRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}
	ingredient, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ingredient)
}
