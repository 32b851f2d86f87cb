package handlers

import (
	"encoding/json"
	"strconv"
	"strings"

	"foodgram/internal/dto"
	"foodgram/internal/filters"
	"foodgram/internal/media"
	"foodgram/internal/middleware"
	"foodgram/internal/services"

	"github.com/gofiber/fiber/v2"
)

const shoppingCartFilename = "shopping_cart.txt"

// RecipeHandler handles recipes, their favorite and cart toggles and the cart export.
type RecipeHandler struct {
	service  *services.RecipeService
	pageSize int
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(service *services.RecipeService, pageSize int) *RecipeHandler {
	return &RecipeHandler{service: service, pageSize: pageSize}
}

// RegisterRoutes registers the recipe routes with the Fiber app.
func (h *RecipeHandler) RegisterRoutes(router fiber.Router) {
	authRequired := middleware.AuthRequired()

	recipeRoutes := router.Group("/recipes")
	recipeRoutes.Get("/", h.HandleList)
	recipeRoutes.Post("/", authRequired, h.HandleCreate)
	recipeRoutes.Get("/download_shopping_cart", authRequired, h.HandleDownloadShoppingCart)
	recipeRoutes.Get("/:id", h.HandleGet)
	recipeRoutes.Patch("/:id", authRequired, h.HandleUpdate)
	recipeRoutes.Delete("/:id", authRequired, h.HandleDelete)
	recipeRoutes.Post("/:id/favorite", authRequired, h.HandleAddFavorite)
	recipeRoutes.Delete("/:id/favorite", authRequired, h.HandleRemoveFavorite)
	recipeRoutes.Post("/:id/shopping_cart", authRequired, h.HandleAddToCart)
	recipeRoutes.Delete("/:id/shopping_cart", authRequired, h.HandleRemoveFromCart)
}

// HandleList returns one filtered page of recipes, newest first.
func (h *RecipeHandler) HandleList(c *fiber.Ctx) error {
	q := queryValues(c)
	filter, err := filters.ParseRecipeFilter(q)
	if err != nil {
		return respondError(c, err)
	}
	page, err := pageRequest(q, h.pageSize)
	if err != nil {
		return respondError(c, err)
	}
	recipes, total, err := h.service.List(c.UserContext(), middleware.ViewerID(c), filter, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewPage(recipes, total, page, pageLink(c, q)))
}

// HandleGet returns one recipe.
func (h *RecipeHandler) HandleGet(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	recipe, err := h.service.Get(c.UserContext(), middleware.ViewerID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(recipe)
}

// HandleCreate publishes a recipe authored by the caller.
func (h *RecipeHandler) HandleCreate(c *fiber.Ctx) error {
	req, err := parseRecipeWrite(c)
	if err != nil {
		return respondError(c, err)
	}
	recipe, err := h.service.Create(c.UserContext(), middleware.ViewerID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(recipe)
}

// HandleUpdate partially updates a recipe of the caller.
func (h *RecipeHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	req, err := parseRecipeWrite(c)
	if err != nil {
		return respondError(c, err)
	}
	recipe, err := h.service.Update(c.UserContext(), middleware.ViewerID(c), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(recipe)
}

// HandleDelete removes a recipe of the caller.
func (h *RecipeHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.Delete(c.UserContext(), middleware.ViewerID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type addFunc func(c *fiber.Ctx, userID, recipeID uint) (dto.RecipeShortResponse, error)

type removeFunc func(c *fiber.Ctx, userID, recipeID uint) error

func (h *RecipeHandler) handleAdd(c *fiber.Ctx, add addFunc) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	short, err := add(c, middleware.ViewerID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(short)
}

func (h *RecipeHandler) handleRemove(c *fiber.Ctx, remove removeFunc) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := remove(c, middleware.ViewerID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *RecipeHandler) HandleAddFavorite(c *fiber.Ctx) error {
	return h.handleAdd(c, func(c *fiber.Ctx, userID, recipeID uint) (dto.RecipeShortResponse, error) {
		return h.service.AddFavorite(c.UserContext(), userID, recipeID)
	})
}

func (h *RecipeHandler) HandleRemoveFavorite(c *fiber.Ctx) error {
	return h.handleRemove(c, func(c *fiber.Ctx, userID, recipeID uint) error {
		return h.service.RemoveFavorite(c.UserContext(), userID, recipeID)
	})
}

func (h *RecipeHandler) HandleAddToCart(c *fiber.Ctx) error {
	return h.handleAdd(c, func(c *fiber.Ctx, userID, recipeID uint) (dto.RecipeShortResponse, error) {
		return h.service.AddToCart(c.UserContext(), userID, recipeID)
	})
}

func (h *RecipeHandler) HandleRemoveFromCart(c *fiber.Ctx) error {
	return h.handleRemove(c, func(c *fiber.Ctx, userID, recipeID uint) error {
		return h.service.RemoveFromCart(c.UserContext(), userID, recipeID)
	})
}

// HandleDownloadShoppingCart returns the caller's shopping list as a text attachment.
func (h *RecipeHandler) HandleDownloadShoppingCart(c *fiber.Ctx) error {
	text, err := h.service.ShoppingList(c.UserContext(), middleware.ViewerID(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Attachment(shoppingCartFilename)
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(text)
}

// parseRecipeWrite reads a recipe payload from JSON or multipart form data.
func parseRecipeWrite(c *fiber.Ctx) (dto.RecipeWriteRequest, error) {
	var req dto.RecipeWriteRequest
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if err := c.BodyParser(&req); err != nil {
			return req, services.NewValidationError(services.NonFieldErrors, "Invalid request body: "+err.Error())
		}
		return req, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return req, services.NewValidationError(services.NonFieldErrors, "Invalid multipart body: "+err.Error())
	}
	verr := &services.ValidationError{}
	value := func(name string) *string {
		if v, ok := form.Value[name]; ok && len(v) > 0 {
			return &v[0]
		}
		return nil
	}

	req.Name = value("name")
	req.Text = value("text")
	req.Image = value("image")
	if raw := value("cooking_time"); raw != nil {
		n, err := strconv.Atoi(strings.TrimSpace(*raw))
		if err != nil {
			verr.Add("cooking_time", "A valid integer is required.")
		} else {
			req.CookingTime = &n
		}
	}
	if raw, ok := form.Value["tags"]; ok {
		req.Tags = make([]uint, 0, len(raw))
		for _, s := range raw {
			id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
			if err != nil {
				verr.Add("tags", "Incorrect type. Expected pk value, received "+strconv.Quote(s)+".")
				continue
			}
			req.Tags = append(req.Tags, uint(id))
		}
	}
	if raw := value("ingredients"); raw != nil {
		if err := json.Unmarshal([]byte(*raw), &req.Ingredients); err != nil {
			verr.Add("ingredients", "Expected a JSON list of {id, amount} objects.")
		} else if req.Ingredients == nil {
			req.Ingredients = []dto.IngredientAmount{}
		}
	}
	if files := form.File["image"]; len(files) > 0 {
		upload, err := media.FromFile(files[0])
		if err != nil {
			verr.Add("image", err.Error())
		} else {
			req.ImageFile = &upload
		}
	}
	return req, verr.OrNil()
}
