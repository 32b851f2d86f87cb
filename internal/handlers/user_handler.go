package handlers

import (
	"strings"

	"foodgram/internal/dto"
	"foodgram/internal/middleware"
	"foodgram/internal/models"
	"foodgram/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler serves registration, profiles, password changes and subscriptions.
type UserHandler struct {
	users    *services.UserService
	auth     *services.AuthService
	validate *validator.Validate
	pageSize int
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *services.UserService, auth *services.AuthService, pageSize int) *UserHandler {
	return &UserHandler{users: users, auth: auth, validate: newValidator(), pageSize: pageSize}
}

// RegisterRoutes registers the user routes. Fixed paths go before /:id.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	authRequired := middleware.AuthRequired()

	users := router.Group("/users")
	users.Get("/", h.HandleList)
	users.Post("/", h.HandleRegister)
	users.Get("/me", authRequired, h.HandleMe)
	users.Delete("/me", authRequired, h.HandleDeleteMe)
	users.Post("/set_password", authRequired, h.HandleSetPassword)
	users.Get("/subscriptions", authRequired, h.HandleSubscriptions)
	users.Get("/:id", authRequired, h.HandleGet)
	users.Post("/:id/subscribe", authRequired, h.HandleSubscribe)
	users.Delete("/:id/subscribe", authRequired, h.HandleUnsubscribe)
}

// HandleList returns one page of users.
func (h *UserHandler) HandleList(c *fiber.Ctx) error {
	q := queryValues(c)
	page, err := pageRequest(q, h.pageSize)
	if err != nil {
		return respondError(c, err)
	}
	users, total, err := h.users.List(c.UserContext(), middleware.ViewerID(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewPage(users, total, page, pageLink(c, q)))
}

// HandleRegister creates an account.
func (h *UserHandler) HandleRegister(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	user := &models.User{
		Email:     strings.TrimSpace(req.Email),
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	}
	if err := h.auth.RegisterUser(c.UserContext(), user); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.RegisterResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
}

// HandleMe returns the caller's profile.
func (h *UserHandler) HandleMe(c *fiber.Ctx) error {
	me := middleware.CurrentUser(c)
	user, err := h.users.Get(c.UserContext(), me.ID, me.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// HandleDeleteMe deletes the caller's account with everything it owns.
func (h *UserHandler) HandleDeleteMe(c *fiber.Ctx) error {
	if err := h.users.DeleteAccount(c.UserContext(), middleware.ViewerID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGet returns one profile.
func (h *UserHandler) HandleGet(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	user, err := h.users.Get(c.UserContext(), middleware.ViewerID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// HandleSetPassword changes the caller's password.
func (h *UserHandler) HandleSetPassword(c *fiber.Ctx) error {
	var req dto.SetPasswordRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}
	if err := h.auth.ChangePassword(c.UserContext(), middleware.ViewerID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSubscriptions lists the authors the caller follows.
func (h *UserHandler) HandleSubscriptions(c *fiber.Ctx) error {
	q := queryValues(c)
	page, err := pageRequest(q, h.pageSize)
	if err != nil {
		return respondError(c, err)
	}
	limit, err := recipesLimit(q)
	if err != nil {
		return respondError(c, err)
	}
	subs, total, err := h.users.Subscriptions(c.UserContext(), middleware.ViewerID(c), page, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewPage(subs, total, page, pageLink(c, q)))
}

// HandleSubscribe follows an author.
func (h *UserHandler) HandleSubscribe(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	limit, err := recipesLimit(queryValues(c))
	if err != nil {
		return respondError(c, err)
	}
	sub, err := h.users.Subscribe(c.UserContext(), middleware.ViewerID(c), id, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

// HandleUnsubscribe stops following an author.
func (h *UserHandler) HandleUnsubscribe(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.users.Unsubscribe(c.UserContext(), middleware.ViewerID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
