package menu

import (
	"menu-manager/core/logger"
	"menu-manager/feature/menu/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the menu hierarchy.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the menu routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	api := app.Group("/api/v1")

	api.Get("/fullbase", h.HandleFullTree)

	api.Get("/menus", h.HandleListMenus)
	api.Post("/menus", h.HandleCreateMenu)
	api.Get("/menus/:menu_id", h.HandleGetMenu)
	api.Patch("/menus/:menu_id", h.HandleUpdateMenu)
	api.Delete("/menus/:menu_id", h.HandleDeleteMenu)

	api.Get("/menus/:menu_id/submenus", h.HandleListSubmenus)
	api.Post("/menus/:menu_id/submenus", h.HandleCreateSubmenu)
	api.Get("/menus/:menu_id/submenus/:submenu_id", h.HandleGetSubmenu)
	api.Patch("/menus/:menu_id/submenus/:submenu_id", h.HandleUpdateSubmenu)
	api.Delete("/menus/:menu_id/submenus/:submenu_id", h.HandleDeleteSubmenu)

	api.Get("/menus/:menu_id/submenus/:submenu_id/dishes", h.HandleListDishes)
	api.Post("/menus/:menu_id/submenus/:submenu_id/dishes", h.HandleCreateDish)
	api.Get("/menus/:menu_id/submenus/:submenu_id/dishes/:dish_id", h.HandleGetDish)
	api.Patch("/menus/:menu_id/submenus/:submenu_id/dishes/:dish_id", h.HandleUpdateDish)
	api.Delete("/menus/:menu_id/submenus/:submenu_id/dishes/:dish_id", h.HandleDeleteDish)
}

// HandleFullTree returns every menu with submenus and dishes expanded.
func (h *Handler) HandleFullTree(c *fiber.Ctx) error {
	tree, err := h.service.FullTree(c.Context())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(tree)
}

// HandleListMenus returns all menus.
func (h *Handler) HandleListMenus(c *fiber.Ctx) error {
	items, err := h.service.ListMenus(c.Context())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(items)
}

// HandleGetMenu returns one menu.
func (h *Handler) HandleGetMenu(c *fiber.Ctx) error {
	item, err := h.service.GetMenu(c.Context(), c.Params("menu_id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(item)
}

// HandleCreateMenu creates a menu.
func (h *Handler) HandleCreateMenu(c *fiber.Ctx) error {
	var payload models.MenuPayload
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "invalid request body")
	}
	item, err := h.service.CreateMenu(c.Context(), payload)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleUpdateMenu updates a menu.
func (h *Handler) HandleUpdateMenu(c *fiber.Ctx) error {
	var payload models.MenuPayload
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "invalid request body")
	}
	item, err := h.service.UpdateMenu(c.Context(), c.Params("menu_id"), payload)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(item)
}

// HandleDeleteMenu deletes a menu and its whole subtree.
func (h *Handler) HandleDeleteMenu(c *fiber.Ctx) error {
	if err := h.service.DeleteMenu(c.Context(), c.Params("menu_id")); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": true, "message": "The menu has been deleted"})
}

// HandleListSubmenus returns the submenus of a menu.
func (h *Handler) HandleListSubmenus(c *fiber.Ctx) error {
	items, err := h.service.ListSubmenus(c.Context(), c.Params("menu_id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(items)
}

// HandleGetSubmenu returns one submenu.
func (h *Handler) HandleGetSubmenu(c *fiber.Ctx) error {
	item, err := h.service.GetSubmenu(c.Context(), c.Params("menu_id"), c.Params("submenu_id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(item)
}

// HandleCreateSubmenu creates a submenu under a menu.
func (h *Handler) HandleCreateSubmenu(c *fiber.Ctx) error {
	var payload models.SubmenuPayload
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "invalid request body")
	}
	item, err := h.service.CreateSubmenu(c.Context(), c.Params("menu_id"), payload)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleUpdateSubmenu updates a submenu.
func (h *Handler) HandleUpdateSubmenu(c *fiber.Ctx) error {
	var payload models.SubmenuPayload
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "invalid request body")
	}
	item, err := h.service.UpdateSubmenu(c.Context(), c.Params("menu_id"), c.Params("submenu_id"), payload)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(item)
}

// HandleDeleteSubmenu deletes a submenu and its dishes.
func (h *Handler) HandleDeleteSubmenu(c *fiber.Ctx) error {
	if err := h.service.DeleteSubmenu(c.Context(), c.Params("menu_id"), c.Params("submenu_id")); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": true, "message": "The submenu has been deleted"})
}

// HandleListDishes returns the dishes of a submenu.
func (h *Handler) HandleListDishes(c *fiber.Ctx) error {
	items, err := h.service.ListDishes(c.Context(), c.Params("menu_id"), c.Params("submenu_id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(items)
}

// HandleGetDish returns one dish.
func (h *Handler) HandleGetDish(c *fiber.Ctx) error {
	item, err := h.service.GetDish(c.Context(),
		c.Params("menu_id"), c.Params("submenu_id"), c.Params("dish_id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(item)
}

// HandleCreateDish creates a dish under a submenu.
func (h *Handler) HandleCreateDish(c *fiber.Ctx) error {
	var payload models.DishPayload
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "invalid request body")
	}
	item, err := h.service.CreateDish(c.Context(), c.Params("menu_id"), c.Params("submenu_id"), payload)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleUpdateDish updates a dish.
func (h *Handler) HandleUpdateDish(c *fiber.Ctx) error {
	var payload models.DishPayload
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "invalid request body")
	}
	item, err := h.service.UpdateDish(c.Context(),
		c.Params("menu_id"), c.Params("submenu_id"), c.Params("dish_id"), payload)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(item)
}

// HandleDeleteDish deletes a dish.
func (h *Handler) HandleDeleteDish(c *fiber.Ctx) error {
	if err := h.service.DeleteDish(c.Context(),
		c.Params("menu_id"), c.Params("submenu_id"), c.Params("dish_id")); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": true, "message": "The dish has been deleted"})
}

// respondError maps domain errors to HTTP statuses.
func (h *Handler) respondError(c *fiber.Ctx, err error) error {
	switch {
	case models.IsNotFound(err):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": err.Error()})
	case models.IsConflict(err):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"detail": err.Error()})
	case models.IsValidation(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": err.Error()})
	default:
		l := logger.WithRequestID(h.logger, c)
		l.Error("Request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "internal server error"})
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": msg})
}
