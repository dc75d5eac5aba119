package handlers

import (
	"github.com/gofiber/fiber/v2"

	"quickbite/internal/middleware"
	"quickbite/internal/models"
	"quickbite/internal/repositories"
	"quickbite/internal/services"
)

// CatalogHandler handles HTTP requests for colleges and cafeteria menus.
type CatalogHandler struct {
	service *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes registers the catalog routes. Browsing is public; menu
// writes require an authenticated seller.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router, authRequired, sellerOnly fiber.Handler) {
	collegeRoutes := router.Group("/colleges")
	collegeRoutes.Get("/", h.HandleListColleges)
	collegeRoutes.Get("/:id", h.HandleGetCollege)

	menuRoutes := router.Group("/menu")
	menuRoutes.Get("/", h.HandleListMenu)
	menuRoutes.Get("/:id", h.HandleGetMenuItem)

	sellerMenuRoutes := router.Group("/seller/menu", authRequired, sellerOnly)
	sellerMenuRoutes.Post("/", h.HandleCreateMenuItem)
	sellerMenuRoutes.Put("/:id", h.HandleUpdateMenuItem)
	sellerMenuRoutes.Delete("/:id", h.HandleDeleteMenuItem)
}

// HandleListColleges returns all colleges.
func (h *CatalogHandler) HandleListColleges(c *fiber.Ctx) error {
	colleges, err := h.service.ListColleges()
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "", fiber.Map{"colleges": colleges})
}

// HandleGetCollege returns one college by id.
func (h *CatalogHandler) HandleGetCollege(c *fiber.Ctx) error {
	college, err := h.service.GetCollege(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "", fiber.Map{"college": college})
}

// HandleListMenu returns menu items, optionally filtered by cafeteria,
// college, category or veg-only flag.
func (h *CatalogHandler) HandleListMenu(c *fiber.Ctx) error {
	filter := repositories.MenuFilter{
		CafeteriaID: c.Query("cafeteria_id"),
		CollegeID:   c.Query("college_id"),
		Category:    c.Query("category"),
		VegOnly:     c.QueryBool("veg_only"),
	}
	items, err := h.service.ListMenuItems(filter)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "", fiber.Map{"items": items})
}

// HandleGetMenuItem returns one menu item by id.
func (h *CatalogHandler) HandleGetMenuItem(c *fiber.Ctx) error {
	item, err := h.service.GetMenuItem(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "", fiber.Map{"item": item})
}

// HandleCreateMenuItem creates a menu item for the authenticated seller.
func (h *CatalogHandler) HandleCreateMenuItem(c *fiber.Ctx) error {
	var item models.MenuItem
	if err := c.BodyParser(&item); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	principal := middleware.PrincipalFrom(c)
	if err := h.service.CreateMenuItem(principal.ID, &item); err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusCreated, "Menu item created", fiber.Map{"item": item})
}

// HandleUpdateMenuItem updates a menu item owned by the authenticated seller.
func (h *CatalogHandler) HandleUpdateMenuItem(c *fiber.Ctx) error {
	var item models.MenuItem
	if err := c.BodyParser(&item); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}
	item.ID = c.Params("id")

	principal := middleware.PrincipalFrom(c)
	if err := h.service.UpdateMenuItem(principal.ID, &item); err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Menu item updated", fiber.Map{"item": item})
}

// HandleDeleteMenuItem deletes a menu item owned by the authenticated seller.
func (h *CatalogHandler) HandleDeleteMenuItem(c *fiber.Ctx) error {
	principal := middleware.PrincipalFrom(c)
	if err := h.service.DeleteMenuItem(principal.ID, c.Params("id")); err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Menu item deleted", nil)
}
