package handlers

import (
	"github.com/gofiber/fiber/v2"

	"quickbite/internal/middleware"
	"quickbite/internal/repositories"
	"quickbite/internal/services"
)

// DashboardHandler handles the seller dashboard endpoints: order listings,
// pickup verification and statistics.
type DashboardHandler struct {
	service      *services.DashboardService
	orderService *services.OrderService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(service *services.DashboardService, orderService *services.OrderService) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		orderService: orderService,
	}
}

// RegisterRoutes registers the dashboard routes; all are seller-only.
func (h *DashboardHandler) RegisterRoutes(router fiber.Router, authRequired, sellerOnly fiber.Handler) {
	dashboardRoutes := router.Group("/seller/dashboard", authRequired, sellerOnly)
	dashboardRoutes.Get("/orders", h.HandleListOrders)
	dashboardRoutes.Get("/orders/:id", h.HandleOrderDetails)
	dashboardRoutes.Put("/orders/:id/status", h.HandleUpdateStatus)
	dashboardRoutes.Post("/orders/:id/verify-pickup", h.HandleVerifyPickup)
	dashboardRoutes.Get("/statistics", h.HandleStatistics)
}

// HandleListOrders lists the seller's cafeteria orders with optional status
// filter, sorting and pagination.
func (h *DashboardHandler) HandleListOrders(c *fiber.Ctx) error {
	filter := repositories.OrderListFilter{
		Status:   c.Query("status"),
		SortBy:   c.Query("sort_by", "created_at"),
		SortDesc: c.Query("sort_order", "desc") != "asc",
		Limit:    c.QueryInt("limit", 50),
		Offset:   c.QueryInt("offset", 0),
	}

	principal := middleware.PrincipalFrom(c)
	orders, total, err := h.service.ListOrders(principal.ID, filter)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "", fiber.Map{
		"orders":     orders,
		"pagination": pagination(total, filter.Limit, filter.Offset, len(orders)),
	})
}

// HandleOrderDetails returns one order with its customer info.
func (h *DashboardHandler) HandleOrderDetails(c *fiber.Ctx) error {
	principal := middleware.PrincipalFrom(c)
	details, err := h.service.OrderDetails(principal.ID, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "", fiber.Map{
		"order":    details.Order,
		"customer": details.Customer,
	})
}

// HandleUpdateStatus moves an order through its lifecycle from the dashboard.
func (h *DashboardHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}
	if req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Status is required",
		})
	}

	principal := middleware.PrincipalFrom(c)
	order, err := h.orderService.UpdateStatus(c.Params("id"), principal.ID, req.Status)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Order status updated", fiber.Map{"order": order})
}

// VerifyPickupRequest is the request body for the final pickup verification.
type VerifyPickupRequest struct {
	Method string `json:"method"`
	Value  string `json:"value"`
}

// HandleVerifyPickup confirms the customer's token or QR and completes the
// order, crediting the seller's totals.
func (h *DashboardHandler) HandleVerifyPickup(c *fiber.Ctx) error {
	var req VerifyPickupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	principal := middleware.PrincipalFrom(c)
	order, err := h.service.VerifyPickup(c.Params("id"), principal.ID, req.Method, req.Value)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Pickup verified, order completed", fiber.Map{
		"order": order,
	})
}

// HandleStatistics returns the seller's dashboard aggregates.
func (h *DashboardHandler) HandleStatistics(c *fiber.Ctx) error {
	principal := middleware.PrincipalFrom(c)
	stats, err := h.service.Statistics(principal.ID)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "", fiber.Map{"statistics": stats})
}
