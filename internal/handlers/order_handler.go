package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"quickbite/internal/middleware"
	"quickbite/internal/services"
	"quickbite/pkg/schedule"
)

// OrderHandler handles the customer-facing order endpoints and the seller
// hand-off verifications.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes registers the order routes. The slot listing is public;
// everything else requires authentication, and the hand-off verifications
// plus status updates are seller-only.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, authRequired, sellerOnly fiber.Handler) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/available-slots", h.HandleAvailableSlots)
	orderRoutes.Post("/create", authRequired, h.HandleCreateOrder)
	orderRoutes.Get("/user/orders", authRequired, h.HandleListUserOrders)
	orderRoutes.Get("/:id", authRequired, h.HandleGetOrder)
	orderRoutes.Post("/:id/verify-token", authRequired, sellerOnly, h.HandleVerifyToken)
	orderRoutes.Post("/:id/verify-qr", authRequired, sellerOnly, h.HandleVerifyQR)
	orderRoutes.Put("/:id/status", authRequired, sellerOnly, h.HandleUpdateStatus)
}

// HandleAvailableSlots lists the fixed pickup slots.
func (h *OrderHandler) HandleAvailableSlots(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, "", fiber.Map{
		"slots": schedule.AvailableSlots(),
	})
}

// CreateOrderRequest is the request body for opening an order.
type CreateOrderRequest struct {
	CollegeID           string                      `json:"college_id"`
	CafeteriaID         string                      `json:"cafeteria_id"`
	Items               []services.OrderItemRequest `json:"items"`
	PickupTime          string                      `json:"pickup_time"`
	SpecialInstructions string                      `json:"special_instructions"`
	PaymentMethod       string                      `json:"payment_method"`
}

// HandleCreateOrder opens a new order for the authenticated customer.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	principal := middleware.PrincipalFrom(c)
	order, err := h.service.CreateOrder(services.CreateOrderInput{
		UserID:              principal.ID,
		UserEmail:           principal.Email,
		CollegeID:           req.CollegeID,
		CafeteriaID:         req.CafeteriaID,
		Items:               req.Items,
		PickupTime:          req.PickupTime,
		SpecialInstructions: req.SpecialInstructions,
		PaymentMethod:       req.PaymentMethod,
	})
	if err != nil {
		return fail(c, err)
	}

	return respond(c, fiber.StatusCreated, "Order placed successfully", fiber.Map{
		"order":       order,
		"order_token": order.OrderToken,
		"qr_code":     order.QRCode,
	})
}

// HandleGetOrder returns one order, visible to its owner or a seller.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	principal := middleware.PrincipalFrom(c)
	order, err := h.service.GetOrder(c.Params("id"), principal.ID, principal.Role)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "", fiber.Map{"order": order})
}

// HandleListUserOrders returns the authenticated customer's orders.
func (h *OrderHandler) HandleListUserOrders(c *fiber.Ctx) error {
	principal := middleware.PrincipalFrom(c)
	orders, err := h.service.ListUserOrders(principal.ID)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "", fiber.Map{
		"orders": orders,
		"count":  len(orders),
	})
}

// HandleVerifyToken verifies the customer's pickup token and marks the
// order ready for hand-off.
func (h *OrderHandler) HandleVerifyToken(c *fiber.Ctx) error {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	principal := middleware.PrincipalFrom(c)
	order, err := h.service.VerifyTokenHandoff(c.Params("id"), principal.ID, req.Token)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Token verified, order is ready for pickup", fiber.Map{
		"order": order,
	})
}

// HandleVerifyQR verifies a scanned QR payload and marks the order ready
// for hand-off.
func (h *OrderHandler) HandleVerifyQR(c *fiber.Ctx) error {
	var req struct {
		QRData string `json:"qr_data"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	principal := middleware.PrincipalFrom(c)
	order, err := h.service.VerifyQRHandoff(c.Params("id"), principal.ID, req.QRData)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "QR verified, order is ready for pickup", fiber.Map{
		"order": order,
	})
}

// HandleUpdateStatus moves an order through its lifecycle on behalf of the
// authenticated seller.
func (h *OrderHandler) HandleUpdateStatus(c *fiber.Ctx) error {
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
	order, err := h.service.UpdateStatus(c.Params("id"), principal.ID, req.Status)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Order status updated", fiber.Map{"order": order})
}
