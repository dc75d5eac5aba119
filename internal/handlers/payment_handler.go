package handlers

import (
	"github.com/gofiber/fiber/v2"

	"quickbite/internal/middleware"
	"quickbite/internal/repositories"
	"quickbite/internal/services"
)

// PaymentHandler handles the payment endpoints: online gateway flow,
// offline settlement and history.
type PaymentHandler struct {
	service *services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// RegisterRoutes registers the payment routes. All require authentication;
// marking offline payments is seller-only.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router, authRequired, sellerOnly fiber.Handler) {
	paymentRoutes := router.Group("/payments", authRequired)
	paymentRoutes.Post("/create-order", h.HandleCreatePaymentOrder)
	paymentRoutes.Post("/verify-online", h.HandleVerifyOnline)
	paymentRoutes.Post("/mark-offline", sellerOnly, h.HandleMarkOffline)
	paymentRoutes.Get("/history", h.HandleHistory)
	paymentRoutes.Get("/:id", h.HandleGetPayment)
}

// CreatePaymentOrderRequest is the request body for opening a payment.
type CreatePaymentOrderRequest struct {
	OrderID       string  `json:"order_id"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
}

// HandleCreatePaymentOrder opens a payment intent, including the remote
// gateway order for online methods.
func (h *PaymentHandler) HandleCreatePaymentOrder(c *fiber.Ctx) error {
	var req CreatePaymentOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	handle, err := h.service.CreatePaymentOrder(req.OrderID, req.Amount, req.PaymentMethod)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusCreated, "Payment order created", fiber.Map{
		"payment": handle,
	})
}

// VerifyOnlineRequest is the gateway callback verification body.
type VerifyOnlineRequest struct {
	PaymentID         string `json:"payment_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// HandleVerifyOnline verifies a gateway signature and completes the payment
// together with the order's payment status.
func (h *PaymentHandler) HandleVerifyOnline(c *fiber.Ctx) error {
	var req VerifyOnlineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	payment, err := h.service.VerifyOnlinePayment(req.PaymentID, req.RazorpayPaymentID, req.RazorpaySignature)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Payment verified successfully", fiber.Map{
		"payment": payment,
	})
}

// MarkOfflineRequest is the request body for recording a cash settlement.
type MarkOfflineRequest struct {
	OrderID       string `json:"order_id"`
	PaymentMethod string `json:"payment_method"`
	Notes         string `json:"notes"`
}

// HandleMarkOffline records an offline settlement by the authenticated
// seller.
func (h *PaymentHandler) HandleMarkOffline(c *fiber.Ctx) error {
	var req MarkOfflineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	principal := middleware.PrincipalFrom(c)
	payment, err := h.service.MarkOfflinePayment(req.OrderID, principal.ID, req.PaymentMethod, req.Notes)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Offline payment recorded", fiber.Map{
		"payment": payment,
	})
}

// HandleHistory lists payment records, scoped to the seller's cafeteria for
// seller principals.
func (h *PaymentHandler) HandleHistory(c *fiber.Ctx) error {
	filter := repositories.PaymentListFilter{
		Method: c.Query("payment_method"),
		Status: c.Query("status"),
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}

	principal := middleware.PrincipalFrom(c)
	payments, total, err := h.service.History(principal.Role, principal.ID, filter)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "", fiber.Map{
		"payments":   payments,
		"pagination": pagination(total, filter.Limit, filter.Offset, len(payments)),
	})
}

// HandleGetPayment returns one payment record.
func (h *PaymentHandler) HandleGetPayment(c *fiber.Ctx) error {
	payment, err := h.service.GetPayment(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "", fiber.Map{"payment": payment})
}
