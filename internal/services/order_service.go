package services

import (
	"errors"
	"log"
	"math/rand"
	"strings"

	"quickbite/internal/apperrors"
	"quickbite/internal/models"
	"quickbite/internal/repositories"
	"quickbite/pkg/qr"
	"quickbite/pkg/rabbitmq"
	"quickbite/pkg/schedule"
)

const (
	orderTokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	orderTokenLength   = 6
	// How many times token generation retries when the random draw collides
	// with an existing order token.
	tokenRetryLimit = 5
)

// OrderItemRequest is a requested line in a new order. A zero quantity means
// unspecified and defaults to 1; negative quantities are rejected.
type OrderItemRequest struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

// CreateOrderInput carries everything needed to open an order. UserID and
// UserEmail come from the authenticated principal, not the request body.
type CreateOrderInput struct {
	UserID              string
	UserEmail           string
	CollegeID           string
	CafeteriaID         string
	Items               []OrderItemRequest
	PickupTime          string
	SpecialInstructions string
	PaymentMethod       string
}

// OrderService owns order creation, listing and the status state machine,
// including the seller hand-off verifications.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	catalogRepo repositories.CatalogRepository
	sellerRepo  repositories.SellerRepository
	events      EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, catalogRepo repositories.CatalogRepository, sellerRepo repositories.SellerRepository, events EventPublisher) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		catalogRepo: catalogRepo,
		sellerRepo:  sellerRepo,
		events:      events,
	}
}

// CreateOrder validates the request, snapshots line items at current catalog
// prices, issues the pickup token and QR, and persists the order in pending
// status. QR rendering is best-effort: a failure leaves the order without a
// QR image but does not abort creation.
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if input.CollegeID == "" || input.CafeteriaID == "" || input.PickupTime == "" || len(input.Items) == 0 {
		return nil, apperrors.Validationf("items, college_id, cafeteria_id and pickup_time are required")
	}

	method := input.PaymentMethod
	if method == "" {
		method = "offline"
	}
	if !models.ValidOrderPaymentMethod(method) {
		return nil, apperrors.Validationf("invalid payment method, valid methods: %s", strings.Join(models.OrderPaymentMethods, ", "))
	}

	if !schedule.IsValidSlot(input.PickupTime) {
		return nil, apperrors.Validationf("invalid pickup time, available slots: %s", strings.Join(schedule.AvailableSlots(), ", "))
	}

	var totalPrice float64
	items := make([]models.OrderItem, 0, len(input.Items))
	for _, req := range input.Items {
		if req.Quantity < 0 {
			return nil, apperrors.Validationf("quantity for item %s must be positive", req.ItemID)
		}
		quantity := req.Quantity
		if quantity == 0 {
			quantity = 1
		}

		item, err := s.catalogRepo.GetMenuItem(req.ItemID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NotFoundf("item %s", req.ItemID)
			}
			return nil, err
		}
		if !item.Available {
			return nil, apperrors.Validationf("item %s is not available", item.Name)
		}

		subtotal := item.Price * float64(quantity)
		totalPrice += subtotal
		items = append(items, models.OrderItem{
			ItemID:   item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: quantity,
			Subtotal: subtotal,
		})
	}

	order := &models.Order{
		UserID:              input.UserID,
		UserEmail:           input.UserEmail,
		CollegeID:           input.CollegeID,
		CafeteriaID:         input.CafeteriaID,
		Items:               items,
		TotalPrice:          totalPrice,
		PickupTime:          input.PickupTime,
		SpecialInstructions: input.SpecialInstructions,
		Status:              models.StatusPending,
		PaymentStatus:       models.PaymentPending,
		PaymentMethod:       method,
	}

	// The token has a unique index; a collision surfaces as a conflict and
	// gets a fresh draw.
	var err error
	for attempt := 0; attempt < tokenRetryLimit; attempt++ {
		order.OrderToken = generateOrderToken()
		err = s.orderRepo.Create(order)
		if err == nil || !errors.Is(err, apperrors.ErrConflict) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	dataURI, _, qrErr := qr.Generate(order.ID, order.OrderToken)
	if qrErr != nil {
		log.Printf("Warning: failed to generate QR for order %s: %v", order.ID, qrErr)
	} else if attachErr := s.orderRepo.AttachQRCode(order.ID, dataURI); attachErr != nil {
		log.Printf("Warning: failed to attach QR to order %s: %v", order.ID, attachErr)
	} else {
		order.QRCode = dataURI
	}

	publishEvent(s.events, rabbitmq.EventOrderCreated, map[string]interface{}{
		"order_id":     order.ID,
		"user_id":      order.UserID,
		"cafeteria_id": order.CafeteriaID,
		"total_price":  order.TotalPrice,
		"pickup_time":  order.PickupTime,
		"status":       order.Status,
	})

	return order, nil
}

// GetOrder fetches an order, visible only to its owner or a seller/admin.
func (s *OrderService) GetOrder(orderID, requesterID, requesterRole string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != requesterID && requesterRole != "seller" && requesterRole != "admin" {
		return nil, apperrors.Forbiddenf("not authorized to view this order")
	}
	return order, nil
}

// ListUserOrders returns a customer's orders, newest first.
func (s *OrderService) ListUserOrders(userID string) ([]models.Order, error) {
	return s.orderRepo.ListByUser(userID)
}

// UpdateStatus moves an order to newStatus on behalf of a seller. The seller
// must be bound to the order's cafeteria and the move must be legal under
// the lifecycle transition table.
func (s *OrderService) UpdateStatus(orderID, sellerID, newStatus string) (*models.Order, error) {
	status, ok := models.ParseOrderStatus(newStatus)
	if !ok {
		return nil, apperrors.Validationf("invalid status %q", newStatus)
	}

	seller, err := s.sellerRepo.GetByID(sellerID)
	if err != nil {
		return nil, err
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if !seller.BoundTo(order.CafeteriaID) {
		return nil, apperrors.Forbiddenf("order does not belong to your cafeteria")
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, apperrors.InvalidStatef("cannot move order from %s to %s", order.Status, status)
	}

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		return nil, err
	}

	publishEvent(s.events, rabbitmq.EventOrderStatus, map[string]interface{}{
		"order_id":   orderID,
		"status":     status,
		"updated_by": sellerID,
	})

	return s.orderRepo.GetByID(orderID)
}

// VerifyTokenHandoff checks the customer's token and moves the order to
// ready. This is the hand-off step, distinct from final pickup completion.
func (s *OrderService) VerifyTokenHandoff(orderID, sellerID, token string) (*models.Order, error) {
	if token == "" {
		return nil, apperrors.Validationf("token is required")
	}
	order, err := s.handoffOrder(orderID, sellerID)
	if err != nil {
		return nil, err
	}
	if order.OrderToken != token {
		return nil, apperrors.Unauthorizedf("invalid token")
	}
	return s.markReady(order, sellerID)
}

// VerifyQRHandoff checks a scanned QR payload and moves the order to ready.
// The payload must parse as a structured order payload whose embedded order
// id equals this order's id; arbitrary text containing the id is rejected.
func (s *OrderService) VerifyQRHandoff(orderID, sellerID, qrValue string) (*models.Order, error) {
	if qrValue == "" {
		return nil, apperrors.Validationf("qr_data is required")
	}
	order, err := s.handoffOrder(orderID, sellerID)
	if err != nil {
		return nil, err
	}
	scannedID, _, parseErr := qr.ParsePayload(qrValue)
	if parseErr != nil || scannedID != order.ID {
		return nil, apperrors.Unauthorizedf("QR code does not match this order")
	}
	return s.markReady(order, sellerID)
}

func (s *OrderService) handoffOrder(orderID, sellerID string) (*models.Order, error) {
	seller, err := s.sellerRepo.GetByID(sellerID)
	if err != nil {
		return nil, err
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if !seller.BoundTo(order.CafeteriaID) {
		return nil, apperrors.Forbiddenf("order is not for this cafeteria")
	}
	return order, nil
}

func (s *OrderService) markReady(order *models.Order, sellerID string) (*models.Order, error) {
	if !order.Status.CanTransitionTo(models.StatusReady) {
		return nil, apperrors.InvalidStatef("cannot move order from %s to %s", order.Status, models.StatusReady)
	}
	if err := s.orderRepo.UpdateStatus(order.ID, models.StatusReady); err != nil {
		return nil, err
	}

	publishEvent(s.events, rabbitmq.EventOrderStatus, map[string]interface{}{
		"order_id":   order.ID,
		"status":     models.StatusReady,
		"updated_by": sellerID,
	})

	return s.orderRepo.GetByID(order.ID)
}

// generateOrderToken draws a 6-character uppercase alphanumeric pickup token.
func generateOrderToken() string {
	b := make([]byte, orderTokenLength)
	for i := range b {
		b[i] = orderTokenAlphabet[rand.Intn(len(orderTokenAlphabet))]
	}
	return string(b)
}
