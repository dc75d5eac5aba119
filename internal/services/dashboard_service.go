package services

import (
	"time"

	"quickbite/internal/apperrors"
	"quickbite/internal/models"
	"quickbite/internal/repositories"
	"quickbite/pkg/qr"
	"quickbite/pkg/rabbitmq"
)

// CustomerSummary is the denormalized customer block on a dashboard order
// detail view.
type CustomerSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// OrderDetails is a dashboard order with its customer info attached.
type OrderDetails struct {
	Order    *models.Order   `json:"order"`
	Customer CustomerSummary `json:"customer"`
}

// OrderCounts breaks a cafeteria's orders down by status.
type OrderCounts struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Preparing int64 `json:"preparing"`
	Ready     int64 `json:"ready"`
	Completed int64 `json:"completed"`
}

// RevenueStats aggregates completed-order revenue.
type RevenueStats struct {
	Total           float64                      `json:"total"`
	Today           float64                      `json:"today"`
	ByPaymentMethod []repositories.MethodRevenue `json:"by_payment_method"`
}

// Statistics is the seller dashboard aggregate view.
type Statistics struct {
	Orders  OrderCounts  `json:"orders"`
	Revenue RevenueStats `json:"revenue"`
}

// DashboardService serves the seller-facing order listings, the final
// pickup verification, and the dashboard aggregates.
type DashboardService struct {
	orderRepo  repositories.OrderRepository
	sellerRepo repositories.SellerRepository
	userRepo   repositories.UserRepository
	events     EventPublisher
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(orderRepo repositories.OrderRepository, sellerRepo repositories.SellerRepository, userRepo repositories.UserRepository, events EventPublisher) *DashboardService {
	return &DashboardService{
		orderRepo:  orderRepo,
		sellerRepo: sellerRepo,
		userRepo:   userRepo,
		events:     events,
	}
}

// ListOrders returns the seller's cafeteria orders. The filter's cafeteria
// scope is always overwritten with the seller's own binding.
func (s *DashboardService) ListOrders(sellerID string, filter repositories.OrderListFilter) ([]models.Order, int64, error) {
	seller, err := s.sellerRepo.GetByID(sellerID)
	if err != nil {
		return nil, 0, err
	}
	if filter.Status != "" {
		if _, ok := models.ParseOrderStatus(filter.Status); !ok {
			return nil, 0, apperrors.Validationf("invalid status %q", filter.Status)
		}
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	filter.CafeteriaID = seller.CollegeID
	return s.orderRepo.ListByCafeteria(filter)
}

// OrderDetails returns one binding-checked order with customer info.
func (s *DashboardService) OrderDetails(sellerID, orderID string) (*OrderDetails, error) {
	seller, err := s.sellerRepo.GetByID(sellerID)
	if err != nil {
		return nil, err
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if !seller.BoundTo(order.CafeteriaID) {
		return nil, apperrors.Forbiddenf("this order does not belong to your cafeteria")
	}

	customer := CustomerSummary{ID: order.UserID, Email: order.UserEmail}
	if user, err := s.userRepo.GetByID(order.UserID); err == nil {
		customer.Name = user.Name
		customer.Phone = user.Phone
	}
	return &OrderDetails{Order: order, Customer: customer}, nil
}

// VerifyPickup confirms the customer's identity before the order is handed
// over. The order must be exactly ready; on success the conditional
// completion write credits the seller's counters exactly once even under
// concurrent attempts.
func (s *DashboardService) VerifyPickup(orderID, sellerID, method, value string) (*models.Order, error) {
	if method == "" || value == "" {
		return nil, apperrors.Validationf("verification method and value are required")
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
		return nil, apperrors.Forbiddenf("this order does not belong to your cafeteria")
	}
	if order.Status != models.StatusReady {
		return nil, apperrors.InvalidStatef("order status is %s, it must be ready for pickup", order.Status)
	}

	var verified bool
	switch method {
	case "token":
		verified = order.OrderToken == value
	case "qr":
		// Structured check: the scanned payload must parse and carry this
		// order's id exactly.
		scannedID, _, parseErr := qr.ParsePayload(value)
		verified = parseErr == nil && scannedID == order.ID
	default:
		return nil, apperrors.Validationf("invalid verification method %q", method)
	}
	if !verified {
		return nil, apperrors.Unauthorizedf("verification failed, invalid token or QR code")
	}

	completed, err := s.orderRepo.CompletePickup(orderID, sellerID, method)
	if err != nil {
		return nil, err
	}

	publishEvent(s.events, rabbitmq.EventOrderCompleted, map[string]interface{}{
		"order_id":    completed.ID,
		"verified_by": sellerID,
		"method":      method,
		"amount":      completed.TotalPrice,
	})

	return completed, nil
}

// Statistics returns the seller dashboard aggregates: per-status order
// counts, lifetime and today's completed revenue, and the payment-method
// revenue breakdown.
func (s *DashboardService) Statistics(sellerID string) (*Statistics, error) {
	seller, err := s.sellerRepo.GetByID(sellerID)
	if err != nil {
		return nil, err
	}
	cafeteriaID := seller.CollegeID

	var stats Statistics
	if stats.Orders.Total, err = s.orderRepo.CountAll(cafeteriaID); err != nil {
		return nil, err
	}
	counts := []struct {
		status models.OrderStatus
		dest   *int64
	}{
		{models.StatusPending, &stats.Orders.Pending},
		{models.StatusConfirmed, &stats.Orders.Confirmed},
		{models.StatusPreparing, &stats.Orders.Preparing},
		{models.StatusReady, &stats.Orders.Ready},
		{models.StatusCompleted, &stats.Orders.Completed},
	}
	for _, c := range counts {
		if *c.dest, err = s.orderRepo.CountByStatus(cafeteriaID, c.status); err != nil {
			return nil, err
		}
	}

	if stats.Revenue.Total, err = s.orderRepo.CompletedRevenue(cafeteriaID, nil); err != nil {
		return nil, err
	}
	todayStart := time.Now().Truncate(24 * time.Hour)
	if stats.Revenue.Today, err = s.orderRepo.CompletedRevenue(cafeteriaID, &todayStart); err != nil {
		return nil, err
	}
	if stats.Revenue.ByPaymentMethod, err = s.orderRepo.RevenueByPaymentMethod(cafeteriaID); err != nil {
		return nil, err
	}
	return &stats, nil
}
