package repositories

import (
	"time"

	"quickbite/internal/models"
)

// OrderListFilter scopes and pages seller-facing order listings.
type OrderListFilter struct {
	CafeteriaID string
	Status      string
	SortBy      string // created_at, pickup_time, total_price
	SortDesc    bool
	Limit       int
	Offset      int
}

// MethodRevenue is a revenue aggregate grouped by payment method.
type MethodRevenue struct {
	Method string  `json:"method"`
	Total  float64 `json:"total"`
	Count  int64   `json:"count"`
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	ListByUser(userID string) ([]models.Order, error)
	ListByCafeteria(filter OrderListFilter) ([]models.Order, int64, error)
	UpdateStatus(id string, status models.OrderStatus) error
	AttachQRCode(id, qrCode string) error
	SetPaymentCompleted(id, method string) error
	// CompletePickup transitions ready -> completed and credits the seller's
	// order/revenue counters as one atomic unit. The status precondition is a
	// conditional write: a lost race returns an invalid-state error and
	// credits nothing.
	CompletePickup(orderID, sellerID, method string) (*models.Order, error)
	IDsByCafeteria(cafeteriaID string) ([]string, error)
	CountByStatus(cafeteriaID string, status models.OrderStatus) (int64, error)
	CountAll(cafeteriaID string) (int64, error)
	CompletedRevenue(cafeteriaID string, since *time.Time) (float64, error)
	RevenueByPaymentMethod(cafeteriaID string) ([]MethodRevenue, error)
}
