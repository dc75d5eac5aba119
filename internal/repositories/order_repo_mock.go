package repositories

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"quickbite/internal/apperrors"
	"quickbite/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository. It
// replicates the conditional-write semantics of the GORM implementation,
// including the ready-state precondition on pickup completion.
type MockOrderRepository struct {
	orders     map[string]models.Order
	tokens     map[string]string // order token -> order id
	sellerRepo *MockSellerRepository
	mu         sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
		tokens: make(map[string]string),
	}
}

// BindSellers wires the seller store credited by CompletePickup.
func (r *MockOrderRepository) BindSellers(sellers *MockSellerRepository) {
	r.sellerRepo = sellers
}

// Create adds a new order, enforcing order-token uniqueness.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if _, taken := r.tokens[order.OrderToken]; taken {
		return apperrors.Conflictf("order token %s already in use", order.OrderToken)
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	r.orders[order.ID] = *order
	r.tokens[order.OrderToken] = order.ID
	return nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, apperrors.NotFoundf("order %s", id)
	}
	return &order, nil
}

// ListByUser returns a user's orders, newest first.
func (r *MockOrderRepository) ListByUser(userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]models.Order, 0)
	for _, o := range r.orders {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// ListByCafeteria returns a filtered, sorted, paginated cafeteria listing.
func (r *MockOrderRepository) ListByCafeteria(filter OrderListFilter) ([]models.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Order, 0)
	for _, o := range r.orders {
		if o.CafeteriaID != filter.CafeteriaID {
			continue
		}
		if filter.Status != "" && string(o.Status) != filter.Status {
			continue
		}
		matched = append(matched, o)
	}

	sort.Slice(matched, func(i, j int) bool {
		var less bool
		switch filter.SortBy {
		case "pickup_time":
			less = matched[i].PickupTime < matched[j].PickupTime
		case "total_price":
			less = matched[i].TotalPrice < matched[j].TotalPrice
		default:
			less = matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		if filter.SortDesc {
			return !less
		}
		return less
	})

	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return []models.Order{}, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

// UpdateStatus sets the order status, stamping ReadyAt when reaching ready.
func (r *MockOrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return apperrors.NotFoundf("order %s", id)
	}
	now := time.Now()
	order.Status = status
	order.UpdatedAt = now
	if status == models.StatusReady {
		order.ReadyAt = &now
	}
	r.orders[id] = order
	return nil
}

// AttachQRCode stores the rendered QR data URI.
func (r *MockOrderRepository) AttachQRCode(id, qrCode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return apperrors.NotFoundf("order %s", id)
	}
	order.QRCode = qrCode
	r.orders[id] = order
	return nil
}

// SetPaymentCompleted flips the order's payment axis to completed.
func (r *MockOrderRepository) SetPaymentCompleted(id, method string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.setPaymentCompletedLocked(id, method)
}

func (r *MockOrderRepository) setPaymentCompletedLocked(id, method string) error {
	order, ok := r.orders[id]
	if !ok {
		return apperrors.NotFoundf("order %s", id)
	}
	order.PaymentStatus = models.PaymentCompleted
	order.PaymentMethod = method
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// CompletePickup applies the conditional ready -> completed transition and
// credits the bound seller store. Only the request that observes the ready
// state performs the credit.
func (r *MockOrderRepository) CompletePickup(orderID, sellerID, method string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, apperrors.NotFoundf("order %s", orderID)
	}
	if order.Status != models.StatusReady {
		return nil, apperrors.InvalidStatef("order status is %s, it must be ready for pickup", order.Status)
	}

	now := time.Now()
	order.Status = models.StatusCompleted
	order.CompletedAt = &now
	order.PickupVerifiedBy = sellerID
	order.PickupVerificationMethod = method
	order.UpdatedAt = now
	r.orders[orderID] = order

	if r.sellerRepo != nil {
		if err := r.sellerRepo.credit(sellerID, order.TotalPrice); err != nil {
			return nil, err
		}
	}
	return &order, nil
}

// IDsByCafeteria returns the ids of all orders bound to a cafeteria.
func (r *MockOrderRepository) IDsByCafeteria(cafeteriaID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0)
	for id, o := range r.orders {
		if o.CafeteriaID == cafeteriaID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// CountByStatus counts a cafeteria's orders in one status.
func (r *MockOrderRepository) CountByStatus(cafeteriaID string, status models.OrderStatus) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, o := range r.orders {
		if o.CafeteriaID == cafeteriaID && o.Status == status {
			n++
		}
	}
	return n, nil
}

// CountAll counts every order for a cafeteria.
func (r *MockOrderRepository) CountAll(cafeteriaID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, o := range r.orders {
		if o.CafeteriaID == cafeteriaID {
			n++
		}
	}
	return n, nil
}

// CompletedRevenue sums completed-order revenue, optionally since a cutoff.
func (r *MockOrderRepository) CompletedRevenue(cafeteriaID string, since *time.Time) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total float64
	for _, o := range r.orders {
		if o.CafeteriaID != cafeteriaID || o.Status != models.StatusCompleted {
			continue
		}
		if since != nil && o.CreatedAt.Before(*since) {
			continue
		}
		total += o.TotalPrice
	}
	return total, nil
}

// RevenueByPaymentMethod groups completed-order revenue by payment method.
func (r *MockOrderRepository) RevenueByPaymentMethod(cafeteriaID string) ([]MethodRevenue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byMethod := make(map[string]*MethodRevenue)
	for _, o := range r.orders {
		if o.CafeteriaID != cafeteriaID || o.Status != models.StatusCompleted {
			continue
		}
		agg, ok := byMethod[o.PaymentMethod]
		if !ok {
			agg = &MethodRevenue{Method: o.PaymentMethod}
			byMethod[o.PaymentMethod] = agg
		}
		agg.Total += o.TotalPrice
		agg.Count++
	}

	rows := make([]MethodRevenue, 0, len(byMethod))
	for _, agg := range byMethod {
		rows = append(rows, *agg)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Method < rows[j].Method })
	return rows, nil
}
