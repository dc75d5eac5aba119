package repositories

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"quickbite/internal/apperrors"
	"quickbite/internal/models"
)

// MockPaymentRepository is an in-memory implementation of PaymentRepository.
// The cross-entity methods update the bound order store the way the GORM
// implementation does in a transaction.
type MockPaymentRepository struct {
	payments map[string]models.Payment
	orders   *MockOrderRepository
	mu       sync.RWMutex
}

// NewMockPaymentRepository creates a new instance bound to an order store.
func NewMockPaymentRepository(orders *MockOrderRepository) *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]models.Payment),
		orders:   orders,
	}
}

// Create adds a new payment record.
func (r *MockPaymentRepository) Create(payment *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = payment.CreatedAt
	r.payments[payment.ID] = *payment
	return nil
}

// GetByID returns a payment by its ID.
func (r *MockPaymentRepository) GetByID(id string) (*models.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	payment, ok := r.payments[id]
	if !ok {
		return nil, apperrors.NotFoundf("payment %s", id)
	}
	return &payment, nil
}

// SetRazorpayOrderID stores the gateway order id.
func (r *MockPaymentRepository) SetRazorpayOrderID(id, razorpayOrderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	payment, ok := r.payments[id]
	if !ok {
		return apperrors.NotFoundf("payment %s", id)
	}
	payment.RazorpayOrderID = razorpayOrderID
	payment.UpdatedAt = time.Now()
	r.payments[id] = payment
	return nil
}

// MarkFailed terminally fails this payment attempt; the order is untouched.
func (r *MockPaymentRepository) MarkFailed(id, razorpayPaymentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	payment, ok := r.payments[id]
	if !ok {
		return apperrors.NotFoundf("payment %s", id)
	}
	payment.Status = models.PaymentStatusFailed
	payment.RazorpayPaymentID = razorpayPaymentID
	payment.UpdatedAt = time.Now()
	r.payments[id] = payment
	return nil
}

// CompleteWithOrder marks the payment completed and flips the linked order's
// payment status.
func (r *MockPaymentRepository) CompleteWithOrder(id, razorpayPaymentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	payment, ok := r.payments[id]
	if !ok {
		return apperrors.NotFoundf("payment %s", id)
	}
	if r.orders != nil {
		if err := r.orders.SetPaymentCompleted(payment.OrderID, "online"); err != nil {
			return err
		}
	}
	payment.Status = models.PaymentStatusCompleted
	payment.RazorpayPaymentID = razorpayPaymentID
	payment.UpdatedAt = time.Now()
	r.payments[id] = payment
	return nil
}

// CreateCompletedWithOrder inserts an already-completed offline payment and
// updates the linked order's payment status.
func (r *MockPaymentRepository) CreateCompletedWithOrder(payment *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	payment.Status = models.PaymentStatusCompleted
	if r.orders != nil {
		if err := r.orders.SetPaymentCompleted(payment.OrderID, payment.Method); err != nil {
			return err
		}
	}
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = payment.CreatedAt
	r.payments[payment.ID] = *payment
	return nil
}

// List returns a filtered, paginated payment history, newest first.
func (r *MockPaymentRepository) List(filter PaymentListFilter) ([]models.Payment, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	allowed := map[string]bool{}
	if filter.OrderIDs != nil {
		for _, id := range filter.OrderIDs {
			allowed[id] = true
		}
	}

	matched := make([]models.Payment, 0)
	for _, p := range r.payments {
		if filter.Method != "" && p.Method != filter.Method {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.OrderIDs != nil && !allowed[p.OrderID] {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return []models.Payment{}, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}
